// Package config loads bosun.yaml and the optional .env file next to it.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/initializ/bosun/runtime"
	"github.com/initializ/bosun/types"
)

// DefaultPath is the config file looked up when no --config flag is given.
const DefaultPath = "bosun.yaml"

// LoadConfig reads and parses the config file at path. A missing file yields
// the defaults.
func LoadConfig(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading bosun config %s: %w", path, err)
	}
	return types.ParseConfig(data)
}

// LoadEnvFile reads a .env file and returns key-value pairs.
// Missing files return an empty map and no error.
func LoadEnvFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return runtime.ParseEnvVars(f)
}

// MergeEnv returns vars overlaid with the process environment. Variables set
// to a non-empty value in the process win over the file.
func MergeEnv(vars map[string]string, environ []string) map[string]string {
	out := make(map[string]string, len(vars)+len(environ))
	for k, v := range vars {
		out[k] = v
	}
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok && v != "" {
			out[k] = v
		}
	}
	return out
}

// Load resolves the full configuration: file, then .env, then process
// environment.
func Load(path, envPath string) (*types.Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	fileVars, err := LoadEnvFile(envPath)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", envPath, err)
	}
	if err := cfg.ApplyEnvMap(MergeEnv(fileVars, os.Environ())); err != nil {
		return nil, err
	}
	return cfg, nil
}
