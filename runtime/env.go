package runtime

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseEnvVars reads KEY=value pairs from a .env file.
//
// Lines may start with "export". Values may be double quoted (with \n, \t,
// \" and \\ escapes), single quoted (literal) or bare. A " #" after a bare
// value, or anything after the closing quote, is a comment. Lines without a
// valid key are skipped.
func ParseEnvVars(r io.Reader) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "export"); ok && rest != "" && (rest[0] == ' ' || rest[0] == '\t') {
			line = strings.TrimSpace(rest)
		}

		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if !validEnvKey(key) {
			continue
		}

		v, err := parseEnvValue(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
		}
		env[key] = v
	}
	return env, scanner.Err()
}

func parseEnvValue(val string) (string, error) {
	if val == "" {
		return "", nil
	}
	switch val[0] {
	case '\'':
		end := strings.IndexByte(val[1:], '\'')
		if end < 0 {
			return "", fmt.Errorf("unterminated single quote")
		}
		return val[1 : end+1], nil
	case '"':
		var b strings.Builder
		for i := 1; i < len(val); i++ {
			c := val[i]
			switch {
			case c == '"':
				return b.String(), nil
			case c == '\\' && i+1 < len(val):
				i++
				switch val[i] {
				case 'n':
					b.WriteByte('\n')
				case 't':
					b.WriteByte('\t')
				default:
					b.WriteByte(val[i])
				}
			default:
				b.WriteByte(c)
			}
		}
		return "", fmt.Errorf("unterminated double quote")
	}
	if i := strings.Index(val, " #"); i >= 0 {
		val = val[:i]
	}
	return strings.TrimSpace(val), nil
}

func validEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c == '_', c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
