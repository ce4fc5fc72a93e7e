// Package schemas embeds the JSON Schema of bosun.yaml.
package schemas

import _ "embed"

//go:embed bosun.schema.json
var ConfigSchema []byte
