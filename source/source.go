// Package source turns JSON, JSONC, YAML and CBOR input into value trees
// the canonical encoder accepts.
package source

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names an input encoding.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatYAML  Format = "yaml"
	FormatCBOR  Format = "cbor"
)

// Formats lists every supported input format.
var Formats = []Format{FormatJSON, FormatJSONC, FormatYAML, FormatCBOR}

// ParseFormat resolves a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatJSONC, FormatYAML, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown input format %q", s)
	}
}

// DetectFormat picks a format from the file extension, defaulting to JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonc":
		return FormatJSONC
	case ".yaml", ".yml":
		return FormatYAML
	case ".cbor":
		return FormatCBOR
	default:
		return FormatJSON
	}
}

// Decode parses data in the given format.
//
// JSON and JSONC come back as cjson.RawMessage so the canonical encoder
// re-parses them itself. YAML and CBOR come back as value trees; integers
// keep their exact value and floats stay floats so the encoder rejects them.
func Decode(format Format, data []byte) (any, error) {
	switch format {
	case FormatJSON:
		return decodeJSON(data), nil
	case FormatJSONC:
		return decodeJSONC(data), nil
	case FormatYAML:
		return decodeYAML(data)
	case FormatCBOR:
		return decodeCBOR(data)
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}
