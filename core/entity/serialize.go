package entity

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Encoder turns a mapping into text.
type Encoder interface {
	// Format is the short name of the encoding (e.g. "json").
	Format() string
	// Encode encodes v.
	Encode(v any) ([]byte, error)
}

// JSONEncoder encodes as JSON. Indent enables pretty printing.
type JSONEncoder struct {
	Indent string
}

// Format returns "json".
func (JSONEncoder) Format() string { return "json" }

// Encode encodes v as JSON.
func (e JSONEncoder) Encode(v any) ([]byte, error) {
	if e.Indent != "" {
		return json.MarshalIndent(v, "", e.Indent)
	}
	return json.Marshal(v)
}

// YAMLEncoder encodes as YAML.
type YAMLEncoder struct {
	// Indent is the number of spaces per level; 0 keeps the library default.
	Indent int
}

// Format returns "yaml".
func (YAMLEncoder) Format() string { return "yaml" }

// Encode encodes v as YAML.
func (e YAMLEncoder) Encode(v any) ([]byte, error) {
	var opts []yaml.EncodeOption
	if e.Indent > 0 {
		opts = append(opts, yaml.Indent(e.Indent))
	}
	return yaml.MarshalWithOptions(v, opts...)
}

// EncoderFor returns the encoder for format ("json", "yaml" or "yml").
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return JSONEncoder{}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
}

// Serialize encodes the ToMapping form of e. A nil encoder means JSON.
func Serialize(e any, enc Encoder) (string, error) {
	if enc == nil {
		enc = JSONEncoder{}
	}
	m, err := ToMapping(e)
	if err != nil {
		return "", err
	}
	b, err := enc.Encode(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", enc.Format(), err)
	}
	return string(b), nil
}
