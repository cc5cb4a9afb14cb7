package entity

import "strings"

// SerializerConfig selects the default encoding used by Serialize callers.
type SerializerConfig struct {
	// Format is json or yaml.
	Format string `mapstructure:"format" default:"json"`
	// Indent is the indentation width; 0 keeps output compact.
	Indent int `mapstructure:"indent" default:"0"`
}

// Encoder builds the configured encoder.
func (c SerializerConfig) Encoder() (Encoder, error) {
	return c.EncoderFor(c.Format)
}

// EncoderFor builds the encoder for format, keeping the configured indent.
func (c SerializerConfig) EncoderFor(format string) (Encoder, error) {
	enc, err := EncoderFor(format)
	if err != nil {
		return nil, err
	}
	if c.Indent <= 0 {
		return enc, nil
	}
	switch enc.(type) {
	case JSONEncoder:
		return JSONEncoder{Indent: strings.Repeat(" ", c.Indent)}, nil
	case YAMLEncoder:
		return YAMLEncoder{Indent: c.Indent}, nil
	}
	return enc, nil
}
