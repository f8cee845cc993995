package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// File extensions for supported codecs.
const (
	jsonExtension = ".json"
	yamlExtension = ".yaml"
	ymlExtension  = ".yml"

	// lz4Extension marks an lz4-framed file; it follows the codec extension.
	lz4Extension = ".lz4"
)

// Default indentation for pretty-printed output.
const (
	defaultIndent     = "  "
	defaultYAMLIndent = 2
)

// ErrUnknownFormat is returned when a path has no supported extension.
var ErrUnknownFormat = errors.New("unknown dataset format")

// Codec defines how a dataset document is serialized and deserialized.
type Codec interface {
	// Encode writes v to the writer.
	Encode(w io.Writer, v any) error
	// Decode reads into v from the reader.
	Decode(r io.Reader, v any) error
	// Extension returns the file extension for this codec (e.g., ".json", ".yaml").
	Extension() string
}

// JSONCodec implements Codec using JSON encoding with optional indentation.
type JSONCodec struct {
	// Indent specifies the indentation string. Empty string means compact JSON.
	Indent string
}

// NewJSONCodec creates a JSON codec with pretty-printing (2-space indent).
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{Indent: defaultIndent}
}

// Encode implements Codec.Encode using JSON encoding.
func (c *JSONCodec) Encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	if c.Indent != "" {
		encoder.SetIndent("", c.Indent)
	}

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using JSON decoding.
func (c *JSONCodec) Decode(r io.Reader, v any) error {
	err := json.NewDecoder(r).Decode(v)
	if err != nil {
		return fmt.Errorf("json decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for JSON files.
func (c *JSONCodec) Extension() string {
	return jsonExtension
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// NewYAMLCodec creates a YAML codec.
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Encode implements Codec.Encode using YAML encoding.
func (c *YAMLCodec) Encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(defaultYAMLIndent)

	err := encoder.Encode(v)
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	err = encoder.Close()
	if err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}

	return nil
}

// Decode implements Codec.Decode using YAML decoding.
// An empty document decodes to the zero value.
func (c *YAMLCodec) Decode(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("yaml decode: %w", err)
	}

	return nil
}

// Extension implements Codec.Extension for YAML files.
func (c *YAMLCodec) Extension() string {
	return yamlExtension
}

// CodecFor picks the codec from the path's extension, ignoring a trailing ".lz4".
func CodecFor(path string) (Codec, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(path), lz4Extension)))

	switch ext {
	case jsonExtension:
		return NewJSONCodec(), nil
	case yamlExtension, ymlExtension:
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// IsCompressed reports whether path names an lz4-framed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), lz4Extension)
}
