package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"hbnb/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export of whole documents
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads a document from YAML
func (c *YAMLCodec) Parse(r io.Reader) (Document, error) {
	var raw map[string]map[string]any
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return nil, fmt.Errorf("%w: failed to parse YAML: %v", ErrMalformedDocument, err)
	}

	doc := make(Document, len(raw))
	for key, attrs := range raw {
		if attrs == nil {
			return nil, fmt.Errorf("%w: %s has no attributes", ErrMalformedDocument, key)
		}
		doc[key] = domain.Attributes(attrs)
	}

	return doc, nil
}

// Export writes the document as YAML
func (c *YAMLCodec) Export(doc Document, w io.Writer) error {
	raw := make(map[string]map[string]any, len(doc))
	for key, attrs := range doc {
		out := make(map[string]any, len(attrs))
		for name, v := range attrs {
			out[name] = plainNumber(v)
		}
		raw[key] = out
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(raw); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// plainNumber turns a json.Number into int64 or float64 so YAML writes it
// as a number rather than a quoted string
func plainNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return string(n)
}
