package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSONCodec handles the canonical on-disk format
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse reads a document from JSON. Numbers are kept as json.Number so
// integers survive unchanged.
func (c *JSONCodec) Parse(r io.Reader) (Document, error) {
	var doc Document
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON: %v", ErrMalformedDocument, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: top level is not an object", ErrMalformedDocument)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after document", ErrMalformedDocument)
	}

	return doc, nil
}

// Export writes the document as JSON
func (c *JSONCodec) Export(doc Document, w io.Writer) error {
	if doc == nil {
		doc = Document{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
