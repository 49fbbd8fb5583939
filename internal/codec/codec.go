package codec

import (
	"errors"
	"io"
	"sort"

	"hbnb/internal/domain"
)

// ErrMalformedDocument is returned when input is not a mapping of
// composite keys to attribute objects.
var ErrMalformedDocument = errors.New("malformed document")

// Document is the persisted form of a registry: composite key to the
// record's serialized attributes, discriminator included.
type Document map[string]domain.Attributes

// Keys returns the document's keys in sorted order
func (d Document) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Importer interface for reading documents from various formats
type Importer interface {
	Parse(r io.Reader) (Document, error)
	Format() string
}

// Exporter interface for writing documents to various formats
type Exporter interface {
	Export(doc Document, w io.Writer) error
	Format() string
}

// Codec both reads and writes one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered under name
func ForFormat(name string) (Codec, bool) {
	switch name {
	case "json":
		return NewJSONCodec(), true
	case "yaml", "yml":
		return NewYAMLCodec(), true
	}
	return nil, false
}
