package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Importer reads a save document in some format
type Importer interface {
	Parse(r io.Reader) (*Document, error)
	Format() string
}

// Exporter writes a save document in some format
type Exporter interface {
	Export(doc *Document, w io.Writer) error
	Format() string
}

// Codec both reads and writes a format
type Codec interface {
	Importer
	Exporter
}

// ForPath picks the codec matching a file extension. JSON is the default.
func ForPath(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYAMLCodec()
	default:
		return NewJSONCodec()
	}
}

// ExporterFor returns the exporter registered under a format name
func ExporterFor(format string) (Exporter, error) {
	switch strings.ToLower(format) {
	case "json", "":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	case "ansible", "ansible-inventory":
		return NewAnsibleCodec(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
