package file

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"hackterm/internal/codec"
	"hackterm/internal/domain"
	"hackterm/internal/repository"
)

// Store implements repository.SaveStore on the local filesystem. The
// codec is chosen from the path extension.
type Store struct{}

// New creates a file store
func New() *Store {
	return &Store{}
}

// Save renders doc to a temporary file next to path and renames it over
// path. On any failure the temporary file is removed and the previous
// contents of path are left as they were.
func (s *Store) Save(path string, doc *codec.Document) (err error) {
	if path == "" {
		return fmt.Errorf("save: empty path: %w", domain.ErrInvalidArgument)
	}

	var buf bytes.Buffer
	if err := codec.ForPath(path).Export(doc, &buf); err != nil {
		return fmt.Errorf("render %s: %w: %w", path, err, domain.ErrFile)
	}

	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w: %w", err, domain.ErrFile)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write temp file: %w: %w", err, domain.ErrFile)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w: %w", err, domain.ErrFile)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w: %w", err, domain.ErrFile)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace %s: %w: %w", path, err, domain.ErrFile)
	}

	return nil
}

// Load reads and parses the whole document at path
func (s *Store) Load(path string) (*codec.Document, error) {
	if path == "" {
		return nil, fmt.Errorf("load: empty path: %w", domain.ErrInvalidArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w: %w", path, err, domain.ErrFile)
	}

	doc, err := codec.ForPath(path).Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", path, err, domain.ErrFile)
	}

	return doc, nil
}

var _ repository.SaveStore = (*Store)(nil)
