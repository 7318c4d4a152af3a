package repository

import (
	"context"
	"time"

	"hackterm/internal/codec"
)

// SaveStore persists a single save document at a filesystem path
type SaveStore interface {
	Save(path string, doc *codec.Document) error
	Load(path string) (*codec.Document, error)
}

// Snapshot is one archived save document
type Snapshot struct {
	ID          string
	Label       string
	CreatedAt   time.Time
	ServerCount int
	Fingerprint string

	// Document is only populated by Archive.Get
	Document *codec.Document
}

// Archive keeps any number of labeled snapshots
type Archive interface {
	// Put stores doc under a fresh id
	Put(ctx context.Context, label string, doc *codec.Document) (*Snapshot, error)
	Get(ctx context.Context, id string) (*Snapshot, error)
	// List returns snapshots newest first, without documents
	List(ctx context.Context) ([]Snapshot, error)
	Delete(ctx context.Context, id string) error

	// Close releases resources
	Close() error
}
