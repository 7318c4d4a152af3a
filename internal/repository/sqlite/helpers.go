package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang/snappy"

	"hackterm/internal/codec"
)

// ============================================================================
// Timestamp Helpers
// ============================================================================

// timeToUnix stores timestamps as nanoseconds so they order numerically
func timeToUnix(t time.Time) int64 {
	return t.UnixNano()
}

func unixToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// ============================================================================
// Document Blob Helpers
// ============================================================================

// compressDocument encodes doc as JSON and snappy-compresses it
func compressDocument(doc *codec.Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

// decompressDocument reverses compressDocument
func decompressDocument(blob []byte) (*codec.Document, error) {
	data, err := snappy.Decode(nil, blob)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	var doc codec.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &doc, nil
}
