package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"hackterm/internal/codec"
	"hackterm/internal/domain"
	"hackterm/internal/repository"
)

// Archive implements repository.Archive using SQLite
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

var _ repository.Archive = (*Archive)(nil)

// New opens (or creates) the archive database at dbPath and migrates it
func New(dbPath string) (*Archive, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps :memory: databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	a := &Archive{db: db, now: time.Now}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return a, nil
}

func (a *Archive) migrate() error {
	version := 0
	// Missing table means a fresh database
	_ = a.db.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := a.db.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS snapshots (
				id           TEXT PRIMARY KEY,
				label        TEXT NOT NULL DEFAULT '',
				created_at   INTEGER NOT NULL,
				server_count INTEGER NOT NULL,
				fingerprint  TEXT NOT NULL,
				data         BLOB NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
			CREATE INDEX IF NOT EXISTS idx_snapshots_fingerprint ON snapshots(fingerprint);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection
func (a *Archive) Close() error {
	return a.db.Close()
}

// Put validates doc, then stores it compressed under a new id
func (a *Archive) Put(ctx context.Context, label string, doc *codec.Document) (*repository.Snapshot, error) {
	if doc == nil {
		return nil, fmt.Errorf("put snapshot: nil document: %w", domain.ErrInvalidArgument)
	}

	restored, err := doc.Decode()
	if err != nil {
		return nil, fmt.Errorf("put snapshot: %w", err)
	}

	data, err := compressDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	snap := &repository.Snapshot{
		ID:          uuid.NewString(),
		Label:       label,
		CreatedAt:   a.now().UTC(),
		ServerCount: restored.Network.Len(),
		Fingerprint: restored.Network.Fingerprint(),
	}

	_, err = a.db.ExecContext(ctx, `
		INSERT INTO snapshots (id, label, created_at, server_count, fingerprint, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`, snap.ID, snap.Label, timeToUnix(snap.CreatedAt), snap.ServerCount, snap.Fingerprint, data)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return snap, nil
}

// Get returns the snapshot with its document
func (a *Archive) Get(ctx context.Context, id string) (*repository.Snapshot, error) {
	var (
		snap    repository.Snapshot
		created int64
		data    []byte
	)

	err := a.db.QueryRowContext(ctx, `
		SELECT id, label, created_at, server_count, fingerprint, data
		FROM snapshots WHERE id = ?
	`, id).Scan(&snap.ID, &snap.Label, &created, &snap.ServerCount, &snap.Fingerprint, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snap.CreatedAt = unixToTime(created)
	snap.Document, err = decompressDocument(data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w: %w", id, err, domain.ErrFile)
	}

	return &snap, nil
}

// List returns all snapshots, newest first
func (a *Archive) List(ctx context.Context) ([]repository.Snapshot, error) {
	rows, err := a.db.QueryContext(ctx, `
		SELECT id, label, created_at, server_count, fingerprint
		FROM snapshots
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []repository.Snapshot
	for rows.Next() {
		var (
			snap    repository.Snapshot
			created int64
		)
		if err := rows.Scan(&snap.ID, &snap.Label, &created, &snap.ServerCount, &snap.Fingerprint); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.CreatedAt = unixToTime(created)
		snaps = append(snaps, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}

	return snaps, nil
}

// Delete removes a snapshot
func (a *Archive) Delete(ctx context.Context, id string) error {
	result, err := a.db.ExecContext(ctx, "DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("snapshot %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
