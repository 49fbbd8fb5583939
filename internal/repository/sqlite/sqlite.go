package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"hbnb/internal/codec"
	"hbnb/internal/domain"
	"hbnb/internal/repository"

	_ "modernc.org/sqlite"
)

// Backend implements repository.Backend using SQLite
type Backend struct {
	db   *sql.DB
	path string
}

// New opens (creating if needed) the database at dbPath and migrates it
func New(dbPath string) (*Backend, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent and
	// serializes writers.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, path: dbPath}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return b, nil
}

func (b *Backend) migrate() error {
	schema := `
	PRAGMA busy_timeout = 5000;
	PRAGMA journal_mode = WAL;

	CREATE TABLE IF NOT EXISTS records (
		key TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		id TEXT NOT NULL,
		data JSON NOT NULL,
		updated_at TEXT
	);

	CREATE TABLE IF NOT EXISTS metadata (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind);
	`

	_, err := b.db.Exec(schema)
	return err
}

// Location implements repository.Backend
func (b *Backend) Location() string {
	return "sqlite://" + b.path
}

// Load reads every stored record back into a document. A database that has
// never been written to reports repository.ErrNotExist.
func (b *Backend) Load(ctx context.Context) (codec.Document, error) {
	var storedAt string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = 'stored_at'`).Scan(&storedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotExist
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query metadata: %w", err)
	}

	rows, err := b.db.QueryContext(ctx, `SELECT key, data FROM records`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	doc := make(codec.Document)
	for rows.Next() {
		var (
			key  string
			data []byte
		)
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		attrs, err := unmarshalAttributes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", codec.ErrMalformedDocument, key, err)
		}
		doc[key] = attrs
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return doc, nil
}

// Store replaces every row with the contents of doc in one transaction
func (b *Backend) Store(ctx context.Context, doc codec.Document) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (key, kind, id, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, key := range doc.Keys() {
		attrs := doc[key]
		data, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", key, err)
		}

		kind, _ := attrs[domain.AttrKind].(string)
		id, _ := attrs[domain.AttrID].(string)
		updatedAt, _ := attrs[domain.AttrUpdatedAt].(string)

		if _, err := stmt.ExecContext(ctx, key, kind, id, string(data), stringToNull(updatedAt)); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", key, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES ('stored_at', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("failed to update metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// CountByKind returns the number of stored rows per kind
func (b *Backend) CountByKind(ctx context.Context) (map[string]int, error) {
	rows, err := b.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM records GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[kind] = n
	}
	return counts, rows.Err()
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// unmarshalAttributes decodes a stored JSON object, keeping numbers exact
func unmarshalAttributes(data []byte) (domain.Attributes, error) {
	var attrs domain.Attributes
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&attrs); err != nil {
		return nil, err
	}
	if attrs == nil {
		return nil, fmt.Errorf("record data is not an object")
	}
	return attrs, nil
}
