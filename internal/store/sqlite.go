package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/foldcms/foldcms-go/internal/codec"
	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better read concurrency during a build
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Single connection: the design assumes exactly one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStore opens (or creates) a content store at dbPath. Schema setup
// is idempotent and safe to run on every startup.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert upserts one record row. The record is encoded to canonical bytes,
// hashed, and written with a fresh timestamp; a conflicting (collection, id)
// row is fully replaced.
func (s *SQLiteStore) Insert(ctx context.Context, collection, id string, rec types.Record) error {
	data, hash, err := codec.Encode(rec)
	if err != nil {
		return &StoreError{Op: "insert", Collection: collection, ID: id, Err: err}
	}

	query := `
		INSERT INTO entities (collection, id, hash, data, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			hash = excluded.hash,
			data = excluded.data,
			created_at = excluded.created_at
	`
	now := time.Now().UnixMilli()
	if _, err := s.db.ExecContext(ctx, query, collection, id, hash, string(data), now); err != nil {
		return &StoreError{Op: "insert", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// GetByID performs a point lookup by composite key. Absence is ErrNotFound,
// not a StoreError; a row that no longer decodes against the schema is.
func (s *SQLiteStore) GetByID(ctx context.Context, collection, id string, sc *schema.Schema) (types.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM entities WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get", Collection: collection, ID: id, Err: err}
	}

	rec, err := codec.Decode([]byte(data), sc)
	if err != nil {
		return nil, &StoreError{Op: "decode", Collection: collection, ID: id, Err: err}
	}
	return rec, nil
}

// GetAll scans every row of a collection, ordered by id. Any row that fails
// to decode fails the whole scan.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string, sc *schema.Schema) ([]types.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM entities WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, &StoreError{Op: "scan", Collection: collection, Err: err}
	}
	defer func() { _ = rows.Close() }()

	records := make([]types.Record, 0)
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, &StoreError{Op: "scan", Collection: collection, Err: err}
		}
		rec, err := codec.Decode([]byte(data), sc)
		if err != nil {
			return nil, &StoreError{Op: "decode", Collection: collection, ID: id, Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "scan", Collection: collection, Err: err}
	}
	return records, nil
}

// GetHash returns the content hash stored for (collection, id).
func (s *SQLiteStore) GetHash(ctx context.Context, collection, id string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx,
		`SELECT hash FROM entities WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &StoreError{Op: "hash", Collection: collection, ID: id, Err: err}
	}
	return hash, nil
}

// Stats reports per-collection row counts plus the database file size.
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT collection, COUNT(*) FROM entities GROUP BY collection ORDER BY collection`,
	)
	if err != nil {
		return nil, &StoreError{Op: "stats", Collection: "*", Err: err}
	}
	defer func() { _ = rows.Close() }()

	stats := &Stats{Collections: make(map[string]int)}
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, &StoreError{Op: "stats", Collection: "*", Err: err}
		}
		stats.Collections[name] = count
		stats.TotalRows += count
	}
	if err := rows.Err(); err != nil {
		return nil, &StoreError{Op: "stats", Collection: "*", Err: err}
	}

	var pageCount, pageSize int
	if err := s.db.QueryRowContext(ctx, "PRAGMA page_count").Scan(&pageCount); err == nil {
		_ = s.db.QueryRowContext(ctx, "PRAGMA page_size").Scan(&pageSize)
		stats.SizeMB = float64(pageCount*pageSize) / (1024 * 1024)
	}

	return stats, nil
}
