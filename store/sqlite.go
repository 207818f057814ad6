package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	data BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLite stores documents in a single table of a SQLite database.
type SQLite struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// NewSQLite opens, or creates, the database at path. ":memory:" opens a private in-memory
// database.
func NewSQLite(path string, logger zerolog.Logger) (*SQLite, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if path == "" {
			path = "lsdesk.db"
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// the in-memory database lives in a single connection.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(sqliteSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &SQLite{conn: conn, logger: logger.With().Str("store", "sqlite").Logger()}, nil
}

func (s *SQLite) Load(ctx context.Context, id string) ([]byte, error) {
	var data []byte
	err := s.conn.QueryRowContext(ctx, `SELECT data FROM documents WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", id, err)
	}
	return data, nil
}

func (s *SQLite) Save(ctx context.Context, id string, data []byte) error {
	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO documents (id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		id, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", id, err)
	}
	s.logger.Debug().Str("id", id).Int("bytes", len(data)).Msg("saved")
	return nil
}

// Close closes the database connection
func (s *SQLite) Close() error { return s.conn.Close() }
