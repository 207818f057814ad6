// Package store persists snapshot documents.
//
// Every backend stores opaque documents by id and reports a missing document with an error
// matching ErrNotFound, which is fs.ErrNotExist.
package store

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned, possibly wrapped, when a document does not exist.
var ErrNotFound = fs.ErrNotExist

// Store persists whole documents by id.
type Store interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Kind     string // file, sqlite, s3 or memory
	Path     string
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	Logger   zerolog.Logger
}

// Open returns the backend described by cfg.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch strings.ToLower(cfg.Kind) {
	case "", "file":
		return NewFile(cfg.Path, cfg.Logger)
	case "sqlite":
		return NewSQLite(cfg.Path, cfg.Logger)
	case "s3":
		return NewS3(ctx, S3Config{
			Bucket:   cfg.Bucket,
			Prefix:   cfg.Prefix,
			Region:   cfg.Region,
			Endpoint: cfg.Endpoint,
		}, cfg.Logger)
	case "memory":
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Kind)
}

// notFound wraps ErrNotFound with the document id.
func notFound(id string) error { return fmt.Errorf("document %q: %w", id, ErrNotFound) }

// sanitizeID turns a document id into a safe file or object name.
func sanitizeID(id string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(id)
}
