package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// File stores each document as <dir>/<id>.json. Writes are atomic and the previous content
// is kept as <id>.json.bak.
type File struct {
	dir    string
	logger zerolog.Logger
}

// NewFile returns a File store rooted at dir, creating it if needed.
func NewFile(dir string, logger zerolog.Logger) (*File, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &File{dir: dir, logger: logger.With().Str("store", "file").Logger()}, nil
}

func (f *File) path(id string) string { return filepath.Join(f.dir, sanitizeID(id)+".json") }

func (f *File) Load(_ context.Context, id string) ([]byte, error) {
	path := f.path(id)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory, then renames it over the target.
func (f *File) Save(_ context.Context, id string, data []byte) error {
	target := f.path(id)

	tmpFile, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if _, err := os.Stat(target); err == nil {
		if err := copyFile(target, target+".bak"); err != nil {
			f.logger.Warn().Err(err).Str("id", id).Msg("backup skipped")
		}
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	f.logger.Debug().Str("id", id).Int("bytes", len(data)).Msg("saved")
	return nil
}

func (f *File) Close() error { return nil }

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}
