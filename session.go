package longshort

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	"github.com/rs/zerolog"
)

// DocumentStore persists whole documents by id. Load returns an error matching fs.ErrNotExist
// when the document does not exist yet.
type DocumentStore interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
}

// SessionOptions configures OpenSession.
type SessionOptions struct {
	Migration MigrateOptions
	Logger    zerolog.Logger
}

// Session is the working state of the desk: the snapshot loaded from a store, written back
// after every mutation.
//
// A Session is safe for concurrent use. The last writer wins in the store.
type Session struct {
	store DocumentStore
	id    string
	log   zerolog.Logger

	mu      sync.Mutex
	snap    *Snapshot
	version Version
	dirty   bool // in-memory snapshot not persisted yet
}

// OpenSession loads the document id from store. A missing document starts an empty snapshot.
//
// A document in an older shape is migrated and saved right away. If that save fails, the
// failure is logged and the session keeps working on the migrated snapshot.
func OpenSession(ctx context.Context, store DocumentStore, id string, opts SessionOptions) (*Session, error) {
	s := &Session{
		store: store,
		id:    id,
		log:   opts.Logger.With().Str("component", "session").Str("document", id).Logger(),
	}
	data, err := store.Load(ctx, id)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug().Msg("no snapshot yet, starting empty")
		data = nil
	case err != nil:
		return nil, &PersistenceError{Op: "load", Err: err}
	}

	snap, version, err := DecodeSnapshot(data, opts.Migration)
	if err != nil {
		return nil, &PersistenceError{Op: "load", Err: err}
	}
	s.snap, s.version = snap, version

	if version.NeedsMigration() {
		s.log.Info().Stringer("from", version).Int("operations", snap.Len()).Msg("migrating snapshot")
		if err := s.save(ctx); err != nil {
			s.log.Warn().Err(err).Msg("migrated snapshot not persisted")
		}
	}
	return s, nil
}

// Version returns the version of the document when it was loaded.
func (s *Session) Version() Version { return s.version }

// Dirty reports whether the last write failed.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Apply runs a lifecycle transition on the snapshot and persists the result.
//
// When fn fails the snapshot is left untouched and nothing is written. When only the write
// fails, the change is kept in memory and returned along with a *PersistenceError.
func (s *Session) Apply(ctx context.Context, fn func(*Snapshot) (Change, error)) (Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	change, err := fn(s.snap)
	if err != nil {
		return Change{}, err
	}
	s.log.Debug().Stringer("change", change).Msg("applied")
	if err := s.save(ctx); err != nil {
		s.log.Warn().Err(err).Stringer("change", change).Msg("change kept in memory only")
		return change, err
	}
	return change, nil
}

// Save writes the current snapshot.
func (s *Session) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Session) save(ctx context.Context) error {
	data, err := EncodeSnapshot(s.snap)
	if err == nil {
		err = s.store.Save(ctx, s.id, data)
	}
	if err != nil {
		s.dirty = true
		return &PersistenceError{Op: "save", Err: err}
	}
	s.dirty = false
	return nil
}
