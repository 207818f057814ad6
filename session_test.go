package longshort

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/longshort/date"
)

func TestSession_Apply(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s, err := OpenSession(ctx, store, "carteira", SessionOptions{})
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if s.Version() != VersionEmpty || store.saves != 0 {
		t.Errorf("OpenSession() on a missing document = %v with %d saves, want empty and no save", s.Version(), store.saves)
	}

	op := mustOp(t, "PETR4", Long, 100, "10")
	if _, err := s.Apply(ctx, func(snap *Snapshot) (Change, error) { return snap.Create("Ana", "Bruno", op) }); err != nil {
		t.Fatalf("Apply(create) error = %v", err)
	}
	if store.saves != 1 {
		t.Errorf("saves after create = %d, want 1", store.saves)
	}

	// a rejected change is not persisted.
	if _, err := s.Apply(ctx, func(snap *Snapshot) (Change, error) {
		return snap.Close(Ref{"Ana", "Bruno", 0}, M(0), date.New(2025, 4, 1))
	}); !errors.Is(err, ErrValidation) {
		t.Errorf("Apply(invalid close) error = %v, want ErrValidation", err)
	}
	if store.saves != 1 {
		t.Errorf("saves after rejected close = %d, want 1", store.saves)
	}

	reopened, err := OpenSession(ctx, store, "carteira", SessionOptions{})
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if n := reopened.Snapshot().Len(); n != 1 {
		t.Errorf("reopened Len() = %d, want 1", n)
	}
}

func TestSession_PersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	s, err := OpenSession(ctx, store, "carteira", SessionOptions{})
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	store.failSaves = true

	op := mustOp(t, "PETR4", Long, 100, "10")
	change, err := s.Apply(ctx, func(snap *Snapshot) (Change, error) { return snap.Create("Ana", "Bruno", op) })
	var pe *PersistenceError
	if !errors.As(err, &pe) || pe.Op != "save" {
		t.Fatalf("Apply() error = %v, want a save PersistenceError", err)
	}
	if change.Kind != Created {
		t.Errorf("Apply() change = %v, want the created change", change.Kind)
	}
	if !s.Dirty() {
		t.Errorf("Dirty() = false after a failed save")
	}
	if n := s.Snapshot().Len(); n != 1 {
		t.Errorf("in-memory Len() = %d, want 1", n)
	}

	store.failSaves = false
	if err := s.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if s.Dirty() {
		t.Errorf("Dirty() = true after a successful save")
	}
}

func TestSession_MigrationSaveFailure(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	store.docs["carteira"] = []byte(`[` + legacyOp + `]`)
	store.failSaves = true

	s, err := OpenSession(ctx, store, "carteira", SessionOptions{})
	if err != nil {
		t.Fatalf("OpenSession() error = %v, want the session anyway", err)
	}
	if !s.Dirty() {
		t.Errorf("Dirty() = false, want true when the migrated snapshot was not saved")
	}
	if n := s.Snapshot().Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
}

func TestSession_LoadFailure(t *testing.T) {
	store := newMemStore()
	store.docs["carteira"] = []byte(`{"Bruno":12}`)
	_, err := OpenSession(context.Background(), store, "carteira", SessionOptions{})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("OpenSession() error = %v, want ErrPersistence", err)
	}
}
