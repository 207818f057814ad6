package longshort

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"
	"testing"

	"github.com/etnz/longshort/date"
)

// mustOp returns a valid Active operation or fails the test.
func mustOp(t *testing.T, symbol string, side Side, qty Quantity, entry string) Operation {
	t.Helper()
	op, err := NewOperation(symbol, side, qty, MustParseMoney(entry), date.New(2025, 3, 10), Money{}, Money{})
	if err != nil {
		t.Fatalf("NewOperation(%s) error = %v", symbol, err)
	}
	return op
}

// fakeResolver returns fixed prices and counts calls per symbol.
type fakeResolver struct {
	mu     sync.Mutex
	prices map[string]string
	calls  map[string]int
}

func newFakeResolver(prices map[string]string) *fakeResolver {
	return &fakeResolver{prices: prices, calls: make(map[string]int)}
}

func (r *fakeResolver) Resolve(_ context.Context, symbol string) (Quote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[symbol]++
	p, ok := r.prices[symbol]
	if !ok {
		return Quote{}, &QuoteError{Symbol: symbol, Cause: errors.New("unknown symbol")}
	}
	return Quote{Symbol: symbol, Price: MustParseMoney(p), Name: symbol + " SA", Source: "fake"}, nil
}

// memStore is an in-memory DocumentStore, failing writes on demand.
type memStore struct {
	docs      map[string][]byte
	saves     int
	failSaves bool
}

func newMemStore() *memStore { return &memStore{docs: make(map[string][]byte)} }

func (s *memStore) Load(_ context.Context, id string) ([]byte, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("document %q: %w", id, fs.ErrNotExist)
	}
	return d, nil
}

func (s *memStore) Save(_ context.Context, id string, data []byte) error {
	if s.failSaves {
		return errors.New("disk full")
	}
	s.saves++
	s.docs[id] = append([]byte(nil), data...)
	return nil
}
