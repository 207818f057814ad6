package quote

import (
	"context"
	"sync"
	"time"

	"github.com/etnz/longshort"
)

// Memo shares the resolutions of a resolver for a limited time, so that concurrent readers
// of the same pass do not query providers twice.
type Memo struct {
	r   longshort.QuoteResolver
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]memoEntry
}

type memoEntry struct {
	quote longshort.Quote
	err   error
	at    time.Time
}

// NewMemo wraps r. Failures are remembered as well as quotes.
func NewMemo(r longshort.QuoteResolver, ttl time.Duration) *Memo {
	return &Memo{r: r, ttl: ttl, now: time.Now, entries: make(map[string]memoEntry)}
}

// Resolve implements longshort.QuoteResolver.
func (m *Memo) Resolve(ctx context.Context, symbol string) (longshort.Quote, error) {
	symbol = longshort.NormalizeSymbol(symbol)
	m.mu.Lock()
	e, ok := m.entries[symbol]
	m.mu.Unlock()
	if ok && m.now().Sub(e.at) < m.ttl {
		return e.quote, e.err
	}

	q, err := m.r.Resolve(ctx, symbol)
	if ctx.Err() != nil {
		// a cancelled resolution says nothing about the symbol.
		return q, err
	}
	m.mu.Lock()
	m.entries[symbol] = memoEntry{quote: q, err: err, at: m.now()}
	m.mu.Unlock()
	return q, err
}

// Reset forgets every resolution.
func (m *Memo) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
}
