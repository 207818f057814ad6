package longshort

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Quote is the last known price of a symbol.
type Quote struct {
	Symbol     string // as stored in the snapshot, without exchange suffix
	Price      Money
	Name       string
	ObservedAt time.Time
	Source     string
}

// QuoteResolver returns the current Quote of a symbol, or an error when none is available. It
// never returns a zero price without an error.
type QuoteResolver interface {
	Resolve(ctx context.Context, symbol string) (Quote, error)
}

// Position is an operation valued during a pass.
//
// Active operations are valued at the quote of the pass. Closed operations are valued at their
// closing price and keep their frozen net result. When no quote could be obtained, Err is set
// and the position must not be aggregated.
type Position struct {
	Ref       Ref
	Operation Operation
	Quote     Quote
	Valuation Valuation
	Target    Target
	Err       error
}

// Valued reports whether the position has a valuation.
func (p Position) Valued() bool { return p.Err == nil }

// EvaluateOptions configures Evaluate.
type EvaluateOptions struct {
	Precedence  Precedence
	Parallelism int // concurrent quote resolutions, defaults to 4
	Logger      zerolog.Logger
	Now         func() time.Time
}

var errNoResolver = errors.New("no quote resolver")

// Pass is the outcome of one evaluation of a snapshot.
type Pass struct {
	At        time.Time
	Positions []Position
	Quotes    map[string]Quote // by symbol
	Failures  map[string]error // by symbol
}

// FailedSymbols returns the symbols without a quote, in alphabetical order.
func (p *Pass) FailedSymbols() []string { return slices.Sorted(maps.Keys(p.Failures)) }

// Valued returns the positions that have a valuation.
func (p *Pass) Valued() []Position {
	valued := make([]Position, 0, len(p.Positions))
	for _, pos := range p.Positions {
		if pos.Valued() {
			valued = append(valued, pos)
		}
	}
	return valued
}

// Evaluate values every operation of snap. Each distinct symbol of the active operations is
// resolved once, a failing symbol only affects its own positions.
//
// A nil resolver values the Closed operations only, Active ones are left unvalued.
func Evaluate(ctx context.Context, snap *Snapshot, r QuoteResolver, opts EvaluateOptions) *Pass {
	log := opts.Logger.With().Str("component", "evaluate").Logger()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	pass := &Pass{
		At:       now(),
		Quotes:   make(map[string]Quote),
		Failures: make(map[string]error),
	}

	symbols := make(map[string]struct{})
	for _, op := range snap.All() {
		if op.IsActive() {
			symbols[op.Symbol] = struct{}{}
		}
	}
	if r == nil {
		for sym := range symbols {
			pass.Failures[sym] = &QuoteError{Symbol: sym, Cause: errNoResolver}
		}
	} else {
		resolveAll(ctx, r, slices.Sorted(maps.Keys(symbols)), opts.Parallelism, pass)
		for _, sym := range pass.FailedSymbols() {
			log.Warn().Str("symbol", sym).Err(pass.Failures[sym]).Msg("quote unavailable")
		}
	}

	for ref, op := range snap.All() {
		pos := Position{Ref: ref, Operation: op}
		if op.IsActive() {
			q, ok := pass.Quotes[op.Symbol]
			if !ok {
				pos.Err = pass.Failures[op.Symbol]
				pass.Positions = append(pass.Positions, pos)
				continue
			}
			pos.Quote = q
			pos.Valuation = Valuate(op, q.Price)
			pos.Target = EvaluateTarget(op, q.Price, opts.Precedence)
		} else {
			pos.Valuation = Valuate(op, op.ClosingPrice)
			pos.Valuation.Net = op.RealizedNet
			pos.Valuation.Return = op.RealizedNet.Ratio(pos.Valuation.EntryNotional)
		}
		pass.Positions = append(pass.Positions, pos)
	}
	log.Debug().Int("positions", len(pass.Positions)).Int("symbols", len(symbols)).
		Int("failures", len(pass.Failures)).Msg("pass done")
	return pass
}

func resolveAll(ctx context.Context, r QuoteResolver, symbols []string, parallelism int, pass *Pass) {
	if parallelism <= 0 {
		parallelism = 4
	}
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, parallelism)
	)
	for _, sym := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			q, err := resolveOne(ctx, r, sym)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if qe := (*QuoteError)(nil); !errors.As(err, &qe) {
					err = &QuoteError{Symbol: sym, Cause: err}
				}
				pass.Failures[sym] = err
				return
			}
			pass.Quotes[sym] = q
		}()
	}
	wg.Wait()
}

// resolveOne resolves a symbol, a panicking resolver only fails that symbol.
func resolveOne(ctx context.Context, r QuoteResolver, sym string) (q Quote, err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &QuoteError{Symbol: sym, Cause: fmt.Errorf("resolver panic: %v", v)}
		}
	}()
	q, err = r.Resolve(ctx, sym)
	if err == nil && !q.Price.IsPositive() {
		err = &QuoteError{Symbol: sym, Cause: fmt.Errorf("non positive price %v", q.Price.Decimal())}
	}
	return q, err
}
