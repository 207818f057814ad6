// Package quote resolves the current price of B3 symbols from market data providers.
//
// A Source fetches quotes from a single provider. A Chain tries its sources in order and
// implements longshort.QuoteResolver.
package quote

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/etnz/longshort"
	"github.com/rs/zerolog"
)

// DefaultSuffix is the exchange suffix of B3 symbols on most providers.
const DefaultSuffix = ".SA"

// Source fetches the quote of a provider symbol, already carrying its exchange suffix.
type Source interface {
	Name() string
	Fetch(ctx context.Context, symbol string) (longshort.Quote, error)
}

// Chain resolves symbols by trying each source in turn, the first positive price wins.
type Chain struct {
	suffix  string
	sources []Source
	log     zerolog.Logger
	now     func() time.Time
}

// NewChain returns a Chain appending suffix to symbols that have none.
func NewChain(suffix string, log zerolog.Logger, sources ...Source) *Chain {
	return &Chain{
		suffix:  suffix,
		sources: sources,
		log:     log.With().Str("component", "quote").Logger(),
		now:     time.Now,
	}
}

// Sources returns the names of the sources, in order.
func (c *Chain) Sources() []string {
	names := make([]string, len(c.sources))
	for i, s := range c.sources {
		names[i] = s.Name()
	}
	return names
}

// ProviderSymbol returns the symbol as queried on providers: upper case, with the exchange
// suffix unless it already has one.
func (c *Chain) ProviderSymbol(symbol string) string {
	symbol = longshort.NormalizeSymbol(symbol)
	if c.suffix == "" || strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + strings.ToUpper(c.suffix)
}

// Resolve implements longshort.QuoteResolver. When every source fails, the error is a
// *longshort.QuoteError joining each source failure.
func (c *Chain) Resolve(ctx context.Context, symbol string) (longshort.Quote, error) {
	symbol = longshort.NormalizeSymbol(symbol)
	ps := c.ProviderSymbol(symbol)
	if len(c.sources) == 0 {
		return longshort.Quote{}, &longshort.QuoteError{Symbol: symbol, Cause: errors.New("no quote source configured")}
	}

	var errs []error
	for _, s := range c.sources {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		q, err := s.Fetch(ctx, ps)
		if err == nil && !q.Price.IsPositive() {
			err = fmt.Errorf("non positive price %v", q.Price.Decimal())
		}
		if err != nil {
			c.log.Debug().Str("symbol", ps).Str("source", s.Name()).Err(err).Msg("falling back")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		q.Symbol = symbol
		q.Source = s.Name()
		if q.ObservedAt.IsZero() {
			q.ObservedAt = c.now()
		}
		return q, nil
	}
	return longshort.Quote{}, &longshort.QuoteError{Symbol: symbol, Cause: errors.Join(errs...)}
}
