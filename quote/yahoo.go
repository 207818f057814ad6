package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/etnz/longshort"
	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/models"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// yahooAPI is the part of Yahoo Finance used by the sources.
type yahooAPI interface {
	// Price returns the live price and the display name of a symbol.
	Price(symbol string) (price float64, name string, err error)
	// Bars returns the price bars of a symbol, oldest first.
	Bars(symbol, period, interval string) ([]models.Bar, error)
	// Name returns the display name of a symbol.
	Name(symbol string) (string, error)
}

// liveYahoo queries Yahoo Finance through go-yfinance.
type liveYahoo struct {
	log zerolog.Logger
}

func (y liveYahoo) Price(symbol string) (float64, string, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	var price float64
	if q, err := t.Quote(); err == nil && q != nil {
		switch {
		case q.RegularMarketPrice > 0:
			price = q.RegularMarketPrice
		case q.PreMarketPrice > 0:
			price = q.PreMarketPrice
		case q.PostMarketPrice > 0:
			price = q.PostMarketPrice
		}
	} else if err != nil {
		y.log.Debug().Err(err).Str("symbol", symbol).Msg("quote failed, trying info")
	}

	var name string
	info, err := t.Info()
	if err == nil && info != nil {
		name = info.LongName
		if name == "" {
			name = info.ShortName
		}
		if price <= 0 {
			price = info.CurrentPrice
		}
		if price <= 0 {
			price = info.RegularMarketPreviousClose
		}
	}
	if price <= 0 {
		return 0, name, errors.New("no valid price")
	}
	return price, name, nil
}

func (y liveYahoo) Name(symbol string) (string, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return "", fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return "", fmt.Errorf("failed to get info: %w", err)
	}
	if info.LongName != "" {
		return info.LongName, nil
	}
	return info.ShortName, nil
}

func (y liveYahoo) Bars(symbol, period, interval string) ([]models.Bar, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	bars, err := t.History(models.HistoryParams{
		Period:     period,
		Interval:   interval,
		AutoAdjust: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	return bars, nil
}

// lastBar returns the most recent bar with a positive close.
func lastBar(bars []models.Bar) (models.Bar, bool) {
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close > 0 {
			return bars[i], true
		}
	}
	return models.Bar{}, false
}

// YahooBars is a Source reading the close of the last Yahoo Finance bar. Bars carry no name,
// it is looked up once per symbol.
type YahooBars struct {
	name     string
	period   string
	interval string
	api      yahooAPI
	names    sync.Map // symbol to display name
}

// NewYahooIntraday returns the last traded price, from one minute bars of the day.
func NewYahooIntraday(log zerolog.Logger) *YahooBars {
	return &YahooBars{name: "yahoo-intraday", period: "1d", interval: "1m", api: liveYahoo{log: log}}
}

// NewYahooDaily returns the last daily close. It is the most available and the most delayed
// source.
func NewYahooDaily(log zerolog.Logger) *YahooBars {
	return &YahooBars{name: "yahoo-daily", period: "5d", interval: "1d", api: liveYahoo{log: log}}
}

func (s *YahooBars) Name() string { return s.name }

func (s *YahooBars) Fetch(ctx context.Context, symbol string) (longshort.Quote, error) {
	if err := ctx.Err(); err != nil {
		return longshort.Quote{}, err
	}
	bars, err := s.api.Bars(symbol, s.period, s.interval)
	if err != nil {
		return longshort.Quote{}, err
	}
	bar, ok := lastBar(bars)
	if !ok {
		return longshort.Quote{}, fmt.Errorf("no %s bar for %s", s.interval, symbol)
	}
	return longshort.Quote{Price: longshort.M(bar.Close), Name: s.displayName(symbol), ObservedAt: bar.Date}, nil
}

// displayName returns the name of symbol, or "" while it cannot be found.
func (s *YahooBars) displayName(symbol string) string {
	if v, ok := s.names.Load(symbol); ok {
		return v.(string)
	}
	name, err := s.api.Name(symbol)
	if err != nil || name == "" {
		return ""
	}
	s.names.Store(symbol, name)
	return name
}

// YahooSnapshot is a Source reading the quote summary of Yahoo Finance. It also provides the
// company name.
type YahooSnapshot struct {
	api yahooAPI
	now func() time.Time
}

// NewYahooSnapshot returns the Yahoo Finance quote summary source.
func NewYahooSnapshot(log zerolog.Logger) *YahooSnapshot {
	return &YahooSnapshot{api: liveYahoo{log: log}, now: time.Now}
}

func (s *YahooSnapshot) Name() string { return "yahoo-snapshot" }

func (s *YahooSnapshot) Fetch(ctx context.Context, symbol string) (longshort.Quote, error) {
	if err := ctx.Err(); err != nil {
		return longshort.Quote{}, err
	}
	price, name, err := s.api.Price(symbol)
	if err != nil {
		return longshort.Quote{}, err
	}
	return longshort.Quote{Price: longshort.M(price), Name: name, ObservedAt: s.now()}, nil
}
