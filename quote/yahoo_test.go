package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/longshort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnjoon/go-yfinance/pkg/models"
)

type fakeYahoo struct {
	price    float64
	name     string
	bars     []models.Bar
	err      error
	period   string
	interval string
	lookups  int
}

func (f *fakeYahoo) Price(string) (float64, string, error) { return f.price, f.name, f.err }

func (f *fakeYahoo) Name(string) (string, error) {
	f.lookups++
	return f.name, f.err
}

func (f *fakeYahoo) Bars(_, period, interval string) ([]models.Bar, error) {
	f.period, f.interval = period, interval
	return f.bars, f.err
}

func TestYahooBars_LastPositiveClose(t *testing.T) {
	at := time.Date(2025, 3, 10, 16, 59, 0, 0, time.UTC)
	api := &fakeYahoo{bars: []models.Bar{
		{Date: at.Add(-time.Minute), Close: 37.10},
		{Date: at, Close: 37.25},
		{Date: at.Add(time.Minute), Close: 0},
	}}
	s := &YahooBars{name: "yahoo-intraday", period: "1d", interval: "1m", api: api}

	q, err := s.Fetch(context.Background(), "PETR4.SA")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(longshort.M(37.25)))
	assert.Equal(t, at, q.ObservedAt)
	assert.Equal(t, "1d", api.period)
	assert.Equal(t, "1m", api.interval)
}

func TestYahooBars_Name(t *testing.T) {
	api := &fakeYahoo{name: "Petroleo Brasileiro S.A.", bars: []models.Bar{{Date: time.Now(), Close: 37.25}}}
	s := &YahooBars{name: "yahoo-intraday", period: "1d", interval: "1m", api: api}

	for i := 0; i < 2; i++ {
		q, err := s.Fetch(context.Background(), "PETR4.SA")
		require.NoError(t, err)
		assert.Equal(t, "Petroleo Brasileiro S.A.", q.Name)
	}
	assert.Equal(t, 1, api.lookups)

	api.name = ""
	q, err := s.Fetch(context.Background(), "VALE3.SA")
	require.NoError(t, err)
	assert.Empty(t, q.Name)
}

func TestYahooBars_NoBar(t *testing.T) {
	s := &YahooBars{name: "yahoo-daily", period: "5d", interval: "1d", api: &fakeYahoo{}}
	_, err := s.Fetch(context.Background(), "PETR4.SA")
	assert.ErrorContains(t, err, "no 1d bar")

	s.api = &fakeYahoo{err: errors.New("rate limited")}
	_, err = s.Fetch(context.Background(), "PETR4.SA")
	assert.ErrorContains(t, err, "rate limited")
}

func TestYahooSnapshot(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	s := &YahooSnapshot{api: &fakeYahoo{price: 61.2, name: "Vale S.A."}, now: func() time.Time { return now }}

	q, err := s.Fetch(context.Background(), "VALE3.SA")
	require.NoError(t, err)
	assert.True(t, q.Price.Equal(longshort.M(61.2)))
	assert.Equal(t, "Vale S.A.", q.Name)
	assert.Equal(t, now, q.ObservedAt)
}

func TestYahooSources_Names(t *testing.T) {
	assert.Equal(t, "yahoo-intraday", NewYahooIntraday(zeroLog).Name())
	assert.Equal(t, "yahoo-daily", NewYahooDaily(zeroLog).Name())
	assert.Equal(t, "yahoo-snapshot", NewYahooSnapshot(zeroLog).Name())
}
