package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/etnz/longshort"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeed_Fetch(t *testing.T) {
	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Write([]byte(`{"results":[{"symbol":"PETR4","longName":"Petrobras","regularMarketPrice":37.42,"time":"2025-03-10T14:00:00Z"}]}`))
	}))
	defer srv.Close()

	f := NewFeed(FeedConfig{
		URL:       srv.URL + "/quote/{symbol}",
		PricePath: "$.results[0].regularMarketPrice",
		NamePath:  "$.results[0].longName",
		TimePath:  "$.results[0].time",
	}, srv.Client())

	q, err := f.Fetch(context.Background(), "PETR4.SA")
	require.NoError(t, err)
	assert.Equal(t, "/quote/PETR4.SA", capturedPath)
	assert.True(t, q.Price.Equal(longshort.M(37.42)))
	assert.Equal(t, "Petrobras", q.Name)
	assert.True(t, q.ObservedAt.Equal(time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)))
}

func TestFeed_LocalNotationAndDefaultPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"price":"1.234,50"}`))
	}))
	defer srv.Close()

	q, err := NewFeed(FeedConfig{URL: srv.URL}, nil).Fetch(context.Background(), "X")
	require.NoError(t, err)
	assert.Equal(t, "1234.50", q.Price.Fixed())
}

func TestFeed_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			http.NotFound(w, r)
		case "/bool":
			w.Write([]byte(`{"price":true}`))
		default:
			w.Write([]byte(`{"other":1}`))
		}
	}))
	defer srv.Close()

	_, err := NewFeed(FeedConfig{URL: srv.URL + "/missing"}, nil).Fetch(context.Background(), "X")
	assert.ErrorContains(t, err, "404")

	_, err = NewFeed(FeedConfig{URL: srv.URL + "/bool"}, nil).Fetch(context.Background(), "X")
	assert.ErrorContains(t, err, "not a number")

	_, err = NewFeed(FeedConfig{URL: srv.URL + "/path"}, nil).Fetch(context.Background(), "X")
	assert.Error(t, err)
}
