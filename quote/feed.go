package quote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/longshort"
)

// FeedConfig describes a JSON endpoint returning a quote.
type FeedConfig struct {
	URL       string // may contain "{symbol}"
	PricePath string // jsonpath to the price, defaults to "$.price"
	NamePath  string // optional jsonpath to the name
	TimePath  string // optional jsonpath to an RFC3339 or unix timestamp
}

// Feed is a Source reading any JSON endpoint through jsonpath expressions.
type Feed struct {
	cfg    FeedConfig
	client *http.Client
}

// NewFeed returns a Feed source.
func NewFeed(cfg FeedConfig, client *http.Client) *Feed {
	if cfg.PricePath == "" {
		cfg.PricePath = "$.price"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Feed{cfg: cfg, client: client}
}

func (f *Feed) Name() string { return "feed" }

func (f *Feed) Fetch(ctx context.Context, symbol string) (longshort.Quote, error) {
	addr := strings.ReplaceAll(f.cfg.URL, "{symbol}", symbol)
	var jobj any
	if err := jwget(ctx, f.client, addr, &jobj); err != nil {
		return longshort.Quote{}, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	jval, err := get(f.cfg.PricePath, jobj)
	if err != nil {
		return longshort.Quote{}, fmt.Errorf("error parsing %q: %q %w", symbol, f.cfg.PricePath, err)
	}
	price, err := toMoney(jval)
	if err != nil {
		return longshort.Quote{}, fmt.Errorf("error parsing %q: %q %w", symbol, f.cfg.PricePath, err)
	}

	q := longshort.Quote{Price: price}
	if f.cfg.NamePath != "" {
		if v, err := get(f.cfg.NamePath, jobj); err == nil {
			q.Name, _ = v.(string)
		}
	}
	if f.cfg.TimePath != "" {
		if v, err := get(f.cfg.TimePath, jobj); err == nil {
			q.ObservedAt = toTime(v)
		}
	}
	return q, nil
}

// get evaluates path, keeping the first answer when jsonpath returns a list.
func get(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, err
	}
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("no value")
		}
		jval = jlist[0]
	}
	return jval, nil
}

func toMoney(jval any) (longshort.Money, error) {
	switch v := jval.(type) {
	case float64:
		return longshort.M(v), nil
	case string:
		// some feeds return the value as a string, in local notation
		return longshort.ParseMoney(strings.ReplaceAll(v, " ", ""))
	}
	return longshort.Money{}, fmt.Errorf("not a number %v", jval)
}

func toTime(jval any) time.Time {
	switch v := jval.(type) {
	case float64:
		return time.Unix(int64(v), 0)
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// jwget performs an HTTP GET request and unmarshals the JSON response into the provided data structure.
func jwget(ctx context.Context, client *http.Client, addr string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cannot http GET %v/%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return err
	}
	return json.Unmarshal(buf.Bytes(), data)
}
