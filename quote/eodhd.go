package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/etnz/longshort"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultEODHDBaseURL   = "https://eodhd.com/api"
	DefaultEODHDTimeout   = 30 * time.Second
	DefaultEODHDRateLimit = 10 // requests per second
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "NA" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// APIError is a non 200 answer of the EODHD API.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// EODHD is a Source reading the real-time endpoint of the EODHD API.
type EODHD struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// EODHDOption configures the EODHD source.
type EODHDOption func(*EODHD)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) EODHDOption {
	return func(c *EODHD) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) EODHDOption {
	return func(c *EODHD) { c.log = log }
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) EODHDOption {
	return func(c *EODHD) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) EODHDOption {
	return func(c *EODHD) { c.httpClient.Timeout = timeout }
}

// NewEODHD returns the EODHD real-time source.
func NewEODHD(apiKey string, opts ...EODHDOption) *EODHD {
	c := &EODHD{
		baseURL:    DefaultEODHDBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: DefaultEODHDTimeout},
		limiter:    rate.NewLimiter(rate.Limit(DefaultEODHDRateLimit), DefaultEODHDRateLimit),
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *EODHD) Name() string { return "eodhd" }

type realTimeResponse struct {
	Code          string      `json:"code"`
	Timestamp     flexFloat64 `json:"timestamp"`
	Close         flexFloat64 `json:"close"`
	PreviousClose flexFloat64 `json:"previousClose"`
}

func (c *EODHD) Fetch(ctx context.Context, symbol string) (longshort.Quote, error) {
	var resp realTimeResponse
	if err := c.get(ctx, "/real-time/"+url.PathEscape(symbol), nil, &resp); err != nil {
		return longshort.Quote{}, err
	}
	price := float64(resp.Close)
	if price <= 0 {
		price = float64(resp.PreviousClose)
	}
	if price <= 0 {
		return longshort.Quote{}, fmt.Errorf("no real-time price for %s", symbol)
	}
	q := longshort.Quote{Price: longshort.M(price)}
	if resp.Timestamp > 0 {
		q.ObservedAt = time.Unix(int64(resp.Timestamp), 0)
	}
	return q, nil
}

// get performs a rate-limited GET request
func (c *EODHD) get(ctx context.Context, path string, params url.Values, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.log.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
