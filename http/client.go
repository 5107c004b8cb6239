// Package http provides the HTTP implementations of redecred.CatalogService
// and redecred.ProviderSearcher backed by the GEAP accredited network API.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBaseURL is the base URL of the accredited network API.
const DefaultBaseURL = "https://apicore.geap.com.br/Beneficiario/v1/RedeCredenciada"

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 10 * time.Second

// maxBodySize bounds how much of a response is read.
const maxBodySize = 32 << 20

// Client performs GET requests against the accredited network API.
// A Client is safe for concurrent use.
type Client struct {
	baseURL string
	timeout time.Duration
	rps     float64

	client  *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithRateLimit spaces requests to at most rps per second.
// Zero or negative values disable limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		c.rps = rps
	}
}

// NewClient creates a new Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.client = &http.Client{
		Timeout: c.timeout,
	}
	if c.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(c.rps), 1)
	}

	return c
}

// get issues a GET request for path with the given query and returns the
// raw response body. Non-2xx responses are errors.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, path)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
}

// FlexString decodes JSON strings and numbers alike. The API returns
// numeric identifiers sometimes quoted and sometimes not.
type FlexString string

// UnmarshalJSON accepts a string, a number, or null.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = FlexString(str)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = FlexString(num.String())
	return nil
}

// String returns the decoded value.
func (s FlexString) String() string {
	return string(s)
}
