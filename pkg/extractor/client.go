// Package extractor provides a client for the content extraction service,
// which renders live listing and business pages and returns structured
// fields.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/ecosdelseo/prospector/internal/model"
)

// ErrNoResults reports a search that rendered no results panel. Callers
// treat it as an empty category, not a failure.
var ErrNoResults = eris.New("extractor: no results panel")

// Client defines the content extraction operations.
type Client interface {
	// SearchListings runs a listing query and returns raw candidates.
	SearchListings(ctx context.Context, query string) ([]model.BusinessCandidate, error)
	// FetchDetail loads one business page and returns its detail fields.
	FetchDetail(ctx context.Context, sourceURL string) (*model.BusinessDetail, error)
}

// listing is the wire shape of one search result.
type listing struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	Address     string  `json:"address"`
	SourceURL   string  `json:"source_url"`
	Coordinates string  `json:"coordinates"`
}

type searchResponse struct {
	Businesses []listing `json:"businesses"`
}

type detailResponse struct {
	Detail model.BusinessDetail `json:"detail"`
}

// Option configures the extractor client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit caps outgoing requests per second. Zero or negative
// disables the limiter.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		} else {
			c.limiter = nil
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an extraction service client.
func NewClient(baseURL, apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) SearchListings(ctx context.Context, query string) ([]model.BusinessCandidate, error) {
	body, err := c.get(ctx, "/v1/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "extractor: decode search response")
	}
	if len(resp.Businesses) == 0 {
		return nil, ErrNoResults
	}

	candidates := make([]model.BusinessCandidate, len(resp.Businesses))
	for i, l := range resp.Businesses {
		candidates[i] = model.BusinessCandidate(l)
	}
	return candidates, nil
}

func (c *httpClient) FetchDetail(ctx context.Context, sourceURL string) (*model.BusinessDetail, error) {
	body, err := c.get(ctx, "/v1/detail?url="+url.QueryEscape(sourceURL))
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "extractor: decode detail response")
	}
	return &resp.Detail, nil
}

func (c *httpClient) get(ctx context.Context, path string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "extractor: rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: build request")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "extractor: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.New(fmt.Sprintf("extractor: status %d: %s", resp.StatusCode, truncate(body, 200)))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
