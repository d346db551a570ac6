package jokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/five82/jokefinder/internal/joke"
)

// DefaultEndpoint serves one random joke per GET.
const DefaultEndpoint = "https://official-joke-api.appspot.com/random_joke"

const (
	defaultUserAgent = "jokefinder/0.1"
	maxBodyBytes     = 1 << 20
)

// Fetcher retrieves a single random joke.
type Fetcher interface {
	Fetch(ctx context.Context) (joke.Joke, error)
}

var _ Fetcher = (*Client)(nil)

// Client talks to the remote joke endpoint.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for endpoint. An empty endpoint selects
// DefaultEndpoint. The endpoint is validated on every Fetch, so a bad value
// surfaces as an ErrInvalidEndpoint fetch failure rather than here.
func NewClient(endpoint string, opts ...Option) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:  endpoint,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint string.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch performs one GET against the endpoint and decodes the joke. It never
// retries.
func (c *Client) Fetch(ctx context.Context) (joke.Joke, error) {
	if c == nil {
		return joke.Joke{}, fmt.Errorf("client is nil")
	}
	target, err := parseEndpoint(c.endpoint)
	if err != nil {
		return joke.Joke{}, invalidEndpoint(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return joke.Joke{}, invalidEndpoint(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return joke.Joke{}, transport(fmt.Errorf("execute request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return joke.Joke{}, transport(fmt.Errorf("endpoint returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return joke.Joke{}, transport(fmt.Errorf("read response: %w", err))
	}
	if len(body) > maxBodyBytes {
		return joke.Joke{}, transport(fmt.Errorf("response too large: over %d bytes", maxBodyBytes))
	}

	j, err := Decode(body)
	if err != nil {
		return joke.Joke{}, decode(err)
	}
	return j, nil
}

// Decode parses a single joke payload. The id and type fields are required;
// setup and punchline may be absent. Unknown fields are ignored.
func Decode(body []byte) (joke.Joke, error) {
	var raw struct {
		ID        *int    `json:"id"`
		Type      *string `json:"type"`
		Setup     *string `json:"setup"`
		Punchline *string `json:"punchline"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return joke.Joke{}, fmt.Errorf("decode response: %w", err)
	}
	if raw.ID == nil {
		return joke.Joke{}, errors.New("decode response: missing id")
	}
	if raw.Type == nil {
		return joke.Joke{}, errors.New("decode response: missing type")
	}
	return joke.Joke{
		ID:        *raw.ID,
		Category:  *raw.Type,
		Setup:     raw.Setup,
		Punchline: raw.Punchline,
	}, nil
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("endpoint is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must use http or https", trimmed)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q has no host", trimmed)
	}
	return u, nil
}
