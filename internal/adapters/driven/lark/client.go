package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
	"github.com/forlark/larkfetch/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the interface.
var _ driven.PlatformClient = (*Client)(nil)

// Client talks to the Feishu/LarkSuite open API. Region selection
// happens per call; the client itself is region-agnostic.
type Client struct {
	httpClient *http.Client
	limiter    *RateLimiter
	// baseOverride replaces the region API base when set. Tests point
	// it at a local server.
	baseOverride string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the region API base. Used in tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseOverride = strings.TrimSuffix(base, "/")
	}
}

// WithHTTPClient replaces the HTTP client used for unauthenticated
// calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new open API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    NewRateLimiter(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiBase returns the API base for a region, honouring the override.
func (c *Client) apiBase(region domain.Region) string {
	if c.baseOverride != "" {
		return c.baseOverride
	}
	return region.APIBase()
}

// bearerClient returns an HTTP client that injects the bearer token
// on every request.
func (c *Client) bearerClient(ctx context.Context, token string) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	hc := oauth2.NewClient(ctx, ts)
	hc.Timeout = DefaultTimeout
	return hc
}

// doJSON performs one API call and decodes the JSON response into
// out. A non-JSON response is a protocol failure, reported with the
// endpoint path so the region-mismatch hint lands near the cause.
func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, rawURL string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpointPath(rawURL), err)
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp)
	logger.Debug("%s %s -> %d", method, endpointPath(rawURL), resp.StatusCode)

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/json") {
		return &domain.ProtocolError{
			Endpoint:    endpointPath(rawURL),
			ContentType: contentType,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpointPath(rawURL), err)
	}
	return nil
}

// endpointPath strips host and query from a URL for error messages
// and logs; tokens never leak through query strings this way.
func endpointPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
