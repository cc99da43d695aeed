// Package fetch retrieves raw two-line element text from a CelesTrak-style
// catalog service. It is the only part of the system that touches the
// network; the core pipeline consumes the returned text buffer as-is.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/signalsfoundry/leo-catalog/internal/logging"
)

const (
	// DefaultBaseURL is the CelesTrak GP element endpoint.
	DefaultBaseURL = "https://celestrak.org/NORAD/elements/gp.php"

	// DefaultTimeout bounds a single fetch attempt. Fetches are never
	// retried here; a failed fetch surfaces to the caller before the
	// pipeline runs.
	DefaultTimeout = 30 * time.Second
)

// KnownGroups lists commonly used CelesTrak group identifiers. Arbitrary
// groups and custom URLs are still accepted; this is a convenience list,
// not a whitelist.
var KnownGroups = []string{
	"active",
	"stations",
	"visual",
	"resource",
	"weather",
	"science",
	"communication",
	"navigation",
	"geo",
	"last-30-days",
	"1999-025",
}

// FetchError wraps any network or HTTP failure while retrieving catalog
// text. StatusCode is zero when the request never reached the server.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Client fetches element text over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the gp.php endpoint, mainly for tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.httpClient = hc } }

// WithTimeout adjusts the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger attaches a structured logger.
func WithLogger(log logging.Logger) Option { return func(c *Client) { c.log = log } }

// New constructs a Client. The default transport is instrumented with
// otelhttp so each fetch produces a client span.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		log: logging.Noop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchGroup retrieves the TLE listing for a named CelesTrak group.
func (c *Client) FetchGroup(ctx context.Context, group string) (string, error) {
	q := url.Values{}
	q.Set("GROUP", group)
	q.Set("FORMAT", "tle")
	return c.fetch(ctx, c.baseURL+"?"+q.Encode())
}

// FetchURL retrieves element text from an arbitrary source locator.
func (c *Client) FetchURL(ctx context.Context, rawURL string) (string, error) {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	return c.fetch(ctx, rawURL)
}

func (c *Client) fetch(ctx context.Context, u string) (string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", &FetchError{URL: u, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "catalog fetch failed", logging.String("url", u), logging.String("error", err.Error()))
		return "", &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "catalog fetch returned error status",
			logging.String("url", u),
			logging.Int("status", resp.StatusCode),
		)
		return "", &FetchError{URL: u, StatusCode: resp.StatusCode, Err: fmt.Errorf("status %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: u, Err: err}
	}

	c.log.Debug(ctx, "catalog fetched",
		logging.String("url", u),
		logging.Int("bytes", len(body)),
		logging.String("elapsed", time.Since(start).String()),
	)
	return string(body), nil
}
