// Package catalog talks to the remote application catalog over HTTP and to
// the local flatpak binary. Every method is best-effort: failures are folded
// into an empty result or a false outcome plus a retained error detail, never
// returned as a Go error. Callers inspect LastError to tell "no results" from
// "request failed".
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"flathaven/internal/logger"
)

const userAgent = "Flathaven/1.0"

type Client struct {
	baseURL string
	remote  string
	bin     string
	http    *http.Client
	runner  Runner
	log     *logger.Logger

	mu      sync.Mutex
	lastErr string
}

// Option configures a Client.
type Option func(*Client)

// WithRunner substitutes the subprocess runner, used by tests.
func WithRunner(runner Runner) Option {
	return func(c *Client) { c.runner = runner }
}

// WithHTTPClient substitutes the HTTP client, used by tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// WithBinary overrides the package-manager binary name.
func WithBinary(bin string) Option {
	return func(c *Client) { c.bin = bin }
}

func NewClient(baseURL, remote string, timeout time.Duration, log *logger.Logger, opts ...Option) *Client {
	client := &Client{
		baseURL: baseURL,
		remote:  remote,
		bin:     "flatpak",
		http:    &http.Client{Timeout: timeout},
		runner:  NewExecRunner(),
		log:     log,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// LastError returns the error detail captured by the most recent failed call,
// or "" if the most recent call succeeded.
func (c *Client) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Client) setError(detail string) {
	c.mu.Lock()
	c.lastErr = detail
	c.mu.Unlock()
}

func (c *Client) clearError() {
	c.setError("")
}

// Search queries the catalog. An empty query returns the default full
// listing. Failures yield an empty slice with the detail in LastError.
func (c *Client) Search(query string) []App {
	endpoint := c.baseURL + "/apps"
	if query != "" {
		endpoint = c.baseURL + "/search/" + url.PathEscape(query)
	}

	body, err := c.get(endpoint)
	if err != nil {
		c.log.Warn("catalog", "search failed", map[string]interface{}{"query": query, "error": err.Error()})
		c.setError(err.Error())
		return nil
	}

	var apps []App
	if err := json.Unmarshal(body, &apps); err != nil {
		// A non-array payload is treated as an empty listing, matching the
		// catalog's behavior for unknown endpoints.
		c.log.Debug("catalog", "non-array search response", map[string]interface{}{"query": query})
		c.clearError()
		return nil
	}

	c.clearError()
	return apps
}

// AppDetails fetches the detail record for one application identifier.
func (c *Client) AppDetails(id string) (App, bool) {
	body, err := c.get(c.baseURL + "/apps/" + url.PathEscape(id))
	if err != nil {
		c.log.Warn("catalog", "detail fetch failed", map[string]interface{}{"id": id, "error": err.Error()})
		c.setError(err.Error())
		return App{}, false
	}

	var app App
	if err := json.Unmarshal(body, &app); err != nil {
		c.setError(fmt.Sprintf("malformed detail response: %v", err))
		return App{}, false
	}

	c.clearError()
	return app, true
}

func (c *Client) get(endpoint string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("catalog returned %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
