package sheets

import (
	"net/http"
	"time"

	"github.com/okian/scoreboard/pkg/logger"
)

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBaseURL overrides the Sheets service endpoint, e.g. for tests.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithRange sets the A1 range to read, e.g. "RANKING!A5:K16".
func WithRange(cells string) Option {
	return func(c *Client) {
		if cells != "" {
			c.cells = cells
		}
	}
}

// WithAPIKey sets the API key sent as the key query parameter on every read.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithCacheTTL serves repeated reads from an in-memory HTTP cache for ttl.
// Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}
