package sheets

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
)

// newCachedTransport wraps base in an in-memory httpcache whose entries
// stay fresh for ttl regardless of what the API sends.
func newCachedTransport(base http.RoundTripper, ttl time.Duration) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	hc := httpcache.NewTransport(httpcache.NewMemoryCache())
	hc.Transport = &headerOverrideTransport{
		wrapped: base,
		response: func(resp *http.Response) {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(ttl/time.Second)))
		},
	}
	return hc
}

// headerOverrideTransport rewrites response headers before httpcache sees them.
type headerOverrideTransport struct {
	wrapped  http.RoundTripper
	response func(resp *http.Response)
}

func (t *headerOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.wrapped.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if t.response != nil && resp.StatusCode == http.StatusOK {
		t.response(resp)
	}
	return resp, nil
}
