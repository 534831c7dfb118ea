package probe

import (
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent identifies probes to third-party catalog and WFS servers.
const DefaultUserAgent = "geolink/1.0 (+https://github.com/geolink-tools/geolink)"

// userAgentTransport sets the User-Agent on requests that carry none.
type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}

// NewClient creates an *http.Client for probing links and querying catalogs.
// timeout is an overall ceiling (0 = rely on per-request deadlines only).
// userAgent defaults to DefaultUserAgent.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &userAgentTransport{
			base:      http.DefaultTransport,
			userAgent: userAgent,
		},
	}
}
