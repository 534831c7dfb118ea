// Package probe checks whether candidate download URLs are currently
// servable and infers formats from declared content types.
package probe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geolink-tools/geolink/internal/logging"
	"github.com/geolink-tools/geolink/internal/urlparam"
)

const (
	DefaultHeadTimeout    = 3 * time.Second
	DefaultServiceTimeout = 5 * time.Second

	// maxInspect bounds how much of a service response is scanned for
	// exception markers.
	maxInspect = 64 << 10
)

var exceptionMarkers = [][]byte{[]byte("ExceptionReport"), []byte("ServiceException")}

// Prober issues lightweight reachability checks. The zero value is usable.
// A Prober is not modified after construction and is safe for concurrent use.
type Prober struct {
	Client         *http.Client // optional; defaults to http.DefaultClient
	HeadTimeout    time.Duration
	ServiceTimeout time.Duration
	Reporter       logging.Reporter
}

func (p *Prober) client() *http.Client {
	if p != nil && p.Client != nil {
		return p.Client
	}
	return http.DefaultClient
}

func (p *Prober) reporter() logging.Reporter {
	if p == nil {
		return logging.Nop
	}
	return logging.OrNop(p.Reporter)
}

func (p *Prober) headTimeout() time.Duration {
	if p != nil && p.HeadTimeout > 0 {
		return p.HeadTimeout
	}
	return DefaultHeadTimeout
}

func (p *Prober) serviceTimeout() time.Duration {
	if p != nil && p.ServiceTimeout > 0 {
		return p.ServiceTimeout
	}
	return DefaultServiceTimeout
}

// Reachable sends a HEAD request and reports whether rawURL answered with a
// 2xx or 3xx status before the head timeout. Errors never escape.
func (p *Prober) Reachable(ctx context.Context, rawURL string) bool {
	err := p.head(ctx, rawURL)
	if err != nil {
		p.reporter().Info("probe %s: unreachable (%s)", rawURL, Reason(err))
		return false
	}
	p.reporter().Info("probe %s: reachable", rawURL)
	return true
}

func (p *Prober) head(ctx context.Context, rawURL string) error {
	ctx, cancel := context.WithTimeout(ctx, p.headTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return &StatusError{Method: http.MethodHead, StatusCode: resp.StatusCode}
	}
	return nil
}

// ServiceReachable probes a WFS GetFeature URL with a GET limited to one
// feature. Any status below 500 is inspected: the response fails when its
// body carries an OWS exception, or when a JSON output format was requested
// and the server answered with XML.
func (p *Prober) ServiceReachable(ctx context.Context, rawURL string) bool {
	target := WithFeatureLimit(rawURL)
	err := p.service(ctx, target)
	if err != nil {
		p.reporter().Info("service probe %s: rejected (%s)", target, Reason(err))
		return false
	}
	p.reporter().Info("service probe %s: accepted", target)
	return true
}

func (p *Prober) service(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, p.serviceTimeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := p.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return &StatusError{Method: http.MethodGet, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxInspect))
	if err != nil {
		return err
	}
	for _, m := range exceptionMarkers {
		if bytes.Contains(body, m) {
			return ErrServiceException
		}
	}
	if requestsJSON(target) && strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "xml") {
		return ErrFormatIgnored
	}
	return nil
}

// WithFeatureLimit replaces any COUNT/MAXFEATURES parameters with
// COUNT=1&MAXFEATURES=1 so one request works against WFS 1.x and 2.x.
func WithFeatureLimit(rawURL string) string {
	u := urlparam.Strip(rawURL, "count", "maxfeatures")
	return urlparam.Append(u, "COUNT", "1", "MAXFEATURES", "1")
}

func requestsJSON(rawURL string) bool {
	v, ok := urlparam.Get(rawURL, "outputformat")
	return ok && strings.Contains(strings.ToLower(v), "json")
}
