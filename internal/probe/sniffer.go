package probe

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/logging"
)

const DefaultSniffTimeout = 5 * time.Second

// contentTypes is checked top to bottom against the lower-cased
// Content-Type header; the first substring match wins. Specific families
// precede the generic json/zip/xml fallbacks.
var contentTypes = []struct {
	match  string
	format candidate.Format
}{
	{"geo+json", candidate.GeoJSON},
	{"json", candidate.GeoJSON},
	{"kmz", candidate.KMZ},
	{"gpx", candidate.GPX},
	{"kml", candidate.KML},
	{"spreadsheetml", candidate.XLSX},
	{"ms-excel", candidate.XLS},
	{"opendocument.spreadsheet", candidate.ODS},
	{"tab-separated-values", candidate.TSV},
	{"csv", candidate.CSV},
	{"zip", candidate.Shapefile},
	{"x-shapefile", candidate.Shapefile},
	{"xml", candidate.KML},
}

// FormatForContentType maps a Content-Type header value to a format.
func FormatForContentType(ct string) (candidate.Format, bool) {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if ct == "" {
		return "", false
	}
	for _, e := range contentTypes {
		if strings.Contains(ct, e.match) {
			return e.format, true
		}
	}
	return "", false
}

// Sniffer infers a format from the Content-Type a server declares for a URL.
type Sniffer struct {
	Client   *http.Client // optional; defaults to http.DefaultClient
	Timeout  time.Duration
	Reporter logging.Reporter
}

// Sniff sends a HEAD request and maps the response's Content-Type. It
// reports false on network failure, a status of 400 or above, or an
// unrecognized content type.
func (s *Sniffer) Sniff(ctx context.Context, rawURL string) (candidate.Format, bool) {
	rep := logging.Nop
	client := http.DefaultClient
	timeout := DefaultSniffTimeout
	if s != nil {
		rep = logging.OrNop(s.Reporter)
		if s.Client != nil {
			client = s.Client
		}
		if s.Timeout > 0 {
			timeout = s.Timeout
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		rep.Warn("sniff %s: %v", rawURL, err)
		return "", false
	}
	resp, err := client.Do(req)
	if err != nil {
		rep.Info("sniff %s: failed (%s)", rawURL, Reason(err))
		return "", false
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		rep.Info("sniff %s: failed (%s)", rawURL, Reason(&StatusError{Method: http.MethodHead, StatusCode: resp.StatusCode}))
		return "", false
	}

	ct := resp.Header.Get("Content-Type")
	f, ok := FormatForContentType(ct)
	if !ok {
		rep.Info("sniff %s: unrecognized content type %q", rawURL, ct)
		return "", false
	}
	rep.Info("sniff %s: %q -> %s", rawURL, ct, f)
	return f, true
}
