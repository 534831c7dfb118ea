package resolver

import (
	"context"

	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/urlparam"
	"github.com/geolink-tools/geolink/internal/wfs"
)

// Input is what a strategy knows about the accepted candidate beyond the
// current result.
type Input struct {
	Candidate  candidate.Candidate
	ResourceID string
}

// Strategy refines an accepted result. Apply returns the result unchanged
// when it does not apply, and false when the result cannot be made
// downloadable.
type Strategy struct {
	Name  string
	Apply func(ctx context.Context, r *Resolver, cur Result, in Input) (Result, bool)
}

// DefaultStrategies run after a candidate is accepted.
var DefaultStrategies = []Strategy{
	{Name: "api-export", Apply: apiExport},
	{Name: "wfs-output-format", Apply: wfsOutputFormat},
	{Name: "content-sniffing", Apply: contentSniffing},
}

// apiExport drops any format parameter from a catalog export URL and lets
// the served content type decide, defaulting to shapefile.
func apiExport(ctx context.Context, r *Resolver, cur Result, _ Input) (Result, bool) {
	if !candidate.IsAPIExportURL(cur.URL) {
		return cur, true
	}
	u := urlparam.Strip(cur.URL, "format", "outputformat")
	f, ok := r.sniffer().Sniff(ctx, u)
	if !ok {
		f = candidate.Shapefile
	}
	return Result{URL: u, Format: f}, true
}

// wfsOutputFormat settles a WFS result accepted without negotiation: an
// OUTPUTFORMAT already in the URL decides when it maps to a known format,
// otherwise the server is negotiated.
func wfsOutputFormat(ctx context.Context, r *Resolver, cur Result, in Input) (Result, bool) {
	if cur.Format != candidate.WFSService {
		return cur, true
	}
	if f, ok := wfs.DeclaredFormat(cur.URL); ok && f.Concrete() {
		return Result{URL: cur.URL, Format: f}, true
	}
	nr, ok := r.negotiator().Negotiate(ctx, cur.URL, in.ResourceID, in.Candidate.LayerName)
	if !ok {
		return Result{}, false
	}
	return Result{URL: nr.URL, Format: nr.Format}, true
}

func contentSniffing(ctx context.Context, r *Resolver, cur Result, _ Input) (Result, bool) {
	if cur.Format != candidate.Unknown {
		return cur, true
	}
	f, ok := r.sniffer().Sniff(ctx, cur.URL)
	if !ok {
		return Result{}, false
	}
	return Result{URL: cur.URL, Format: f}, true
}
