package wfs

import (
	"context"

	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/logging"
)

// ServiceProber validates a GetFeature URL with a real request.
// *probe.Prober satisfies it.
type ServiceProber interface {
	ServiceReachable(ctx context.Context, rawURL string) bool
}

// Result is a negotiated download: a GetFeature URL carrying a working
// OUTPUTFORMAT and the format it produces.
type Result struct {
	URL    string           `json:"url" yaml:"url"`
	Format candidate.Format `json:"format" yaml:"format"`
}

// Negotiator finds the first output format a WFS server honours.
type Negotiator struct {
	Prober   ServiceProber
	Reporter logging.Reporter
	// Formats overrides OutputFormats when non-empty.
	Formats []OutputFormat
}

// Negotiate tries each output format in order against the GetFeature
// request for baseURL and returns the first that probes successfully.
// Exhausting the list is reported at error level and yields false.
func (n *Negotiator) Negotiate(ctx context.Context, baseURL, resourceID, layerName string) (Result, bool) {
	rep := logging.OrNop(n.Reporter)
	formats := n.Formats
	if len(formats) == 0 {
		formats = OutputFormats
	}

	typeName := TypeName(resourceID, layerName)
	req := BuildRequest(baseURL, typeName)
	rep.Info("negotiating output format for %s (typename %q)", baseURL, typeName)

	for _, of := range formats {
		if ctx.Err() != nil {
			rep.Warn("negotiation for %s aborted: %v", baseURL, ctx.Err())
			return Result{}, false
		}
		u := WithOutputFormat(req, of.Token)
		if n.Prober.ServiceReachable(ctx, u) {
			rep.Info("negotiated %s via OUTPUTFORMAT=%s", of.Format, of.Token)
			return Result{URL: u, Format: of.Format}, true
		}
	}
	rep.Error("WFS at %s supports none of %d output formats", baseURL, len(formats))
	return Result{}, false
}
