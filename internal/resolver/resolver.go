// Package resolver picks the single best downloadable link of a metadata
// record: extract, classify, rank, validate in rank order, then refine the
// accepted candidate until its format is concrete.
package resolver

import (
	"context"

	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/logging"
	"github.com/geolink-tools/geolink/internal/metadata"
	"github.com/geolink-tools/geolink/internal/probe"
	"github.com/geolink-tools/geolink/internal/wfs"
)

// Prober checks reachability. *probe.Prober satisfies it.
type Prober interface {
	Reachable(ctx context.Context, rawURL string) bool
	ServiceReachable(ctx context.Context, rawURL string) bool
}

// Negotiator finds a working WFS output format. *wfs.Negotiator satisfies it.
type Negotiator interface {
	Negotiate(ctx context.Context, baseURL, resourceID, layerName string) (wfs.Result, bool)
}

// Sniffer infers a format from a declared content type. *probe.Sniffer
// satisfies it.
type Sniffer interface {
	Sniff(ctx context.Context, rawURL string) (candidate.Format, bool)
}

// Result is a resolved download. Format is always concrete.
type Result struct {
	URL    string           `json:"url" yaml:"url"`
	Format candidate.Format `json:"format" yaml:"format"`
}

// Resolver composes the probing collaborators. Fields are read-only after
// construction, so one Resolver can serve concurrent Resolve calls.
type Resolver struct {
	Prober     Prober
	Negotiator Negotiator
	Sniffer    Sniffer
	Reporter   logging.Reporter
	// Strategies refine the accepted candidate in order. Nil means
	// DefaultStrategies.
	Strategies []Strategy
}

// New wires a Resolver from a prober and sniffer, negotiating WFS formats
// through the same prober.
func New(p *probe.Prober, s *probe.Sniffer, rep logging.Reporter) *Resolver {
	return &Resolver{
		Prober:     p,
		Negotiator: &wfs.Negotiator{Prober: p, Reporter: rep},
		Sniffer:    s,
		Reporter:   rep,
	}
}

func (r *Resolver) reporter() logging.Reporter { return logging.OrNop(r.Reporter) }

func (r *Resolver) prober() Prober {
	if r.Prober != nil {
		return r.Prober
	}
	return &probe.Prober{Reporter: r.Reporter}
}

func (r *Resolver) negotiator() Negotiator {
	if r.Negotiator != nil {
		return r.Negotiator
	}
	return &wfs.Negotiator{Prober: r.prober(), Reporter: r.Reporter}
}

func (r *Resolver) sniffer() Sniffer {
	if r.Sniffer != nil {
		return r.Sniffer
	}
	return &probe.Sniffer{Reporter: r.Reporter}
}

func (r *Resolver) strategies() []Strategy {
	if r.Strategies != nil {
		return r.Strategies
	}
	return DefaultStrategies
}

// Candidates extracts and classifies the links of doc, ranked by descending
// score. No network access.
func Candidates(doc any) []candidate.Candidate {
	cs := candidate.ClassifyAll(metadata.ExtractLinks(doc))
	candidate.Rank(cs)
	return cs
}

// Resolve returns the best download of doc. resourceID names the record in
// reports and is the WFS type name when a link advertises none. The second
// return value is false when no candidate survives validation.
func (r *Resolver) Resolve(ctx context.Context, doc any, resourceID string) (Result, bool) {
	rep := r.reporter()

	cs := Candidates(doc)
	if len(cs) == 0 {
		rep.Info("no download links declared for %s", resourceID)
		return Result{}, false
	}
	for i, c := range cs {
		rep.Info("candidate %d: %s format=%s score=%d rule=%s", i+1, c.URL, c.Format, c.Score, c.Rule)
	}

	for _, c := range cs {
		if err := ctx.Err(); err != nil {
			rep.Warn("resolution of %s aborted: %v", resourceID, err)
			return Result{}, false
		}
		res, v := r.validate(ctx, c, resourceID)
		switch v {
		case negotiated:
			return res, true
		case accepted:
			rep.Info("accepted %s (%s)", c.URL, c.Format)
			return r.refine(ctx, c, resourceID)
		}
	}

	if err := ctx.Err(); err != nil {
		rep.Warn("resolution of %s aborted: %v", resourceID, err)
		return Result{}, false
	}
	rep.Warn("no reachable download among %d candidates for %s", len(cs), resourceID)
	return Result{}, false
}

// ResolveCandidate validates and refines one chosen candidate the way
// Resolve treats each entry of its ranked list.
func (r *Resolver) ResolveCandidate(ctx context.Context, c candidate.Candidate, resourceID string) (Result, bool) {
	res, v := r.validate(ctx, c, resourceID)
	switch v {
	case negotiated:
		return res, true
	case accepted:
		return r.refine(ctx, c, resourceID)
	}
	r.reporter().Warn("candidate %s is not reachable", c.URL)
	return Result{}, false
}

type verdict int

const (
	rejected verdict = iota
	accepted
	negotiated
)

// validate probes c. A reachable candidate is accepted as-is; an unreachable
// WFS candidate is negotiated on the spot, and a successful negotiation is
// final.
func (r *Resolver) validate(ctx context.Context, c candidate.Candidate, resourceID string) (Result, verdict) {
	if r.prober().Reachable(ctx, c.URL) {
		return Result{}, accepted
	}
	if c.Format != candidate.WFSService {
		return Result{}, rejected
	}
	if ctx.Err() != nil {
		return Result{}, rejected
	}
	nr, ok := r.negotiator().Negotiate(ctx, c.URL, resourceID, c.LayerName)
	if !ok {
		return Result{}, rejected
	}
	return Result{URL: nr.URL, Format: nr.Format}, negotiated
}

func (r *Resolver) refine(ctx context.Context, c candidate.Candidate, resourceID string) (Result, bool) {
	rep := r.reporter()
	cur := Result{URL: c.URL, Format: c.Format}
	in := Input{Candidate: c, ResourceID: resourceID}
	for _, s := range r.strategies() {
		next, ok := s.Apply(ctx, r, cur, in)
		if !ok {
			rep.Warn("strategy %s could not resolve %s", s.Name, cur.URL)
			return Result{}, false
		}
		if next != cur {
			rep.Info("strategy %s: %s (%s) -> %s (%s)", s.Name, cur.URL, cur.Format, next.URL, next.Format)
		}
		cur = next
	}
	if !cur.Format.Concrete() {
		rep.Warn("%s still has no concrete format (%s)", cur.URL, cur.Format)
		return Result{}, false
	}
	return cur, true
}
