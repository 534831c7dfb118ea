// Package geolink resolves the best downloadable data link of an ISO 19139
// metadata record.
package geolink

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/geolink-tools/geolink/internal/apperr"
	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/catalog"
	"github.com/geolink-tools/geolink/internal/metadata"
	"github.com/geolink-tools/geolink/internal/probe"
	"github.com/geolink-tools/geolink/internal/resolver"
	"github.com/geolink-tools/geolink/internal/wfs"
)

// Reporter receives narration of a resolution. Calls are made from the
// resolving goroutine only.
type Reporter interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// ProgressCallback is called at each stage of a resolution.
type ProgressCallback func(event ProgressEvent)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Type       ProgressEventType
	ResourceID string
	Message    string
	Candidates int
	Error      error
}

// ProgressEventType identifies the type of progress event
type ProgressEventType int

const (
	EventFetchStart ProgressEventType = iota
	EventFetchComplete
	EventCandidates
	EventValidateStart
	EventResolved
	EventUnresolved
	EventError
)

// Options configures network access. The zero value uses default timeouts
// and a client identifying itself with probe.DefaultUserAgent.
type Options struct {
	Client         *http.Client
	UserAgent      string
	HeadTimeout    time.Duration // plain HEAD probes; default 3s
	ServiceTimeout time.Duration // WFS GetFeature probes; default 5s
	SniffTimeout   time.Duration // content-type sniffing; default 5s
	// CatalogToken is sent as a Bearer token to the CSW endpoint only.
	CatalogToken string
	Reporter     Reporter
	OnProgress   ProgressCallback
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return probe.NewClient(0, o.UserAgent)
}

func (o Options) progress(evt ProgressEvent) {
	if o.OnProgress != nil {
		o.OnProgress(evt)
	}
}

func newResolver(o Options) *resolver.Resolver {
	client := o.client()
	p := &probe.Prober{
		Client:         client,
		HeadTimeout:    o.HeadTimeout,
		ServiceTimeout: o.ServiceTimeout,
		Reporter:       o.Reporter,
	}
	s := &probe.Sniffer{Client: client, Timeout: o.SniffTimeout, Reporter: o.Reporter}
	return resolver.New(p, s, o.Reporter)
}

// Record is a decoded metadata record.
type Record struct {
	// ID is the record's fileIdentifier, empty when the record declares none.
	ID  string
	Doc map[string]any
}

func newRecord(doc map[string]any) Record {
	return Record{ID: metadata.FileIdentifier(doc), Doc: doc}
}

// LoadFile reads a record from an XML or JSON file.
func LoadFile(path, format string) (Record, error) {
	doc, err := catalog.LoadFile(path, format)
	if err != nil {
		return Record{}, err
	}
	return newRecord(doc), nil
}

// FetchRecord retrieves one record from a CSW endpoint with GetRecordById.
func FetchRecord(ctx context.Context, endpoint, id string, opts Options) (Record, error) {
	opts.progress(ProgressEvent{Type: EventFetchStart, ResourceID: id, Message: endpoint})
	f := &catalog.RecordFetcher{Client: opts.client(), BaseURL: endpoint, Token: opts.CatalogToken}
	doc, err := f.Fetch(ctx, id)
	if err != nil {
		opts.progress(ProgressEvent{Type: EventError, ResourceID: id, Error: err})
		return Record{}, err
	}
	opts.progress(ProgressEvent{Type: EventFetchComplete, ResourceID: id})
	return newRecord(doc), nil
}

// Result is a resolved download.
type Result struct {
	ResourceID string `json:"resource_id" yaml:"resource_id"`
	URL        string `json:"url" yaml:"url"`
	Format     string `json:"format" yaml:"format"`
}

// Candidate is a classified, not yet validated link.
type Candidate struct {
	URL       string `json:"url" yaml:"url"`
	Format    string `json:"format" yaml:"format"`
	Score     int    `json:"score" yaml:"score"`
	LayerName string `json:"layer_name,omitempty" yaml:"layer_name,omitempty"`
	Rule      string `json:"rule" yaml:"rule"`
	Protocol  string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
}

func fromCandidate(c candidate.Candidate) Candidate {
	return Candidate{
		URL:       c.URL,
		Format:    c.Format.String(),
		Score:     c.Score,
		LayerName: c.LayerName,
		Rule:      c.Rule,
		Protocol:  c.Link.Protocol,
		Name:      c.Link.Name,
	}
}

func (c Candidate) internal() candidate.Candidate {
	return candidate.Candidate{
		URL:       c.URL,
		Format:    candidate.Format(c.Format),
		Score:     c.Score,
		LayerName: c.LayerName,
		Rule:      c.Rule,
		Link:      metadata.RawLink{URL: c.URL, Protocol: c.Protocol, Name: c.Name},
	}
}

// Candidates lists the record's links ranked by descending score, without
// network access.
func (r Record) Candidates() []Candidate {
	cs := resolver.Candidates(r.Doc)
	out := make([]Candidate, 0, len(cs))
	for _, c := range cs {
		out = append(out, fromCandidate(c))
	}
	return out
}

func resourceIDFor(rec Record, resourceID string) string {
	if id := strings.TrimSpace(resourceID); id != "" {
		return id
	}
	return rec.ID
}

// Resolve picks the best download of rec. resourceID defaults to the
// record's fileIdentifier. When no link can be validated the error is an
// *apperr.UnresolvedError matching apperr.ErrUnresolved.
func Resolve(ctx context.Context, rec Record, resourceID string, opts Options) (Result, error) {
	id := resourceIDFor(rec, resourceID)
	opts.progress(ProgressEvent{Type: EventCandidates, ResourceID: id, Candidates: len(resolver.Candidates(rec.Doc))})
	opts.progress(ProgressEvent{Type: EventValidateStart, ResourceID: id})

	res, ok := newResolver(opts).Resolve(ctx, rec.Doc, id)
	return finish(ctx, opts, id, res, ok)
}

// ResolveCandidate validates one chosen candidate and refines it to a
// concrete format.
func ResolveCandidate(ctx context.Context, c Candidate, resourceID string, opts Options) (Result, error) {
	opts.progress(ProgressEvent{Type: EventValidateStart, ResourceID: resourceID, Message: c.URL})
	res, ok := newResolver(opts).ResolveCandidate(ctx, c.internal(), resourceID)
	return finish(ctx, opts, resourceID, res, ok)
}

func finish(ctx context.Context, opts Options, id string, res resolver.Result, ok bool) (Result, error) {
	if !ok {
		if err := ctx.Err(); err != nil {
			opts.progress(ProgressEvent{Type: EventError, ResourceID: id, Error: err})
			return Result{}, err
		}
		err := apperr.Unresolved(id)
		opts.progress(ProgressEvent{Type: EventUnresolved, ResourceID: id, Error: err})
		return Result{}, err
	}
	out := Result{ResourceID: id, URL: res.URL, Format: res.Format.String()}
	opts.progress(ProgressEvent{Type: EventResolved, ResourceID: id, Message: out.URL})
	return out, nil
}

// Reachable reports whether a plain HEAD probe of rawURL succeeds.
func Reachable(ctx context.Context, rawURL string, opts Options) bool {
	p := &probe.Prober{Client: opts.client(), HeadTimeout: opts.HeadTimeout, Reporter: opts.Reporter}
	return p.Reachable(ctx, rawURL)
}

// OutputFormats lists the WFS OUTPUTFORMAT tokens in negotiation order.
func OutputFormats() []string {
	out := make([]string, 0, len(wfs.OutputFormats))
	for _, of := range wfs.OutputFormats {
		out = append(out, of.Token)
	}
	return out
}
