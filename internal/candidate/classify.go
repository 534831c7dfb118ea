package candidate

import (
	"sort"
	"strings"

	"github.com/geolink-tools/geolink/internal/metadata"
)

// Candidate is a link tagged with an inferred format and a confidence score,
// not yet validated against the network.
type Candidate struct {
	URL    string `json:"url" yaml:"url"`
	Format Format `json:"format" yaml:"format"`
	Score  int    `json:"score" yaml:"score"`
	// LayerName is the WFS feature type advertised by the link, if any.
	LayerName string           `json:"layer_name,omitempty" yaml:"layer_name,omitempty"`
	Rule      string           `json:"rule" yaml:"rule"`
	Link      metadata.RawLink `json:"link" yaml:"link"`
}

// Classify applies Rules to l. Links without a URL yield no candidate.
func Classify(l metadata.RawLink) (Candidate, bool) {
	if strings.TrimSpace(l.URL) == "" {
		return Candidate{}, false
	}
	v := newLink(l)
	for _, r := range Rules {
		if !r.Match(v) {
			continue
		}
		c := Candidate{
			URL:    strings.TrimSpace(l.URL),
			Format: r.format(v),
			Score:  r.Score,
			Rule:   r.Name,
			Link:   l,
		}
		if c.Format == WFSService {
			c.LayerName = strings.TrimSpace(l.Name)
		}
		return c, true
	}
	return Candidate{}, false
}

// ClassifyAll classifies links in order, dropping those without a URL.
func ClassifyAll(links []metadata.RawLink) []Candidate {
	out := make([]Candidate, 0, len(links))
	for _, l := range links {
		if c, ok := Classify(l); ok {
			out = append(out, c)
		}
	}
	return out
}

// Rank sorts candidates by descending score. Equal scores keep their
// extraction order.
func Rank(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Score > cs[j].Score })
}
