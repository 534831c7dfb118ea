package candidate

import (
	"net/url"
	"strings"

	"github.com/geolink-tools/geolink/internal/metadata"
)

// Scores for each rule family. Higher means more directly downloadable.
const (
	ScorePreconfiguredWFS = 50
	ScoreAPIExport        = 11
	ScoreShapefileZip     = 10
	ScoreZipSuffix        = 9
	ScoreShapefileName    = 8
	ScoreGeoJSONSuffix    = 10
	ScoreGeoJSONMention   = 9
	ScoreGeoJSONName      = 8
	ScoreCSV              = 6
	ScoreJSON             = 5
	ScoreKML              = 4
	ScoreWFSService       = 2
	ScoreUnknown          = 1
)

// link is the lower-cased view of a RawLink that rules match against.
type link struct {
	raw      string
	path     string
	query    url.Values
	protocol string
	name     string
}

func newLink(l metadata.RawLink) link {
	v := link{
		raw:      strings.ToLower(l.URL),
		protocol: strings.ToLower(l.Protocol),
		name:     strings.ToLower(l.Name),
		query:    url.Values{},
	}
	if u, err := url.Parse(strings.TrimSpace(l.URL)); err == nil {
		v.path = strings.ToLower(u.Path)
		for k, vals := range u.Query() {
			k = strings.ToLower(k)
			for _, val := range vals {
				v.query.Add(k, strings.ToLower(val))
			}
		}
	} else {
		v.path = v.raw
		if i := strings.IndexAny(v.path, "?#"); i >= 0 {
			v.path = v.path[:i]
		}
	}
	return v
}

func (l link) param(key string) string { return l.query.Get(key) }

func (l link) hasParam(key string) bool {
	_, ok := l.query[key]
	return ok
}

// Rule is one entry of the classification decision list.
type Rule struct {
	Name   string
	Match  func(link) bool
	Format Format
	Score  int
	// Derive, when set, computes the format from the link instead of Format.
	Derive func(link) Format
}

func (r Rule) format(l link) Format {
	if r.Derive != nil {
		return r.Derive(l)
	}
	return r.Format
}

// Rules is evaluated top to bottom; the first match wins. A complete,
// parameterized download outranks a link that only advertises a protocol.
var Rules = []Rule{
	{
		Name:  "preconfigured-wfs",
		Score: ScorePreconfiguredWFS,
		Match: func(l link) bool {
			return l.param("service") == "wfs" && l.hasParam("outputformat")
		},
		Derive: func(l link) Format {
			f := FromOutputFormat(l.param("outputformat"))
			if f == KML {
				return WFSService
			}
			return f
		},
	},
	{
		Name:   "api-export",
		Format: Shapefile,
		Score:  ScoreAPIExport,
		Match:  isAPIExport,
	},
	{
		Name:   "shapefile-zip",
		Format: Shapefile,
		Score:  ScoreShapefileZip,
		Match: func(l link) bool {
			return strings.Contains(l.raw, "shape-zip") || strings.Contains(l.raw, "shapezip")
		},
	},
	{
		Name:   "zip-suffix",
		Format: Shapefile,
		Score:  ScoreZipSuffix,
		Match:  func(l link) bool { return strings.HasSuffix(l.path, ".zip") },
	},
	{
		Name:   "shapefile-name",
		Format: Shapefile,
		Score:  ScoreShapefileName,
		Match: func(l link) bool {
			return strings.Contains(l.name, "shapefile") || strings.Contains(l.protocol, "shape")
		},
	},
	{
		Name:   "geojson-suffix",
		Format: GeoJSON,
		Score:  ScoreGeoJSONSuffix,
		Match:  func(l link) bool { return strings.HasSuffix(l.path, ".geojson") },
	},
	{
		Name:   "geojson-mention",
		Format: GeoJSON,
		Score:  ScoreGeoJSONMention,
		Match: func(l link) bool {
			return mentionsGeoJSON(l.raw) || mentionsGeoJSON(l.protocol)
		},
	},
	{
		Name:   "geojson-name",
		Format: GeoJSON,
		Score:  ScoreGeoJSONName,
		Match:  func(l link) bool { return mentionsGeoJSON(l.name) },
	},
	{
		Name:   "csv",
		Format: CSV,
		Score:  ScoreCSV,
		Match: func(l link) bool {
			return strings.HasSuffix(l.path, ".csv") ||
				l.param("format") == "csv" || l.param("outputformat") == "csv" ||
				strings.Contains(l.protocol, "csv") || strings.Contains(l.name, "csv")
		},
	},
	{
		Name:   "kml",
		Format: KML,
		Score:  ScoreKML,
		Match: func(l link) bool {
			return strings.HasSuffix(l.path, ".kml") || strings.Contains(l.protocol, "kml")
		},
	},
	{
		Name:   "json",
		Format: JSON,
		Score:  ScoreJSON,
		Match: func(l link) bool {
			if mentionsGeoJSON(l.raw) || mentionsGeoJSON(l.protocol) || mentionsGeoJSON(l.name) {
				return false
			}
			return strings.HasSuffix(l.path, ".json") || l.param("format") == "json" ||
				strings.Contains(l.protocol, "json") || strings.Contains(l.name, "json")
		},
	},
	{
		Name:   "wfs-service",
		Format: WFSService,
		Score:  ScoreWFSService,
		Match: func(l link) bool {
			return strings.Contains(l.protocol, "wfs") || l.param("service") == "wfs" ||
				strings.HasSuffix(strings.TrimSuffix(l.path, "/"), "/wfs")
		},
	},
	{
		Name:   "unknown",
		Format: Unknown,
		Score:  ScoreUnknown,
		Match:  func(link) bool { return true },
	},
}

func mentionsGeoJSON(s string) bool {
	return strings.Contains(s, "geojson") || strings.Contains(s, "geo+json")
}

// isAPIExport reports whether the link follows the catalog bulk-export
// convention (/api/data/..., /api/records/...).
func isAPIExport(l link) bool {
	return strings.Contains(l.path, "/api/data/") || strings.Contains(l.path, "/api/records/")
}

// IsAPIExportURL reports whether rawURL follows the catalog bulk-export
// convention.
func IsAPIExportURL(rawURL string) bool {
	return isAPIExport(newLink(metadata.RawLink{URL: rawURL}))
}
