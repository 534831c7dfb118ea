package candidate

import (
	"testing"

	"github.com/geolink-tools/geolink/internal/metadata"
)

func TestClassify_RuleTable(t *testing.T) {
	tests := []struct {
		name      string
		link      metadata.RawLink
		format    Format
		score     int
		rule      string
		layerName string
	}{
		{
			name:   "preconfigured wfs geojson",
			link:   metadata.RawLink{URL: "https://example.org/wfs?service=wfs&request=GetFeature&typeName=a&outputFormat=geojson"},
			format: GeoJSON, score: 50, rule: "preconfigured-wfs",
		},
		{
			name:   "preconfigured wfs upper case shape-zip",
			link:   metadata.RawLink{URL: "https://example.org/wfs?SERVICE=WFS&OUTPUTFORMAT=SHAPE-ZIP"},
			format: Shapefile, score: 50, rule: "preconfigured-wfs",
		},
		{
			name:   "preconfigured wfs csv",
			link:   metadata.RawLink{URL: "https://example.org/wfs?service=WFS&outputformat=text/csv"},
			format: CSV, score: 50, rule: "preconfigured-wfs",
		},
		{
			name:   "preconfigured wfs gml stays service",
			link:   metadata.RawLink{URL: "https://example.org/wfs?service=WFS&outputformat=application/gml%2Bxml"},
			format: WFSService, score: 50, rule: "preconfigured-wfs",
		},
		{
			name:   "api export",
			link:   metadata.RawLink{URL: "https://catalog.example.org/api/data/1234?format=csv"},
			format: Shapefile, score: 11, rule: "api-export",
		},
		{
			name:   "api records export",
			link:   metadata.RawLink{URL: "https://catalog.example.org/geonetwork/api/records/abcd/attachments/x"},
			format: Shapefile, score: 11, rule: "api-export",
		},
		{
			name:   "shape-zip in url",
			link:   metadata.RawLink{URL: "https://example.org/export?type=shape-zip"},
			format: Shapefile, score: 10, rule: "shapefile-zip",
		},
		{
			name:   "zip suffix",
			link:   metadata.RawLink{URL: "https://example.org/files/parcels.ZIP"},
			format: Shapefile, score: 9, rule: "zip-suffix",
		},
		{
			name:   "shapefile name",
			link:   metadata.RawLink{URL: "https://example.org/download/1", Name: "Parcels (Shapefile)"},
			format: Shapefile, score: 8, rule: "shapefile-name",
		},
		{
			name:   "geojson suffix",
			link:   metadata.RawLink{URL: "https://example.org/data.geojson"},
			format: GeoJSON, score: 10, rule: "geojson-suffix",
		},
		{
			name:   "geojson protocol",
			link:   metadata.RawLink{URL: "https://example.org/download/2", Protocol: "application/geo+json"},
			format: GeoJSON, score: 9, rule: "geojson-mention",
		},
		{
			name:   "geojson name",
			link:   metadata.RawLink{URL: "https://example.org/download/3", Name: "Export GeoJSON"},
			format: GeoJSON, score: 8, rule: "geojson-name",
		},
		{
			name:   "csv suffix",
			link:   metadata.RawLink{URL: "https://example.org/data.csv"},
			format: CSV, score: 6, rule: "csv",
		},
		{
			name:   "csv format param",
			link:   metadata.RawLink{URL: "https://example.org/export?format=CSV"},
			format: CSV, score: 6, rule: "csv",
		},
		{
			name:   "kml suffix",
			link:   metadata.RawLink{URL: "https://example.org/data.kml"},
			format: KML, score: 4, rule: "kml",
		},
		{
			name:   "json suffix",
			link:   metadata.RawLink{URL: "https://example.org/data.json"},
			format: JSON, score: 5, rule: "json",
		},
		{
			name:   "json protocol",
			link:   metadata.RawLink{URL: "https://example.org/items", Protocol: "WWW:LINK application/json"},
			format: JSON, score: 5, rule: "json",
		},
		{
			name:   "wfs protocol",
			link:   metadata.RawLink{URL: "https://example.org/geoserver/ows", Protocol: "OGC:WFS", Name: "cadastre:parcelles"},
			format: WFSService, score: 2, rule: "wfs-service", layerName: "cadastre:parcelles",
		},
		{
			name:   "wfs service param",
			link:   metadata.RawLink{URL: "https://example.org/wfs?service=WFS"},
			format: WFSService, score: 2, rule: "wfs-service",
		},
		{
			name:   "wfs path",
			link:   metadata.RawLink{URL: "https://example.org/geoserver/wfs/"},
			format: WFSService, score: 2, rule: "wfs-service",
		},
		{
			name:   "unknown",
			link:   metadata.RawLink{URL: "https://example.org/page.html", Name: "Landing page"},
			format: Unknown, score: 1, rule: "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Classify(tt.link)
			if !ok {
				t.Fatalf("expected a candidate")
			}
			if c.Format != tt.format || c.Score != tt.score || c.Rule != tt.rule {
				t.Fatalf("got format=%s score=%d rule=%s, want format=%s score=%d rule=%s",
					c.Format, c.Score, c.Rule, tt.format, tt.score, tt.rule)
			}
			if c.LayerName != tt.layerName {
				t.Fatalf("LayerName = %q, want %q", c.LayerName, tt.layerName)
			}
			if c.URL != tt.link.URL {
				t.Fatalf("URL = %q, want %q", c.URL, tt.link.URL)
			}
		})
	}
}

func TestClassify_NoURL(t *testing.T) {
	for _, l := range []metadata.RawLink{{}, {URL: "   "}, {Protocol: "OGC:WFS", Name: "layer"}} {
		if _, ok := Classify(l); ok {
			t.Fatalf("expected no candidate for %#v", l)
		}
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// Matches both the zip-suffix and the csv rule; the earlier one decides.
	c, _ := Classify(metadata.RawLink{URL: "https://example.org/data.zip", Name: "csv export"})
	if c.Rule != "zip-suffix" {
		t.Fatalf("rule = %s, want zip-suffix", c.Rule)
	}
	// geojson must never fall through to the generic json rule.
	c, _ = Classify(metadata.RawLink{URL: "https://example.org/items?f=json", Name: "geojson"})
	if c.Format != GeoJSON {
		t.Fatalf("format = %s, want geojson", c.Format)
	}
}

func TestRank_StableForEqualScores(t *testing.T) {
	cs := ClassifyAll([]metadata.RawLink{
		{URL: "https://example.org/first.kml"},
		{URL: "https://example.org/a.csv"},
		{URL: ""},
		{URL: "https://example.org/second.kml"},
		{URL: "https://example.org/b.csv"},
		{URL: "https://example.org/data.geojson"},
	})
	if len(cs) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(cs))
	}
	Rank(cs)
	want := []string{
		"https://example.org/data.geojson",
		"https://example.org/a.csv",
		"https://example.org/b.csv",
		"https://example.org/first.kml",
		"https://example.org/second.kml",
	}
	for i, c := range cs {
		if c.URL != want[i] {
			t.Fatalf("position %d = %s, want %s", i, c.URL, want[i])
		}
	}
}

func TestFormat_Concrete(t *testing.T) {
	for _, f := range []Format{GeoJSON, Shapefile, CSV, JSON, KML, TSV, XLSX, XLS, ODS, GPX, KMZ} {
		if !f.Concrete() {
			t.Fatalf("%s should be concrete", f)
		}
	}
	for _, f := range []Format{WFSService, Unknown, Format("")} {
		if f.Concrete() {
			t.Fatalf("%s should not be concrete", f)
		}
	}
}

func TestFromOutputFormat(t *testing.T) {
	tests := map[string]Format{
		"application/json; subtype=geojson":    GeoJSON,
		"json":                                 GeoJSON,
		"SHAPE-ZIP":                            Shapefile,
		"application/zip":                      Shapefile,
		"text/csv":                             CSV,
		"application/vnd.google-earth.kml+xml": KML,
		"GML3":                                 WFSService,
	}
	for token, want := range tests {
		if got := FromOutputFormat(token); got != want {
			t.Errorf("FromOutputFormat(%q) = %s, want %s", token, got, want)
		}
	}
}

func TestIsAPIExportURL(t *testing.T) {
	if !IsAPIExportURL("https://x.org/api/data/1") {
		t.Fatalf("expected api export")
	}
	if IsAPIExportURL("https://x.org/data/1.csv") {
		t.Fatalf("expected no api export")
	}
}
