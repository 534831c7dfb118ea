// Package candidate classifies metadata links into scored download candidates.
package candidate

import "strings"

// Format is the data encoding a link is believed to serve.
type Format string

const (
	GeoJSON    Format = "geojson"
	Shapefile  Format = "shapefile"
	CSV        Format = "csv"
	JSON       Format = "json"
	KML        Format = "kml"
	WFSService Format = "wfs_service"
	Unknown    Format = "unknown"

	// Formats only ever produced by content-type sniffing.
	TSV  Format = "tsv"
	XLSX Format = "xlsx"
	XLS  Format = "xls"
	ODS  Format = "ods"
	GPX  Format = "gpx"
	KMZ  Format = "kmz"
)

func (f Format) String() string { return string(f) }

// Concrete reports whether a downloader can act on f without further
// inspection. wfs_service and unknown are intermediate states.
func (f Format) Concrete() bool {
	switch f {
	case GeoJSON, Shapefile, CSV, JSON, KML, TSV, XLSX, XLS, ODS, GPX, KMZ:
		return true
	default:
		return false
	}
}

// FromOutputFormat maps a WFS OUTPUTFORMAT value to a format. Tokens that do
// not name a downloadable encoding map to WFSService.
func FromOutputFormat(token string) Format {
	t := strings.ToLower(strings.TrimSpace(token))
	switch {
	case strings.Contains(t, "geojson"), strings.Contains(t, "geo+json"), strings.Contains(t, "json"):
		return GeoJSON
	case strings.Contains(t, "csv"):
		return CSV
	case strings.Contains(t, "shape"), strings.Contains(t, "zip"):
		return Shapefile
	case strings.Contains(t, "kml"):
		return KML
	default:
		return WFSService
	}
}
