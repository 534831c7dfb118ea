// Package wfs builds OGC WFS GetFeature requests and negotiates an output
// format a server actually honours.
package wfs

import (
	"strings"

	"github.com/geolink-tools/geolink/internal/candidate"
	"github.com/geolink-tools/geolink/internal/urlparam"
)

// Canonical GetFeature parameters.
const (
	Service = "WFS"
	Version = "2.0.0"
	Request = "GetFeature"
)

// conflicting are the parameters replaced by BuildRequest.
var conflicting = []string{"service", "request", "version", "typename", "typenames", "outputformat", "srsname"}

// OutputFormat is one OUTPUTFORMAT token and the format it yields.
type OutputFormat struct {
	Token  string
	Format candidate.Format
}

// OutputFormats is tried in order; the order encodes preference
// GeoJSON > shapefile > CSV > KML.
var OutputFormats = []OutputFormat{
	{"application/json; subtype=geojson", candidate.GeoJSON},
	{"geojson", candidate.GeoJSON},
	{"application/json", candidate.GeoJSON},
	{"application/vnd.geo+json", candidate.GeoJSON},
	{"json", candidate.GeoJSON},
	{"SHAPE-ZIP", candidate.Shapefile},
	{"shapezip", candidate.Shapefile},
	{"application/zip", candidate.Shapefile},
	{"application/x-shapefile", candidate.Shapefile},
	{"csv", candidate.CSV},
	{"text/csv", candidate.CSV},
	{"kml", candidate.KML},
	{"application/vnd.google-earth.kml+xml", candidate.KML},
}

// TypeName picks the feature type to request: the layer name advertised by
// the link when present, otherwise the resource identifier.
func TypeName(resourceID, layerName string) string {
	if n := strings.TrimSpace(layerName); n != "" {
		return n
	}
	return strings.TrimSpace(resourceID)
}

// BuildRequest strips conflicting WFS parameters from baseURL (keeping the
// others in their original order) and appends the canonical GetFeature
// parameters for typeName.
func BuildRequest(baseURL, typeName string) string {
	u := urlparam.Strip(strings.TrimSpace(baseURL), conflicting...)
	return urlparam.Append(u,
		"SERVICE", Service,
		"VERSION", Version,
		"REQUEST", Request,
		"TYPENAMES", typeName,
	)
}

// WithOutputFormat appends OUTPUTFORMAT=token to a GetFeature request.
func WithOutputFormat(request, token string) string {
	return urlparam.Append(request, "OUTPUTFORMAT", token)
}

// DeclaredFormat returns the format named by an OUTPUTFORMAT parameter
// already present in rawURL.
func DeclaredFormat(rawURL string) (candidate.Format, bool) {
	v, ok := urlparam.Get(rawURL, "outputformat")
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return candidate.FromOutputFormat(v), true
}
