// Package catalog obtains single metadata records, either from a CSW
// endpoint with GetRecordById or from a file on disk.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/geolink-tools/geolink/internal/metadata"
	"github.com/geolink-tools/geolink/internal/urlparam"
)

// OutputSchema requests ISO 19139 records from CSW 2.0.2 endpoints.
const OutputSchema = "http://www.isotc211.org/2005/gmd"

// RecordFetcher fetches one ISO 19139 record from a CSW endpoint.
type RecordFetcher struct {
	Client  *http.Client
	Token   string
	BaseURL string // CSW endpoint, e.g. https://host/geonetwork/srv/eng/csw
}

// RequestURL builds the GetRecordById URL for id. Parameters already on
// BaseURL are kept unless they conflict with the request.
func (f *RecordFetcher) RequestURL(id string) string {
	base := urlparam.Strip(strings.TrimSpace(f.BaseURL),
		"service", "version", "request", "id", "outputschema", "elementsetname")
	return urlparam.Append(base,
		"service", "CSW",
		"version", "2.0.2",
		"request", "GetRecordById",
		"id", strings.TrimSpace(id),
		"outputSchema", OutputSchema,
		"elementSetName", "full",
	)
}

// Fetch retrieves and decodes the record with the given identifier. The
// returned tree is the full response; metadata.Record locates the record
// inside the CSW envelope.
func (f *RecordFetcher) Fetch(ctx context.Context, id string) (map[string]any, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	if strings.TrimSpace(f.BaseURL) == "" {
		return nil, fmt.Errorf("csw endpoint is not configured")
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("record id is empty")
	}

	url := f.RequestURL(id)
	logf(id, "GET %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml, text/xml;q=0.9, application/json;q=0.8")
	if tok := strings.TrimSpace(f.Token); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := client.Do(req)
	if err != nil {
		logf(id, "request error (%v)", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logf(id, "non-200 status=%d", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	format := "auto"
	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "json") {
		format = "json"
	}
	doc, err := metadata.Decode(resp.Body, format)
	if err != nil {
		logf(id, "decode error (%v)", err)
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	if exc := exception(doc); exc != nil {
		logf(id, "%v", exc)
		return nil, exc
	}
	if metadata.Record(doc) == nil {
		logf(id, "empty response")
		return nil, ErrRecordNotFound
	}
	logf(id, "ok")
	return doc, nil
}

// exception extracts an OWS ExceptionReport, if doc is one.
func exception(doc map[string]any) error {
	rep := metadata.Get(doc, "ExceptionReport")
	if rep == nil {
		return nil
	}
	e := &ExceptionError{}
	for _, ex := range metadata.AsList(metadata.Get(rep, "Exception")) {
		e.Code = metadata.AsText(metadata.Get(ex, "@exceptionCode"))
		e.Text = metadata.AsText(metadata.Get(ex, "ExceptionText"))
		break
	}
	if e.Text == "" {
		e.Text = "exception report"
	}
	return e
}
