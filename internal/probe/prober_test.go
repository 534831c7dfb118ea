package probe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type recorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *recorder) add(level, format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recorder) Info(format string, args ...any)  { r.add("info", format, args...) }
func (r *recorder) Warn(format string, args ...any)  { r.add("warn", format, args...) }
func (r *recorder) Error(format string, args ...any) { r.add("error", format, args...) }

func (r *recorder) joined() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.lines, "\n")
}

func statusServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestReachable_StatusClasses(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{http.StatusOK, true},
		{http.StatusNoContent, true},
		{http.StatusNotModified, true},
		{http.StatusNotFound, false},
		{http.StatusForbidden, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		srv := statusServer(t, tt.status)
		p := &Prober{Client: srv.Client()}
		if got := p.Reachable(context.Background(), srv.URL+"/data.geojson"); got != tt.want {
			t.Fatalf("status %d: Reachable = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestReachable_TimeoutIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	rec := &recorder{}
	p := &Prober{Client: srv.Client(), HeadTimeout: 50 * time.Millisecond, Reporter: rec}
	if p.Reachable(context.Background(), srv.URL) {
		t.Fatalf("expected slow server to be unreachable")
	}
	if !strings.Contains(rec.joined(), "timeout") {
		t.Fatalf("expected timeout reason, got %q", rec.joined())
	}
}

func TestReachable_ConnectionFailureAndCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	var p Prober
	if p.Reachable(context.Background(), addr) {
		t.Fatalf("expected closed server to be unreachable")
	}

	live := statusServer(t, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec := &recorder{}
	p = Prober{Client: live.Client(), Reporter: rec}
	if p.Reachable(ctx, live.URL) {
		t.Fatalf("expected canceled context to be unreachable")
	}
	if !strings.Contains(rec.joined(), "canceled") {
		t.Fatalf("expected canceled reason, got %q", rec.joined())
	}
}

func TestReachable_InvalidURL(t *testing.T) {
	var p *Prober
	if p.Reachable(context.Background(), "://bad") {
		t.Fatalf("expected invalid url to be unreachable")
	}
}

func TestServiceReachable_ForcesFeatureLimit(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"type":"FeatureCollection","features":[]}`))
	}))
	defer srv.Close()

	p := &Prober{Client: srv.Client()}
	u := srv.URL + "/wfs?SERVICE=WFS&count=500&maxFeatures=10&OUTPUTFORMAT=application%2Fjson"
	if !p.ServiceReachable(context.Background(), u) {
		t.Fatalf("expected service probe to succeed")
	}
	want := "SERVICE=WFS&OUTPUTFORMAT=application%2Fjson&COUNT=1&MAXFEATURES=1"
	if gotQuery != want {
		t.Fatalf("query = %q, want %q", gotQuery, want)
	}
}

func TestServiceReachable_ResponseInspection(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		format      string
		want        bool
	}{
		{"ok geojson", 200, "application/json", `{"type":"FeatureCollection"}`, "geojson", true},
		{"4xx without exception is inspected not failed", 400, "text/plain", "bad request", "SHAPE-ZIP", true},
		{"exception report", 200, "text/xml", `<ows:ExceptionReport><ows:Exception/></ows:ExceptionReport>`, "SHAPE-ZIP", false},
		{"service exception", 400, "application/vnd.ogc.se_xml", `<ServiceExceptionReport><ServiceException>x</ServiceException></ServiceExceptionReport>`, "csv", false},
		{"json requested xml returned", 200, "text/xml; subtype=gml/3.2", `<wfs:FeatureCollection/>`, "application/json", false},
		{"xml fine for non-json format", 200, "application/vnd.google-earth.kml+xml", `<kml/>`, "kml", true},
		{"server error", 503, "text/plain", "", "geojson", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := &Prober{Client: srv.Client()}
			u := srv.URL + "/wfs?SERVICE=WFS&OUTPUTFORMAT=" + tt.format
			if got := p.ServiceReachable(context.Background(), u); got != tt.want {
				t.Fatalf("ServiceReachable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestServiceReachable_MarkerBeyondInspectLimitIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(strings.Repeat("a,b\n", maxInspect/4+16)))
		_, _ = w.Write([]byte("ServiceException"))
	}))
	defer srv.Close()

	p := &Prober{Client: srv.Client()}
	if !p.ServiceReachable(context.Background(), srv.URL+"/wfs?OUTPUTFORMAT=csv") {
		t.Fatalf("expected marker past the inspected prefix to be ignored")
	}
}

func TestWithFeatureLimit(t *testing.T) {
	got := WithFeatureLimit("https://x.org/wfs?a=1&COUNT=9&b=2")
	if got != "https://x.org/wfs?a=1&b=2&COUNT=1&MAXFEATURES=1" {
		t.Fatalf("WithFeatureLimit = %q", got)
	}
}

func TestNewClient_SetsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	for _, tt := range []struct{ configured, want string }{
		{"", DefaultUserAgent},
		{" custom/2.0 ", "custom/2.0"},
	} {
		resp, err := NewClient(time.Second, tt.configured).Get(srv.URL)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
		if ua != tt.want {
			t.Fatalf("User-Agent = %q, want %q", ua, tt.want)
		}
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{&StatusError{Method: "HEAD", StatusCode: 404}, "status 404"},
		{fmt.Errorf("wrap: %w", context.DeadlineExceeded), "timeout"},
		{context.Canceled, "canceled"},
		{ErrServiceException, "service exception"},
		{ErrFormatIgnored, "format ignored"},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Fatalf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
