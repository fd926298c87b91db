package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"AffairsCatalog/internal/catalog"
	"AffairsCatalog/internal/domain"
	"AffairsCatalog/internal/infrastructure/metrics"
	"AffairsCatalog/internal/infrastructure/sites"
)

func newTestServer(t *testing.T, opts ...catalog.Option) (*httptest.Server, *metrics.Collector, *catalog.Service) {
	t.Helper()

	m := metrics.New("affairs-catalog-test")
	clock := func() time.Time { return time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC) }
	opts = append([]catalog.Option{catalog.WithClock(clock), catalog.WithRecorder(m)}, opts...)
	svc := catalog.NewService(sites.NewDefaultRegistry(), opts...)

	server := httptest.NewServer(New(svc, m, nil).Routes())
	t.Cleanup(server.Close)
	return server, m, svc
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

type failingStrategy struct{}

func (failingStrategy) GenerateURLs(domain.Date, domain.Options) ([]domain.ResourceDescriptor, error) {
	return nil, errors.New("boom")
}
func (failingStrategy) IsAvailable(domain.Date, domain.Date) bool { return true }
func (failingStrategy) Metadata() domain.ProviderMetadata {
	return domain.ProviderMetadata{Name: "Failing"}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)
	var body map[string]string
	resp := getJSON(t, server.URL+"/healthz", &body)
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", resp.StatusCode, body)
	}
	if _, err := uuid.Parse(resp.Header.Get(requestIDHeader)); err != nil {
		t.Fatalf("expected request id header, got %q", resp.Header.Get(requestIDHeader))
	}
}

func TestGetSources(t *testing.T) {
	t.Parallel()

	server, m, _ := newTestServer(t)

	var sources []domain.Source
	resp := getJSON(t, server.URL+"/api/sources?date=2025-05-02&includeHindi=true&includePDF=true&includeAnalysis=1", &sources)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}

	var ids []string
	for _, src := range sources {
		ids = append(ids, src.ID)
	}
	want := []string{"study-iq-0", "drishti-ias-0", "drishti-ias-1", "vision-ias-0"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	if got := testutil.ToFloat64(m.Resolutions.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected one ok resolution, got %v", got)
	}
}

func TestGetSourcesDefaultsToToday(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	var sources []domain.Source
	getJSON(t, server.URL+"/api/sources", &sources)
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources for today, got %d", len(sources))
	}
	if !strings.HasSuffix(sources[1].URL, "/10-05-2025") {
		t.Fatalf("expected today's drishti url, got %s", sources[1].URL)
	}
}

func TestGetSourcesEmptyIsArray(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/sources?date=2025-01-10")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected 200 with [], got %d %s", resp.StatusCode, body)
	}
}

func TestGetSourcesInvalidDate(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	var body errorResponse
	resp := getJSON(t, server.URL+"/api/sources?date=not-a-date", &body)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if strings.Contains(body.Message, "invalid input") {
		t.Fatalf("error kind must not leak to the caller: %q", body.Message)
	}
	if body.RequestID == "" {
		t.Fatalf("expected request id in error body")
	}
}

func TestGetSourcesProviderFailure(t *testing.T) {
	t.Parallel()

	server, _, svc := newTestServer(t)
	svc.AddStrategy("failing", failingStrategy{})

	var body errorResponse
	resp := getJSON(t, server.URL+"/api/sources?date=2025-05-02", &body)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	if body.Message != "Failed to load sources. Please try again." {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestGetSourcesPartialFailure(t *testing.T) {
	t.Parallel()

	server, _, svc := newTestServer(t, catalog.WithFailurePolicy(catalog.Isolate))
	svc.AddStrategy("failing", failingStrategy{})

	var sources []domain.Source
	resp := getJSON(t, server.URL+"/api/sources?date=2025-05-02", &sources)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(partialFailuresHeader) != "failing" {
		t.Fatalf("unexpected partial failure header: %q", resp.Header.Get(partialFailuresHeader))
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
}

func TestGetSourcesInterruptedRequest(t *testing.T) {
	t.Parallel()

	clock := func() time.Time { return time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC) }
	handler := New(catalog.NewService(sites.NewDefaultRegistry(), catalog.WithClock(clock)), nil, nil).Routes()

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	expired, cancelExpired := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancelExpired()

	for name, ctx := range map[string]context.Context{"canceled": canceled, "deadline": expired} {
		req := httptest.NewRequest(http.MethodGet, "/api/sources?date=2025-05-02", nil).WithContext(ctx)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("%s: expected 503, got %d", name, rec.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body.RequestID == "" {
			t.Fatalf("%s: unexpected body %+v (%v)", name, body, err)
		}
	}
}

func TestGetProviders(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	var all []domain.ProviderInfo
	getJSON(t, server.URL+"/api/providers", &all)
	if len(all) != 3 || all[0].Key != sites.StudyIQKey {
		t.Fatalf("unexpected providers: %+v", all)
	}

	var none []domain.ProviderInfo
	getJSON(t, server.URL+"/api/providers?type=Newspaper", &none)
	if len(none) != 0 {
		t.Fatalf("expected no newspapers, got %+v", none)
	}

	var one domain.ProviderInfo
	resp := getJSON(t, server.URL+"/api/providers/vision-ias", &one)
	if resp.StatusCode != http.StatusOK || one.Name != "Vision IAS" {
		t.Fatalf("unexpected provider: %d %+v", resp.StatusCode, one)
	}

	resp = getJSON(t, server.URL+"/api/providers/unknown", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestGetStatistics(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	var stats domain.Statistics
	getJSON(t, server.URL+"/api/statistics", &stats)
	want := domain.Statistics{
		Total:         3,
		ByType:        map[domain.ProviderType]int{domain.TypeCoaching: 3},
		ByReliability: map[domain.Reliability]int{domain.ReliabilityHigh: 3},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Fatalf("statistics mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalogPage(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/catalog/2025-05-02.html?includeEditorials=true")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html") {
		t.Fatalf("unexpected content type: %s", resp.Header.Get("Content-Type"))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	if n := doc.Find("article.source-card").Length(); n != 4 {
		t.Fatalf("expected 4 cards, got %d", n)
	}
	if doc.Find("article#drishti-ias-1").Length() != 1 {
		t.Fatalf("expected editorial card")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()

	server, _, _ := newTestServer(t)
	getJSON(t, server.URL+"/api/sources?date=2025-05-02", nil)

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "catalog_sources_served_total") {
		t.Fatalf("metrics missing catalog counters:\n%s", body)
	}
}
