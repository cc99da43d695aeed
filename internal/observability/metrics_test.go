package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestInstrumentHandlerRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	h := collector.InstrumentHandler("/api/v1/filter", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filter?group=active", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/v1/filter", "GET", "200")); got != 1 {
		t.Fatalf("http_requests_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "http_request_duration_seconds", map[string]string{
		"route":  "/api/v1/filter",
		"method": "GET",
	}); count != 1 {
		t.Fatalf("http_request_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestInstrumentHandlerRecordsErrorCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	h := collector.InstrumentHandler("/api/v1/filter", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream fetch failed", http.StatusBadGateway)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/filter", nil))

	if got := testutil.ToFloat64(collector.HTTPRequests.WithLabelValues("/api/v1/filter", "GET", "502")); got != 1 {
		t.Fatalf("http_requests_total error label = %v, want 1", got)
	}
}

func TestObserveFetchOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	collector.ObserveFetch("active", 120*time.Millisecond, nil)
	collector.ObserveFetch("stations", time.Second, errors.New("boom"))

	if count := histogramSampleCount(t, reg, "catalog_fetch_duration_seconds", map[string]string{
		"group": "active", "outcome": "ok",
	}); count != 1 {
		t.Fatalf("ok fetch sample_count = %d, want 1", count)
	}
	if count := histogramSampleCount(t, reg, "catalog_fetch_duration_seconds", map[string]string{
		"group": "stations", "outcome": "error",
	}); count != 1 {
		t.Fatalf("error fetch sample_count = %d, want 1", count)
	}
}

func TestMetricsHandlerExposesCatalogGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}
	collector.SetCatalogRecords(4230)
	collector.SetCatalogMatches(1287)
	collector.AddExcluded(2, 1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("/metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"catalog_records",
		"catalog_leo_matches",
		"records_excluded_total",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in /metrics output", metric)
		}
	}
	if got := testutil.ToFloat64(collector.RecordsExcluded.WithLabelValues(ReasonMalformedField)); got != 2 {
		t.Fatalf("records_excluded_total{malformed_field} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.RecordsExcluded.WithLabelValues(ReasonInvalidElement)); got != 1 {
		t.Fatalf("records_excluded_total{invalid_element} = %v, want 1", got)
	}
}

func TestNewCollectorTolerateReregistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("first NewCollector: %v", err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	if first.HTTPRequests != second.HTTPRequests {
		t.Errorf("expected re-registration to reuse the existing counter vec")
	}
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
