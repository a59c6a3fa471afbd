package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/campusparty/internal/party/metrics"
	"github.com/aussiebroadwan/campusparty/pkg/idx"
)

func TestRouteLabels(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parties/{id}/join", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("GET /v1/parties/hosted", func(w http.ResponseWriter, r *http.Request) {})

	m := metrics.New()
	h := m.InstrumentHandler(metrics.MuxRoute(mux))(mux)

	for _, id := range []string{idx.New().String(), "not-a-ulid", "../../etc"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/parties/"+id+"/join", nil))
	}
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/parties/hosted", nil))
	for i := range 5 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/"+strconv.Itoa(i), nil))
	}

	require.Equal(t, 3.0, requests(t, m, "POST", "/v1/parties/{id}/join", "200"))
	require.Equal(t, 1.0, requests(t, m, "GET", "/v1/parties/hosted", "200"))
	require.Equal(t, 5.0, requests(t, m, "GET", metrics.UnmatchedRoute, "404"))

	count, err := testutil.GatherAndCount(m.Registry, "partyd_http_requests_total")
	require.NoError(t, err)
	require.Equal(t, 3, count, "one series per route")
}

func requests(t *testing.T, m *metrics.Metrics, method, path, status string) float64 {
	t.Helper()
	families, err := m.Registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "partyd_http_requests_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["method"] == method && labels["path"] == path && labels["status"] == status {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	m.MembershipOp("join", "ok")
	m.IndexFallback("list_by_university")
	m.HousekeepingRows("expire_rides", 3)

	h := m.InstrumentHandler(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}

func TestInstrumentAndExpose(t *testing.T) {
	m := metrics.New()
	route := func(*http.Request) string { return "/v1/parties" }
	h := m.InstrumentHandler(route)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/parties", nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	m.MembershipOp("join", "full")
	m.IndexFallback("list_by_university")
	m.IndexFallback("list_by_university")

	count, err := testutil.GatherAndCount(m.Registry, "partyd_store_index_fallbacks_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	require.True(t, strings.Contains(text, `partyd_http_requests_total{method="POST",path="/v1/parties",status="201"} 1`))
	require.True(t, strings.Contains(text, `partyd_membership_operations_total{op="join",result="full"} 1`))
	require.True(t, strings.Contains(text, `partyd_store_index_fallbacks_total{query="list_by_university"} 2`))
}
