package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/crimeflow/internal/dashboard"
	"github.com/KaramelBytes/crimeflow/internal/dataset"
	"github.com/KaramelBytes/crimeflow/internal/flow"
	"github.com/KaramelBytes/crimeflow/internal/logging"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	var recs []dataset.Record
	add := func(n int, group, street string, year int) {
		for i := 0; i < n; i++ {
			recs = append(recs, dataset.Record{
				IncidentNumber: "I", OffenseCode: "1", OffenseCodeGroup: group,
				District: "B2", Street: street, Year: year, Month: 1,
				DayOfWeek: "Monday", Hour: 9, Lat: 42.3, Long: -71.1,
			})
		}
	}
	add(12, "Larceny", "Gibson St", 2016)
	add(3, "Vandalism", "Gibson St", 2016)
	add(2, "Larceny", "Boylston St", 2017)
	d, err := dashboard.New(dataset.ToTable(recs), dashboard.DefaultSettings())
	require.NoError(t, err)
	return New(d, Options{
		Logger:   logging.Discard(),
		Defaults: Defaults{Offense: "Larceny", Street: "Gibson St", MinCount: 10},
	})
}

func get(t *testing.T, s *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealthzAndRequestID(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestOptions(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Years    []int    `json:"years"`
		Streets  []string `json:"streets"`
		Defaults Defaults `json:"defaults"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []int{2016, 2017}, body.Years)
	assert.Equal(t, []string{"Boylston St", "Gibson St"}, body.Streets)
	// first year stands in for an unset default
	assert.Equal(t, 2016, body.Defaults.Year)
}

func TestChartsReturnsSixFigures(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts?year=2016&offense=all&street=Gibson+St&min_count=5")
	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, k := range []string{"map", "yearly", "monthly", "daily", "hourly", "flow"} {
		assert.Contains(t, body, k)
	}
	assert.Contains(t, string(body["flow"]), `"type":"sankey"`)
}

func TestFlowEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/flow?year=2016&street=Gibson%20St&min_count=0")
	require.Equal(t, http.StatusOK, rec.Code)
	var g flow.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, []string{"Gibson St", "Larceny", "Vandalism"}, g.Labels())
	require.Len(t, g.Links, 2)
	assert.Equal(t, 12.0, g.Links[0].Weight)
	assert.Equal(t, 100.0, g.Nodes[0].Style.Pad)
}

func TestFlowDefaultsApply(t *testing.T) {
	s := newTestServer(t)
	// default min count of 10 drops the vandalism link
	rec := get(t, s, "/api/flow?year=2016&street=Gibson%20St")
	require.Equal(t, http.StatusOK, rec.Code)
	var g flow.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Len(t, g.Links, 1)
}

func TestEmptySelectionIsNoContent(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/api/charts?year=2016&offense=&street=all")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSelectionKeepsCommasInLabels(t *testing.T) {
	var recs []dataset.Record
	for i := 0; i < 2; i++ {
		recs = append(recs, dataset.Record{
			IncidentNumber: "I", OffenseCode: "1", OffenseCodeGroup: "Larceny",
			District: "B2", Street: "Main St, Rear", Year: 2016, Month: 1,
			DayOfWeek: "Monday", Hour: 9, Lat: 42.3, Long: -71.1,
		})
	}
	d, err := dashboard.New(dataset.ToTable(recs), dashboard.DefaultSettings())
	require.NoError(t, err)
	s := New(d, Options{Logger: logging.Discard()})

	rec := get(t, s, "/api/flow?year=2016&min_count=0&street=Main+St%2C+Rear")
	require.Equal(t, http.StatusOK, rec.Code)
	var g flow.Graph
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	assert.Equal(t, []string{"Larceny", "Main St, Rear"}, g.Labels())
	require.Len(t, g.Links, 1)
	assert.Equal(t, 2.0, g.Links[0].Weight)

	// repeated keys select several values
	rec = get(t, s, "/api/flow?year=2016&min_count=0&street=Main+St%2C+Rear&street=Other+St")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestInvalidQuery(t *testing.T) {
	s := newTestServer(t)
	for _, target := range []string{
		"/api/charts?year=abc",
		"/api/charts?year=1200",
		"/api/flow?min_count=-5",
	} {
		rec := get(t, s, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "Boston Crime Analytics"))
	assert.True(t, strings.Contains(body, `"street":"Gibson St"`))
	// a newer interaction aborts the in-flight chart request
	assert.True(t, strings.Contains(body, "pending.abort()"))
	assert.True(t, strings.Contains(body, "signal: ctrl.signal"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)
	get(t, s, "/healthz")
	rec := get(t, s, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `crimeflow_http_requests_total{code="200",method="GET",route="/healthz"}`)
}
