package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDataset(t *testing.T) {
	ObserveDataset(10, 4)
	assert.Equal(t, 10.0, testutil.ToFloat64(datasetRows.WithLabelValues("read")))
	assert.Equal(t, 6.0, testutil.ToFloat64(datasetRows.WithLabelValues("dropped")))
}

func TestObserveFlow(t *testing.T) {
	okBefore := testutil.ToFloat64(flowBuilds.WithLabelValues("ok"))
	errBefore := testutil.ToFloat64(flowBuilds.WithLabelValues("error"))
	ObserveFlow(3, nil)
	ObserveFlow(0, errors.New("boom"))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(flowBuilds.WithLabelValues("ok")))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(flowBuilds.WithLabelValues("error")))
}

func TestHandlerExposesCollectors(t *testing.T) {
	ObserveRequest("GET", "/healthz", 200, time.Millisecond)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "crimeflow_http_requests_total"))
	assert.True(t, strings.Contains(body, "crimeflow_dataset_rows"))
}
