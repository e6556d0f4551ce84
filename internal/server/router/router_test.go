package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/metrics"
	"github.com/mamadbah2/lantabur/internal/realtime"
	"github.com/mamadbah2/lantabur/internal/server/handlers"
)

func testHandlers() Handlers {
	return Handlers{
		Production: handlers.NewProductionHandler(nil, nil, nil, nil, nil),
		Dashboard:  handlers.NewDashboardHandler(nil, nil),
		RFT:        handlers.NewRFTHandler(nil, nil, nil, nil),
		Settings:   handlers.NewSettingsHandler(nil, nil),
		Stream:     handlers.NewStreamHandler(nil, realtime.NewHub(nil, nil), nil),
	}
}

func TestHealthz(t *testing.T) {
	r := New(testHandlers(), nil, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.Extraction("production", nil)

	r := New(testHandlers(), reg, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lantabur_extractions_total{kind="production",outcome="ok"} 1`)
}

func TestMetricsDisabledWithoutGatherer(t *testing.T) {
	r := New(testHandlers(), nil, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUnknownStreamCollection(t *testing.T) {
	r := New(testHandlers(), nil, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stream/unknown", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
