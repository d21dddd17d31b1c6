package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/matches/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, p := range []string{"/matches/a", "/matches/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/matches/{id}", "404")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RequestDuration))
}

func TestHandlerServesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)
	m.Requests.WithLabelValues(http.MethodPost, "/matches", "201").Inc()

	rr := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.Contains(rr.Body.String(), "organmatch_http_requests_total"))
}
