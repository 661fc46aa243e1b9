package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/things/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/things/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	// One series per route pattern, none per concrete path.
	got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/things/{id}", "200"))
	assert.Equal(t, 3.0, got)
	raw := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/things/1", "200"))
	assert.Zero(t, raw)
}

func TestMiddlewareRecordsStatusFromHandler(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/missing", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	got := testutil.ToFloat64(RequestTotal.WithLabelValues("GET", "/missing", "404"))
	assert.Equal(t, 1.0, got)
}
