package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observed struct {
	route, method, status string
}

type fakeObserver struct {
	requests []observed
}

func (f *fakeObserver) ObserveRequest(route, method, status string, elapsed time.Duration) {
	f.requests = append(f.requests, observed{route, method, status})
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	r := chi.NewRouter()
	r.Use(Logger(logger))
	r.Get("/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/players/42", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"path":"/players/42"`)
	assert.Contains(t, out, `"status":404`)
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	obs := &fakeObserver{}

	r := chi.NewRouter()
	r.Use(Metrics(obs))
	r.Get("/players/{playerID}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	for _, id := range []string{"1", "2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/players/"+id, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	require.Len(t, obs.requests, 3)
	assert.Equal(t, observed{"/players/{playerID}", "GET", "200"}, obs.requests[0])
	assert.Equal(t, "/players/{playerID}", obs.requests[1].route)
	assert.Equal(t, "404", obs.requests[2].status)
}
