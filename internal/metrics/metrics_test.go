package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/BuzzLyutic/taskify/internal/model"
)

func TestObserveStats(t *testing.T) {
	ObserveStats(model.Stats{Total: 4, NotStarted: 1, InProgress: 2, Completed: 1})

	assert.Equal(t, 4.0, testutil.ToFloat64(TodosTotal.WithLabelValues("total")))
	assert.Equal(t, 2.0, testutil.ToFloat64(TodosTotal.WithLabelValues("in_progress")))
	assert.Equal(t, 1.0, testutil.ToFloat64(TodosTotal.WithLabelValues("completed")))
}

func TestSetEphemeral(t *testing.T) {
	SetEphemeral(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(StorageEphemeral))
	SetEphemeral(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(StorageEphemeral))
}

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/todos/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/todos/{id}", "418"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/todos/5", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/todos/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	SetEphemeral(true)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taskify_storage_ephemeral 1")
}
