package httptools_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetwire/fleetwire/internal/httptools"
)

func TestWrap_Order(t *testing.T) {
	var order []string

	named := func(name string) httptools.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	handler := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	})

	wrapped := httptools.Wrap(handler, named("tracing"), named("logger"), named("auth"))
	wrapped.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"tracing", "logger", "auth", "handler"}, order)
}

func TestWrap_NoMiddleware(t *testing.T) {
	called := false
	wrapped := httptools.Wrap(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func TestChain_NilHandlerReachesInnermost(t *testing.T) {
	terminal := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			assert.Nil(t, next)
			w.WriteHeader(http.StatusNoContent)
		})
	}

	w := httptest.NewRecorder()
	httptools.Chain{terminal}.Then(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}
