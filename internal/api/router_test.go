package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tickethub/server/internal/api/middleware"
	"github.com/tickethub/server/internal/config"
)

func TestMethodMuxDispatch(t *testing.T) {
	mux := methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		http.MethodPost: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/x", nil))
	require.Equal(t, http.StatusOK, res.Code)

	res = httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/x", nil))
	require.Equal(t, http.StatusCreated, res.Code)
}

func TestMethodMuxRejectsUnknownMethod(t *testing.T) {
	mux := methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
		http.MethodPost: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}),
	})

	res := httptest.NewRecorder()
	mux.ServeHTTP(res, httptest.NewRequest(http.MethodDelete, "/x", nil))
	require.Equal(t, http.StatusMethodNotAllowed, res.Code)
	require.Equal(t, "GET, POST", res.Header().Get("Allow"))
}

func TestLoginDebitsOnlyLoginBudget(t *testing.T) {
	limit := middleware.RateLimit(config.RateLimitConfig{PublicPerMinute: 1, LoginPerMinute: 5}, "test")
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := tagLoginTier(limit(ok))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodGet, "/events", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
}

func TestPublicRoutesCoverRegistrationAndCatalog(t *testing.T) {
	routes := PublicRoutes()

	assertPublic := func(method, path string) {
		t.Helper()
		for _, route := range routes {
			if route.Matches(method, path) {
				return
			}
		}
		t.Fatalf("%s %s should be public", method, path)
	}

	assertPublic(http.MethodGet, "/")
	assertPublic(http.MethodPost, "/auth/login")
	assertPublic(http.MethodPost, "/partners/register")
	assertPublic(http.MethodPost, "/customers/register")
	assertPublic(http.MethodGet, "/events")
	assertPublic(http.MethodGet, "/events/12")

	for _, route := range routes {
		require.False(t, route.Matches(http.MethodPost, "/partners/events"), "event creation must stay protected")
		require.False(t, route.Matches(http.MethodGet, "/partners/events"), "own-event listing must stay protected")
	}
}
