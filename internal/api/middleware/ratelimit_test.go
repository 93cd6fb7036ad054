package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tickethub/server/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	limit := RateLimit(config.RateLimitConfig{PublicPerMinute: 3, LoginPerMinute: 3}, "test")
	handler := limit(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/events", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
	require.Equal(t, "60", res.Header().Get("Retry-After"))
}

func TestRateLimitIsPerClient(t *testing.T) {
	limit := RateLimit(config.RateLimitConfig{PublicPerMinute: 1, LoginPerMinute: 1}, "test")
	handler := limit(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/events", nil)
	first.RemoteAddr = "10.0.0.1:50000"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, first)
	require.Equal(t, http.StatusOK, res.Code)

	blocked := httptest.NewRequest(http.MethodGet, "/events", nil)
	blocked.RemoteAddr = "10.0.0.1:50001"
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, blocked)
	require.Equal(t, http.StatusTooManyRequests, res.Code)

	other := httptest.NewRequest(http.MethodGet, "/events", nil)
	other.RemoteAddr = "10.0.0.2:50000"
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, other)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestRateLimitLoginTier(t *testing.T) {
	limit := RateLimit(config.RateLimitConfig{PublicPerMinute: 100, LoginPerMinute: 1}, "test")
	handler := WithRateLimitTierHandler(TierLogin)(limit(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)

	req = httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusTooManyRequests, res.Code)
}

func TestLimiterStoreEvictsIdleClients(t *testing.T) {
	store := newLimiterStore(config.RateLimitConfig{PublicPerMinute: 10, LoginPerMinute: 10})
	defer store.Stop()

	for i := 0; i < 1000; i++ {
		store.limiter(TierPublic, "10.1."+strconv.Itoa(i/256)+"."+strconv.Itoa(i%256))
	}
	require.Len(t, store.limiters, 1000)

	store.mu.Lock()
	for _, entry := range store.limiters {
		entry.lastSeen = time.Now().Add(-limiterTTL - time.Minute)
	}
	store.mu.Unlock()

	store.limiter(TierPublic, "203.0.113.7")
	store.cleanup()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.limiters, 1)
	_, ok := store.limiters[string(TierPublic)+":203.0.113.7"]
	require.True(t, ok)
}

func TestLimiterStoreRefreshesLastSeenOnUse(t *testing.T) {
	store := newLimiterStore(config.RateLimitConfig{PublicPerMinute: 10, LoginPerMinute: 10})
	defer store.Stop()

	store.limiter(TierPublic, "10.0.0.1")

	store.mu.Lock()
	store.limiters["public:10.0.0.1"].lastSeen = time.Now().Add(-limiterTTL - time.Minute)
	store.mu.Unlock()

	store.limiter(TierPublic, "10.0.0.1")
	store.cleanup()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.limiters, 1)
}

func TestRateLimitSkipsOperationalEndpoints(t *testing.T) {
	limit := RateLimit(config.RateLimitConfig{PublicPerMinute: 1, LoginPerMinute: 1}, "test")
	handler := limit(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = "10.0.0.9:50000"
		res := httptest.NewRecorder()
		handler.ServeHTTP(res, req)
		require.Equal(t, http.StatusOK, res.Code)
	}
}
