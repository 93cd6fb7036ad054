package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/tickethub/server/internal/api/problem"
	"github.com/tickethub/server/internal/config"
	"golang.org/x/time/rate"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	// TierLogin throttles credential guessing on the login route.
	TierLogin RateLimitTier = "login"
)

const rateLimitTierKey contextKey = "rate_limit_tier"

// WithRateLimitTier tags a context with the tier the limiter should apply.
func WithRateLimitTier(ctx context.Context, tier RateLimitTier) context.Context {
	return context.WithValue(ctx, rateLimitTierKey, tier)
}

// WithRateLimitTierHandler tags all requests passing through it with a tier.
func WithRateLimitTierHandler(tier RateLimitTier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := WithRateLimitTier(r.Context(), tier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit enforces per-client request budgets by tier. A zero or negative
// per-minute limit disables the tier.
func RateLimit(cfg config.RateLimitConfig, env string) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			tier := TierPublic
			if value, ok := r.Context().Value(rateLimitTierKey).(RateLimitTier); ok {
				tier = value
			}

			limiter := store.limiter(tier, clientKey(r))
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				problem.Write(w, r, http.StatusTooManyRequests, problem.TypeRateLimited, "Too many requests", nil, env)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

const (
	limiterTTL      = 15 * time.Minute
	cleanupInterval = 5 * time.Minute
)

type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	cfg         config.RateLimitConfig
	stopCleanup chan struct{}
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	store := &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		cfg:         cfg,
		stopCleanup: make(chan struct{}),
	}

	// Evict idle entries so the map cannot grow without bound under many
	// distinct client addresses.
	go store.cleanupLoop()

	return store
}

func (s *limiterStore) limiter(tier RateLimitTier, client string) *rate.Limiter {
	perMinute := s.cfg.PublicPerMinute
	if tier == TierLogin {
		perMinute = s.cfg.LoginPerMinute
	}
	if perMinute <= 0 {
		return nil
	}

	key := string(tier) + ":" + client

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	s.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (s *limiterStore) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup removes limiter entries not seen within the TTL.
func (s *limiterStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, entry := range s.limiters {
		if now.Sub(entry.lastSeen) > limiterTTL {
			delete(s.limiters, key)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (s *limiterStore) Stop() {
	close(s.stopCleanup)
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
