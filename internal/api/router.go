package api

import (
	"net/http"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/tickethub/server/internal/api/handlers"
	"github.com/tickethub/server/internal/api/middleware"
	"github.com/tickethub/server/internal/auth"
	"github.com/tickethub/server/internal/config"
	"github.com/tickethub/server/internal/domain/accounts"
	"github.com/tickethub/server/internal/domain/events"
	"github.com/tickethub/server/internal/domain/users"
	"github.com/tickethub/server/internal/metrics"
	"github.com/tickethub/server/internal/storage/postgres"
)

// PublicRoutes lists the method and path prefixes reachable without a token.
// Everything else passes through the access gate.
func PublicRoutes() []middleware.PublicRoute {
	return []middleware.PublicRoute{
		{Method: http.MethodGet, Prefix: "/"},
		{Method: http.MethodGet, Prefix: "/healthz"},
		{Method: http.MethodGet, Prefix: "/readyz"},
		{Method: http.MethodGet, Prefix: "/metrics"},
		{Method: http.MethodPost, Prefix: "/auth/login"},
		{Method: http.MethodPost, Prefix: "/partners/register"},
		{Method: http.MethodPost, Prefix: "/customers/register"},
		{Method: http.MethodGet, Prefix: "/events"},
	}
}

func NewRouter(cfg config.Config, logger zerolog.Logger, pool *pgxpool.Pool) http.Handler {
	repo, err := postgres.NewRepository(pool)
	if err != nil {
		logger.Error().Err(err).Msg("repository init failed")
		return http.NewServeMux()
	}

	usersService := users.NewService(repo.Users())
	accountsService := accounts.NewService(repo.Accounts())
	eventsService := events.NewService(repo.Events(), repo.Accounts())

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry, cfg.Auth.Issuer)

	authHandler := handlers.NewAuthHandler(usersService, tokens, cfg.Environment)
	accountsHandler := handlers.NewAccountsHandler(accountsService, cfg.Environment)
	eventsHandler := handlers.NewEventsHandler(eventsService, cfg.Environment)

	mux := http.NewServeMux()
	mux.Handle("/{$}", handlers.Root())
	mux.Handle("/healthz", handlers.Healthz())
	mux.Handle("/readyz", handlers.Readyz(pool))
	mux.Handle("/metrics", metrics.Handler())

	mux.Handle("/auth/login", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(authHandler.Login),
	}))
	mux.Handle("/partners/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accountsHandler.RegisterPartner),
	}))
	mux.Handle("/customers/register", methodMux(map[string]http.Handler{
		http.MethodPost: http.HandlerFunc(accountsHandler.RegisterCustomer),
	}))
	mux.Handle("/partners/events", methodMux(map[string]http.Handler{
		http.MethodGet:  http.HandlerFunc(eventsHandler.ListOwn),
		http.MethodPost: http.HandlerFunc(eventsHandler.Create),
	}))
	mux.Handle("/partners/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.GetOwn),
	}))
	mux.Handle("/events", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.ListPublic),
	}))
	mux.Handle("/events/{id}", methodMux(map[string]http.Handler{
		http.MethodGet: http.HandlerFunc(eventsHandler.GetPublic),
	}))

	gate := middleware.AccessGate(tokens, usersService, PublicRoutes(), cfg.Environment)

	// The limiter runs once per request. Tier resolution happens outside it
	// so login attempts debit only the login budget.
	var handler http.Handler = gate(mux)
	handler = middleware.RateLimit(cfg.RateLimit, cfg.Environment)(handler)
	handler = tagLoginTier(handler)
	handler = middleware.Metrics()(handler)
	if cfg.Tracing.Enabled {
		handler = middleware.Tracing(cfg.Tracing.ServiceName)(handler)
	}
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)
	return handler
}

// tagLoginTier marks login requests so the limiter applies the login budget.
func tagLoginTier(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/auth/login" {
			r = r.WithContext(middleware.WithRateLimitTier(r.Context(), middleware.TierLogin))
		}
		next.ServeHTTP(w, r)
	})
}

func methodMux(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if handler, ok := handlers[r.Method]; ok {
			handler.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", allowedMethods(handlers))
		w.WriteHeader(http.StatusMethodNotAllowed)
	})
}

func allowedMethods(handlers map[string]http.Handler) string {
	methods := make([]string, 0, len(handlers))
	for method := range handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return strings.Join(methods, ", ")
}
