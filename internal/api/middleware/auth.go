package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tickethub/server/internal/api/problem"
	"github.com/tickethub/server/internal/auth"
	"github.com/tickethub/server/internal/domain/users"
	"github.com/tickethub/server/internal/metrics"
)

const authUserKey contextKey = "auth_user"

// PublicRoute exempts a (method, path-prefix) pair from authentication.
// A prefix shadows every deeper path sharing it, so the root route "/" is
// matched exactly instead of as a prefix.
type PublicRoute struct {
	Method string
	Prefix string
}

func (p PublicRoute) Matches(method, path string) bool {
	if p.Method != method {
		return false
	}
	if p.Prefix == "/" {
		return path == "/"
	}
	return strings.HasPrefix(path, p.Prefix)
}

// UserResolver resolves a token subject to a stored user record.
type UserResolver interface {
	GetByID(ctx context.Context, id int64) (*users.User, error)
}

// AccessGate classifies each request as public or protected. Protected
// requests must carry a valid bearer token whose subject resolves to a
// stored user; the user is attached to the request context on success.
func AccessGate(tokens *auth.TokenManager, resolver UserResolver, public []PublicRoute, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, route := range public {
				if route.Matches(r.Method, r.URL.Path) {
					next.ServeHTTP(w, r)
					return
				}
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "No token provided", err, env)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Failed to authenticate token", err, env)
				return
			}

			userID, err := claims.UserID()
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Failed to authenticate token", err, env)
				return
			}

			user, err := resolver.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					metrics.AuthFailuresTotal.WithLabelValues("unknown_subject").Inc()
					problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Failed to authenticate token", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
				return
			}

			ctx := ContextWithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithUser attaches an authenticated user to a context.
func ContextWithUser(ctx context.Context, user *users.User) context.Context {
	return context.WithValue(ctx, authUserKey, user)
}

// UserFromContext retrieves the authenticated user, or nil on public routes.
func UserFromContext(ctx context.Context) *users.User {
	if ctx == nil {
		return nil
	}
	if user, ok := ctx.Value(authUserKey).(*users.User); ok {
		return user
	}
	return nil
}
