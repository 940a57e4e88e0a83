package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/models"
	"github.com/crucial707/visco/internal/repo"
)

type ctxKey string

const userKey ctxKey = "user"

// UserLoader resolves a session's user id to the stored user.
type UserLoader interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromContext returns the authenticated user, or false for an anonymous request.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userKey).(*models.User)
	return u, ok && u != nil
}

// LoadSession resolves the session cookie into a user in the request context. A forged,
// expired or orphaned session (user deleted) makes the request anonymous and clears the
// cookie. A store failure is logged and the request also proceeds anonymously.
func LoadSession(sessions *auth.SessionManager, users UserLoader, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := sessions.UserID(r)
			if errors.Is(err, auth.ErrNoSession) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				sessions.End(w)
				next.ServeHTTP(w, r)
				return
			}

			u, err := users.GetByID(r.Context(), id)
			switch {
			case errors.Is(err, repo.ErrNotFound):
				sessions.End(w)
			case err != nil:
				logger.Error("load session user", "user_id", id, "err", err)
			default:
				r = r.WithContext(WithUser(r.Context(), u))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireUser redirects anonymous page requests to /login.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAPIUser answers anonymous API requests with 401 JSON.
func RequireAPIUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
