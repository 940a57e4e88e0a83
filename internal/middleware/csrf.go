package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/crucial707/visco/internal/auth"
)

const (
	CSRFCookieName = "csrf_token"
	CSRFFieldName  = "csrf_token"
	CSRFHeaderName = "X-CSRF-Token"
)

const csrfKey ctxKey = "csrf"

// CSRFToken returns the token pages should embed in forms.
func CSRFToken(ctx context.Context) string {
	s, _ := ctx.Value(csrfKey).(string)
	return s
}

// CSRF guards form routes with a double-submit token. Safe requests get a valid token
// cookie (reissued when missing, stale or forged). Unsafe requests must carry a valid
// cookie token and echo the same value in the form field or X-CSRF-Token header, or they
// get 403.
func CSRF(tokens *auth.CSRFTokens, secure bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var cookieToken string
			if c, err := r.Cookie(CSRFCookieName); err == nil && tokens.Valid(c.Value) {
				cookieToken = c.Value
			}

			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				if cookieToken == "" {
					tok, err := tokens.Issue()
					if err != nil {
						logger.Error("issue csrf token", "err", err)
						writeError(w, http.StatusInternalServerError, "internal server error")
						return
					}
					cookieToken = tok
					http.SetCookie(w, &http.Cookie{
						Name:     CSRFCookieName,
						Value:    tok,
						Path:     "/",
						MaxAge:   int(tokens.TTL().Seconds()),
						Secure:   secure,
						SameSite: http.SameSiteLaxMode,
					})
				}
			default:
				sent := r.Header.Get(CSRFHeaderName)
				if sent == "" {
					sent = r.PostFormValue(CSRFFieldName)
				}
				if cookieToken == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(cookieToken)) != 1 {
					logger.Warn("csrf check failed", "method", r.Method, "path", r.URL.Path)
					http.Error(w, "The CSRF token is missing or invalid.", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfKey, cookieToken)))
		})
	}
}
