package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crucial707/visco/internal/auth"
	"github.com/crucial707/visco/internal/config"
	"github.com/crucial707/visco/internal/db"
	"github.com/crucial707/visco/internal/handlers"
	"github.com/crucial707/visco/internal/middleware"
	"github.com/crucial707/visco/internal/repo"
	"github.com/crucial707/visco/internal/services"
	"github.com/crucial707/visco/internal/web"
)

// Deps is everything the router needs. Tests pass a sqlmock DB and a throwaway cipher.
type Deps struct {
	Config config.Config
	DB     *sql.DB
	Cipher services.Sealer
	Logger *slog.Logger
}

// NewRouter builds the full HTTP surface.
func NewRouter(d Deps) (*chi.Mux, error) {
	pages, err := web.NewRenderer()
	if err != nil {
		return nil, err
	}
	cfg := d.Config
	prod := cfg.IsProd()

	userRepo := repo.NewUserRepo(d.DB)
	recordRepo := repo.NewRecordRepo(d.DB)

	accounts := services.NewAccountService(userRepo, d.Logger)
	records := services.NewRecordService(recordRepo, d.Cipher, d.Logger)

	sessions := auth.NewSessionManager(cfg.SecretKey, cfg.SessionTimeout, prod)
	csrfTokens := auth.NewCSRFTokens(cfg.CSRFSecretKey, cfg.CSRFTimeLimit)
	authLimiter := middleware.AuthRateLimiter()

	authHandler := &handlers.AuthHandler{
		Accounts: accounts,
		Sessions: sessions,
		Pages:    pages,
		Logger:   d.Logger,
		Secure:   prod,
	}
	recordHandler := &handlers.RecordHandler{Records: records, Logger: d.Logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(
		middleware.RequestLog(d.Logger),
		middleware.Prometheus,
		middleware.Recoverer(d.Logger),
		middleware.SecurityHeaders(prod),
	)
	if prod {
		r.Use(middleware.HTTPSRedirect(cfg.TrustProxy))
	}
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))

	r.Get("/healthz", healthz(d.DB, d.Logger))
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", web.Static()))

	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadSession(sessions, userRepo, d.Logger))

		// Pages and forms.
		r.Group(func(r chi.Router) {
			r.Use(middleware.CSRF(csrfTokens, prod, d.Logger))

			r.Get("/login", authHandler.LoginPage)
			r.With(authLimiter.Middleware).Post("/login", authHandler.Login)
			r.Get("/register", authHandler.RegisterPage)
			r.With(authLimiter.Middleware).Post("/register", authHandler.Register)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser)
				r.Get("/", authHandler.Home)
				r.Get("/logout", authHandler.Logout)
			})
		})

		// JSON API; authenticated by the session cookie, no CSRF form token.
		r.Route("/api/client/data", func(r chi.Router) {
			r.Use(middleware.RequireAPIUser)
			r.Post("/", recordHandler.Add)
			r.Get("/", recordHandler.List)
			r.Get("/{id}", recordHandler.Get)
			r.Delete("/{id}", recordHandler.Delete)
		})
	})

	return r, nil
}

func healthz(conn *sql.DB, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context(), conn); err != nil {
			logger.Error("health check", "err", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}
}
