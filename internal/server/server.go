package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/visco/internal/config"
	"github.com/crucial707/visco/internal/crypt"
	"github.com/crucial707/visco/internal/db"
	"github.com/crucial707/visco/internal/services"
)

// Server wraps the HTTP server and its database handle.
type Server struct {
	httpServer *http.Server
	db         *sql.DB
	cfg        config.Config
	logger     *slog.Logger
}

// New connects to the database, loads the encryption key and builds the router.
// A missing key is fatal in production; in development an ephemeral key is generated
// and data stored with it is unreadable after a restart.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	if cfg.Database.AutoMigrate {
		if err := db.MigrateUp(cfg.DatabaseURL); err != nil {
			return nil, err
		}
		logger.Info("migrations applied")
	}

	key, ephemeral, err := crypt.LoadKey(ctx, !cfg.IsProd(),
		crypt.EnvKey{Value: cfg.EncryptionKey},
		crypt.FileKey{Path: cfg.EncryptionKeyFile},
	)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}
	if ephemeral {
		logger.Warn("no ENCRYPTION_KEY configured; using an ephemeral key, stored data will not survive a restart")
	}
	cipher, err := crypt.New(key)
	if err != nil {
		return nil, err
	}

	dbConn, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	router, err := NewRouter(Deps{Config: cfg, DB: dbConn, Cipher: cipher, Logger: logger})
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	return &Server{
		httpServer: httpServer,
		db:         dbConn,
		cfg:        cfg,
		logger:     logger,
	}, nil
}

// Start serves until Shutdown is called. It serves TLS when a certificate is configured.
func (s *Server) Start() error {
	var err error
	if s.cfg.TLSEnabled() {
		s.logger.Info("listening", "addr", s.httpServer.Addr, "tls", true, "env", s.cfg.Env)
		err = s.httpServer.ListenAndServeTLS(s.cfg.TLSCertFile, s.cfg.TLSKeyFile)
	} else {
		s.logger.Info("listening", "addr", s.httpServer.Addr, "tls", false, "env", s.cfg.Env)
		err = s.httpServer.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx is done, then
// closes the database pool.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Verify the cipher satisfies what the record service needs.
var _ services.Sealer = (*crypt.Cipher)(nil)
