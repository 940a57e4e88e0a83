package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/visco/internal/config"
	_ "github.com/lib/pq"
)

const (
	driverName      = "postgres"
	pingTimeout     = 5 * time.Second
	connMaxIdleTime = 2 * time.Minute
	connMaxLifetime = 30 * time.Minute
)

// Connect opens a postgres pool sized from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open(driverName, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := Ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Ping checks the connection with a bounded timeout. Used by /healthz as well.
func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return db.PingContext(ctx)
}
