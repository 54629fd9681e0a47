// Package database owns the PostgreSQL pool used by the postgres history
// backend and the turn event log, and applies their schema.
package database

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/studybot/internal/platform/config"
)

//go:embed schema.sql
var schema string

const (
	maxConnLifetime = 30 * time.Minute
	maxConnIdleTime = 5 * time.Minute
)

// DB is a pgx pool with the studybot schema applied by Migrate.
type DB struct {
	Pool *pgxpool.Pool
}

// PoolConfig turns the database settings into a pool configuration.
func PoolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is empty")
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = int32(cfg.MaxConns)
	}
	if cfg.MinConns >= 0 && cfg.MinConns <= int(pc.MaxConns) {
		pc.MinConns = int32(cfg.MinConns)
	}
	pc.MaxConnLifetime = maxConnLifetime
	pc.MaxConnIdleTime = maxConnIdleTime
	return pc, nil
}

// New opens the pool and pings the server before returning.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s: %w", pc.ConnConfig.Database, err)
	}
	return &DB{Pool: pool}, nil
}

// Migrate creates the history and event tables if they do not exist. It is
// safe to run on every start.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

// HealthCheck pings the server.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}
