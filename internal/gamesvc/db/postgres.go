package db

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var DB *pgxpool.Pool

// Connect initializes the connection pool
func Connect() (*pgxpool.Pool, error) {
	dsn := os.Getenv("POSTGRES_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	// Try pinging to make sure it's valid
	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	DB = pool

	return pool, nil
}

// EnsureSchema creates the team settings and oauth tables if missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		team_id     TEXT PRIMARY KEY,
		utc_offset  INTEGER,
		team_domain TEXT,
		joined      BIGINT NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS oauth_teams (
		team_id      TEXT PRIMARY KEY,
		team_name    TEXT,
		access_token TEXT NOT NULL,
		webhook_url  TEXT NOT NULL,
		created_at   BIGINT NOT NULL
	);`

	_, err := pool.Exec(ctx, schema)
	return err
}

// ClosePool is for graceful shutdown
func ClosePool() {
	if DB != nil {
		DB.Close()
	}
}
