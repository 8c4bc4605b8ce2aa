package config

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"

	"github.com/baechuer/account-service/internal/logger"
)

const dbPingTimeout = 3 * time.Second

// NewDB opens a pgx-backed pool and fails fast if the server is unreachable.
func NewDB(dsn string, debug bool) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty DB DSN")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	configurePool(db)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if debug {
		logIdentity(ctx, db, logger.Logger)
	}
	return db, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(60 * time.Minute)
}

// logIdentity records which server, role and database the pool reached.
// Lookup failures leave the field empty.
func logIdentity(ctx context.Context, db *sql.DB, lg zerolog.Logger) {
	var who, dbname, ver string
	_ = db.QueryRowContext(ctx, "SELECT current_user").Scan(&who)
	_ = db.QueryRowContext(ctx, "SELECT current_database()").Scan(&dbname)
	_ = db.QueryRowContext(ctx, "SHOW server_version").Scan(&ver)

	lg.Info().
		Str("db_user", who).
		Str("db_name", dbname).
		Str("server_version", ver).
		Msg("db_connected")
}
