package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"newsagents/services/chat-api/internal/config"
)

// Connect opens the service database described by cfg.DatabaseURL, creating
// the database itself on first deploy. Pool limits come straight from config
// and gorm query logging follows the deployment environment.
func Connect(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("CHAT_DATABASE_URL is empty")
	}

	if err := createDatabaseIfMissing(ctx, cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("create database: %w", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		PrepareStmt: true,
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
		Logger: gormlogger.Default.LogMode(queryLogLevel(cfg.Environment)),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("retrieve sql db: %w", err)
	}
	if cfg.DBMaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
	if cfg.DBMaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBConnLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DBConnLifetime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// queryLogLevel keeps gorm chatty in development and quiet everywhere else.
func queryLogLevel(environment string) gormlogger.LogLevel {
	if environment == "development" {
		return gormlogger.Info
	}
	return gormlogger.Warn
}

// createDatabaseIfMissing connects to the admin database on the same host and
// creates the target database when it does not exist yet. Non-URL DSNs are
// left to the driver untouched.
func createDatabaseIfMissing(ctx context.Context, dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil {
		return nil
	}

	name := strings.TrimPrefix(u.Path, "/")
	if name == "" || name == "postgres" {
		return nil
	}

	adminURL := *u
	adminURL.Path = "/postgres"

	admin, err := sql.Open("postgres", adminURL.String())
	if err != nil {
		return err
	}
	defer admin.Close()

	var exists bool
	err = admin.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", name).Scan(&exists)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if exists {
		return nil
	}

	_, err = admin.ExecContext(ctx, "CREATE DATABASE "+quoteIdentifier(name))
	return err
}

func quoteIdentifier(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
