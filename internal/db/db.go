// Package db opens the storage backend named by the database URL.
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/crucial707/taskboard/internal/config"
	"github.com/crucial707/taskboard/internal/repo"
	"github.com/crucial707/taskboard/internal/repo/mongostore"
	"github.com/crucial707/taskboard/internal/repo/sqlstore"
)

type Backend string

const (
	Mongo    Backend = "mongodb"
	Postgres Backend = "postgres"
	SQLite   Backend = "sqlite"
)

// sqliteDefaults is appended to SQLite DSNs that carry no options of their own.
const sqliteDefaults = "_busy_timeout=5000&_journal_mode=WAL"

// Parse picks the backend from the URL scheme and returns the DSN its driver expects.
//
//	mongodb://, mongodb+srv://   -> Mongo, URL unchanged
//	postgres://, postgresql://   -> Postgres, URL unchanged
//	sqlite://path, file:path     -> SQLite, go-sqlite3 DSN
func Parse(url string) (Backend, string, error) {
	scheme, rest, ok := strings.Cut(url, ":")
	if !ok {
		return "", "", fmt.Errorf("database url %q has no scheme", url)
	}
	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return Mongo, url, nil
	case "postgres", "postgresql":
		return Postgres, url, nil
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "//")
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no path", url)
		}
		if !strings.Contains(path, "?") {
			path += "?" + sqliteDefaults
		}
		return SQLite, path, nil
	case "file":
		return SQLite, url, nil
	default:
		return "", "", fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

// Connect opens, pings and bootstraps the backend selected by cfg.DatabaseURL.
func Connect(ctx context.Context, cfg config.Config) (repo.Store, error) {
	backend, dsn, err := Parse(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	opts := sqlstore.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}

	switch backend {
	case Mongo:
		s, err := mongostore.Open(ctx, dsn, cfg.DBName)
		if err != nil {
			return nil, err
		}
		return s, nil
	case Postgres:
		s, err := sqlstore.Open(ctx, sqlstore.Postgres, dsn, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		// SQLite allows a single writer.
		opts.MaxOpenConns = 1
		s, err := sqlstore.Open(ctx, sqlstore.SQLite, dsn, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
