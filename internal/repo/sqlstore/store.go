// Package sqlstore implements repo.Store on database/sql for PostgreSQL and SQLite.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/taskboard/internal/repo"
)

// Store owns a connection pool and hands out repos bound to it.
type Store struct {
	DB      *sql.DB
	dialect Dialect
	users   *UserRepo
	tasks   *TaskRepo
}

var _ repo.Store = (*Store)(nil)

// Options tunes the connection pool. Zero values keep database/sql defaults.
type Options struct {
	MaxOpenConns int
	MaxIdleConns int
}

// Open connects with the dialect's driver, pings and bootstraps the schema.
func Open(ctx context.Context, d Dialect, dsn string, opts Options) (*Store, error) {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.Name, err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.Name, err)
	}

	s := New(db, d)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle without touching the schema.
func New(db *sql.DB, d Dialect) *Store {
	return &Store{
		DB:      db,
		dialect: d,
		users:   NewUserRepo(db, d),
		tasks:   NewTaskRepo(db),
	}
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, s.dialect.Schema); err != nil {
		return fmt.Errorf("create %s schema: %w", s.dialect.Name, err)
	}
	return nil
}

func (s *Store) Users() repo.UserRepo { return s.users }
func (s *Store) Tasks() repo.TaskRepo { return s.tasks }

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Store) Close(context.Context) error {
	return s.DB.Close()
}
