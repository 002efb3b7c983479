package sqlstore

import (
	"errors"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Dialect captures the differences between the SQL engines this package supports.
// Both engines accept $N placeholders; queries keep them in order of first
// appearance so SQLite's positional binding lines up.
type Dialect struct {
	Name   string
	Driver string
	Schema string

	isUniqueViolation func(error) bool
}

// Postgres uses lib/pq.
var Postgres = Dialect{
	Name:   "postgres",
	Driver: "postgres",
	Schema: `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	task TEXT NOT NULL,
	is_checked BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);
`,
	isUniqueViolation: func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == "23505"
	},
}

// SQLite uses mattn/go-sqlite3 (cgo).
var SQLite = Dialect{
	Name:   "sqlite",
	Driver: "sqlite3",
	Schema: `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	task TEXT NOT NULL,
	is_checked BOOLEAN NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);
`,
	isUniqueViolation: func(err error) bool {
		var sqliteErr sqlite3.Error
		if !errors.As(err, &sqliteErr) {
			return false
		}
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	},
}

// IsUniqueViolation reports whether err is a unique constraint failure for this dialect.
func (d Dialect) IsUniqueViolation(err error) bool {
	if d.isUniqueViolation == nil || err == nil {
		return false
	}
	return d.isUniqueViolation(err)
}
