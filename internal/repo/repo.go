// Package repo defines the storage contracts shared by the handlers and
// the backend implementations in mongostore and sqlstore.
package repo

import (
	"context"
	"errors"

	"github.com/crucial707/taskboard/internal/models"
)

var (
	// ErrNotFound is returned when no record matches the given id or key.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("already exists")

	// ErrInvalidID is returned when an id cannot be parsed by the backend.
	ErrInvalidID = errors.New("invalid id")
)

// UserRepo persists user accounts. Username uniqueness is enforced by the backend.
type UserRepo interface {
	// Create inserts a user and returns it with its generated id.
	// Returns ErrDuplicate if the username is taken.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetByUsername returns ErrNotFound when no user has that exact username.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	List(ctx context.Context) ([]models.User, error)
}

// TaskRepo persists tasks. Ids that the backend cannot parse match nothing.
type TaskRepo interface {
	// Create inserts an unchecked task. Returns ErrInvalidID if userID is malformed.
	Create(ctx context.Context, userID, text string) (*models.Task, error)

	GetByID(ctx context.Context, id string) (*models.Task, error)

	// ListByUser never returns a nil slice on success.
	ListByUser(ctx context.Context, userID string) ([]models.Task, error)

	// SetChecked reports whether a task matched the id.
	SetChecked(ctx context.Context, id string, checked bool) (bool, error)

	// Delete returns ErrNotFound when nothing was removed.
	Delete(ctx context.Context, id string) error
}

// Store is an open storage backend.
type Store interface {
	Users() UserRepo
	Tasks() TaskRepo
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
