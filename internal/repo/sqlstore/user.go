package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
	"github.com/google/uuid"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	db      *sql.DB
	dialect Dialect
	newID   func() string
}

var _ repo.UserRepo = (*UserRepo)(nil)

func NewUserRepo(db *sql.DB, d Dialect) *UserRepo {
	return &UserRepo{db: db, dialect: d, newID: uuid.NewString}
}

// ==========================
// Create User
// ==========================
func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           r.newID(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password) VALUES ($1, $2, $3)`,
		user.ID, user.Username, user.PasswordHash,
	)
	if err != nil {
		if r.dialect.IsUniqueViolation(err) {
			return nil, fmt.Errorf("user %q: %w", username, repo.ErrDuplicate)
		}
		return nil, err
	}
	return user, nil
}

// ==========================
// Get By Username
// ==========================
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, password FROM users WHERE username = $1`,
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ==========================
// List Users
// ==========================
func (r *UserRepo) List(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, password FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
