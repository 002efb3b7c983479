package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
	"github.com/google/uuid"
)

// ==========================
// TaskRepo
// ==========================
type TaskRepo struct {
	db    *sql.DB
	newID func() string
}

var _ repo.TaskRepo = (*TaskRepo)(nil)

func NewTaskRepo(db *sql.DB) *TaskRepo {
	return &TaskRepo{db: db, newID: uuid.NewString}
}

// validID reports whether id is a UUID as generated by this package.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// ==========================
// Create Task
// ==========================
func (r *TaskRepo) Create(ctx context.Context, userID, text string) (*models.Task, error) {
	if !validID(userID) {
		return nil, repo.ErrInvalidID
	}
	task := &models.Task{
		ID:     r.newID(),
		UserID: userID,
		Task:   text,
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (id, user_id, task, is_checked) VALUES ($1, $2, $3, $4)`,
		task.ID, task.UserID, task.Task, false,
	)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ==========================
// Get By ID
// ==========================
func (r *TaskRepo) GetByID(ctx context.Context, id string) (*models.Task, error) {
	if !validID(id) {
		return nil, repo.ErrNotFound
	}
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, task, is_checked FROM tasks WHERE id = $1`,
		id,
	).Scan(&task.ID, &task.UserID, &task.Task, &task.IsChecked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ==========================
// List By User
// ==========================
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if !validID(userID) {
		return tasks, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task, is_checked FROM tasks WHERE user_id = $1 ORDER BY created_at, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Task, &t.IsChecked); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// ==========================
// Set Checked
// ==========================
func (r *TaskRepo) SetChecked(ctx context.Context, id string, checked bool) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET is_checked = $1 WHERE id = $2`,
		checked, id,
	)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ==========================
// Delete Task
// ==========================
func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return repo.ErrNotFound
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return repo.ErrNotFound
	}
	return nil
}
