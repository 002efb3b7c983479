package repotest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
)

// MemStore is an in-memory repo.Store with UUID ids. Setting Err makes every
// call fail with it, to exercise storage-error paths.
type MemStore struct {
	mu    sync.Mutex
	users []models.User
	tasks []models.Task

	Err error
}

var _ repo.Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Users() repo.UserRepo { return memUsers{s} }
func (s *MemStore) Tasks() repo.TaskRepo { return memTasks{s} }

func (s *MemStore) Ping(context.Context) error  { return s.fail() }
func (s *MemStore) Close(context.Context) error { return nil }

// SetErr replaces Err under the store lock.
func (s *MemStore) SetErr(err error) {
	s.mu.Lock()
	s.Err = err
	s.mu.Unlock()
}

func (s *MemStore) fail() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Err
}

type memUsers struct{ s *MemStore }

func (u memUsers) Create(_ context.Context, username, passwordHash string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	for _, existing := range u.s.users {
		if existing.Username == username {
			return nil, repo.ErrDuplicate
		}
	}
	user := models.User{ID: uuid.NewString(), Username: username, PasswordHash: passwordHash}
	u.s.users = append(u.s.users, user)
	return &user, nil
}

func (u memUsers) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	for _, user := range u.s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (u memUsers) List(context.Context) ([]models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if u.s.Err != nil {
		return nil, u.s.Err
	}
	return append([]models.User{}, u.s.users...), nil
}

type memTasks struct{ s *MemStore }

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m memTasks) Create(_ context.Context, userID, text string) (*models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}
	if !validID(userID) {
		return nil, repo.ErrInvalidID
	}
	task := models.Task{ID: uuid.NewString(), UserID: userID, Task: text}
	m.s.tasks = append(m.s.tasks, task)
	return &task, nil
}

func (m memTasks) GetByID(_ context.Context, id string) (*models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}
	for _, t := range m.s.tasks {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m memTasks) ListByUser(_ context.Context, userID string) ([]models.Task, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return nil, m.s.Err
	}
	out := []models.Task{}
	for _, t := range m.s.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTasks) SetChecked(_ context.Context, id string, checked bool) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return false, m.s.Err
	}
	for i := range m.s.tasks {
		if m.s.tasks[i].ID == id {
			m.s.tasks[i].IsChecked = checked
			return true, nil
		}
	}
	return false, nil
}

func (m memTasks) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.Err != nil {
		return m.s.Err
	}
	for i, t := range m.s.tasks {
		if t.ID == id {
			m.s.tasks = append(m.s.tasks[:i], m.s.tasks[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}
