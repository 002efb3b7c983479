// Package repotest holds a behavioural suite every repo.Store backend must pass,
// and an in-memory Store used as a test double by the HTTP layers.
package repotest

import (
	"context"
	"sync"
	"testing"

	"github.com/crucial707/taskboard/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run exercises users and tasks end to end against s. The store should be empty.
func Run(t *testing.T, s repo.Store) {
	ctx := context.Background()

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	var aliceID string
	t.Run("users", func(t *testing.T) {
		alice, err := s.Users().Create(ctx, "alice", "hash-1")
		require.NoError(t, err)
		aliceID = alice.ID

		_, err = s.Users().Create(ctx, "alice", "hash-2")
		assert.ErrorIs(t, err, repo.ErrDuplicate)

		got, err := s.Users().GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, aliceID, got.ID)
		assert.Equal(t, "hash-1", got.PasswordHash)

		_, err = s.Users().GetByUsername(ctx, "Alice")
		assert.ErrorIs(t, err, repo.ErrNotFound)

		users, err := s.Users().List(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("concurrent registration", func(t *testing.T) {
		const workers = 8
		var wg sync.WaitGroup
		errs := make(chan error, workers)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.Users().Create(ctx, "racer", "hash")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		ok := 0
		for err := range errs {
			if err == nil {
				ok++
				continue
			}
			assert.ErrorIs(t, err, repo.ErrDuplicate)
		}
		assert.Equal(t, 1, ok)
	})

	t.Run("tasks", func(t *testing.T) {
		require.NotEmpty(t, aliceID)

		task, err := s.Tasks().Create(ctx, aliceID, "buy milk")
		require.NoError(t, err)
		assert.False(t, task.IsChecked)

		tasks, err := s.Tasks().ListByUser(ctx, aliceID)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)
		assert.False(t, tasks[0].IsChecked)

		matched, err := s.Tasks().SetChecked(ctx, task.ID, true)
		require.NoError(t, err)
		assert.True(t, matched)

		got, err := s.Tasks().GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.True(t, got.IsChecked)

		require.NoError(t, s.Tasks().Delete(ctx, task.ID))
		assert.ErrorIs(t, s.Tasks().Delete(ctx, task.ID), repo.ErrNotFound)

		matched, err = s.Tasks().SetChecked(ctx, task.ID, false)
		require.NoError(t, err)
		assert.False(t, matched)

		_, err = s.Tasks().Create(ctx, "not-an-id", "x")
		assert.ErrorIs(t, err, repo.ErrInvalidID)
	})
}
