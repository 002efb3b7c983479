package tasks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crucial707/taskboard/cmd/cli/config"
)

// fakeTaskAPI serves an in-memory task list for user u-1.
func fakeTaskAPI(t *testing.T) map[string]*Task {
	t.Helper()
	tasks := map[string]*Task{}
	requireToken := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Invalid JWT Token"}`))
			return false
		}
		return true
	}

	r := chi.NewRouter()
	r.Post("/tasks", func(w http.ResponseWriter, r *http.Request) {
		if !requireToken(w, r) {
			return
		}
		var in Task
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = "t-1"
		tasks[in.ID] = &in
		w.Write([]byte(`{"message":"Task created successfully","task_id":"t-1"}`))
	})
	r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		out := []Task{}
		for _, task := range tasks {
			if task.UserID == chi.URLParam(r, "id") {
				out = append(out, *task)
			}
		}
		json.NewEncoder(w).Encode(out)
	})
	r.Patch("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !requireToken(w, r) {
			return
		}
		var in struct {
			IsChecked bool `json:"isChecked"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		if task, ok := tasks[chi.URLParam(r, "id")]; ok {
			task.IsChecked = in.IsChecked
		}
		w.Write([]byte(`{"message":"Task isChecked status updated successfully"}`))
	})
	r.Delete("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		if !requireToken(w, r) {
			return
		}
		id := chi.URLParam(r, "id")
		if _, ok := tasks[id]; !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Task not found"}`))
			return
		}
		delete(tasks, id)
		w.Write([]byte(`{"message":"Task deleted successfully"}`))
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Setenv("TASKBOARD_API_URL", srv.URL)
	t.Setenv("HOME", t.TempDir())
	return tasks
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "taskctl", SilenceUsage: true, SilenceErrors: true}
	InitTasks(root)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTasks_RequiresLogin(t *testing.T) {
	fakeTaskAPI(t)

	_, err := execute(t, "tasks", "add", "buy", "milk")
	assert.ErrorIs(t, err, config.ErrNoSession)

	_, err = execute(t, "tasks", "list")
	assert.ErrorIs(t, err, config.ErrNoSession)
}

func TestTasks_Lifecycle(t *testing.T) {
	tasks := fakeTaskAPI(t)
	require.NoError(t, config.SaveSession(config.Session{Username: "alice", UserID: "u-1", Token: "tok"}))

	out, err := execute(t, "tasks", "add", "buy", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created successfully (id t-1)")
	require.Contains(t, tasks, "t-1")
	assert.Equal(t, "buy milk", tasks["t-1"].Task)
	assert.Equal(t, "u-1", tasks["t-1"].UserID)

	_, err = execute(t, "tasks", "check", "t-1")
	require.NoError(t, err)
	assert.True(t, tasks["t-1"].IsChecked)

	out, err = execute(t, "tasks", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "buy milk")

	out, err = execute(t, "tasks", "list", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"isChecked": true`)

	_, err = execute(t, "tasks", "uncheck", "t-1")
	require.NoError(t, err)
	assert.False(t, tasks["t-1"].IsChecked)

	out, err = execute(t, "tasks", "delete", "t-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted successfully")

	_, err = execute(t, "tasks", "delete", "t-1")
	assert.ErrorContains(t, err, "Task not found")
}

func TestTasks_ListOtherUserWithoutLogin(t *testing.T) {
	tasks := fakeTaskAPI(t)
	tasks["t-9"] = &Task{ID: "t-9", UserID: "u-2", Task: "walk dog"}

	out, err := execute(t, "tasks", "list", "--user", "u-2")
	require.NoError(t, err)
	assert.Contains(t, out, "walk dog")
}
