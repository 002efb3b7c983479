package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/crucial707/taskboard/internal/config"
	"github.com/crucial707/taskboard/internal/metrics"
	"github.com/crucial707/taskboard/internal/middleware"
	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
)

// ==========================
// TaskHandler
// ==========================

// TaskHandler serves the task routes. The {id} URL param is a user id on
// GET /tasks/{id} and a task id on PATCH and DELETE.
// With Mode config.AuthzOwner every operation is restricted to the
// authenticated user's own tasks.
type TaskHandler struct {
	Tasks repo.TaskRepo
	Users repo.UserRepo
	Mode  string
	Log   *zap.Logger
}

type createTaskInput struct {
	UserID string `json:"user_id" validate:"required"`
	Task   string `json:"task" validate:"required"`
}

type updateTaskInput struct {
	IsChecked *bool `json:"isChecked" validate:"required"`
}

// CreateTaskResponse is returned by a successful create.
type CreateTaskResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

func (h *TaskHandler) ownerMode() bool {
	return h.Mode == config.AuthzOwner
}

// callerID resolves the authenticated username to its user id. It writes the
// response and returns false when the caller cannot be resolved.
func (h *TaskHandler) callerID(w http.ResponseWriter, r *http.Request, failMsg string) (string, bool) {
	username := middleware.GetUsername(r.Context())
	if username == "" {
		JSONError(w, MessageForbidden, http.StatusForbidden)
		return "", false
	}
	user, err := h.Users.GetByUsername(r.Context(), username)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, MessageForbidden, http.StatusForbidden)
		return "", false
	}
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return "", false
	}
	return user.ID, true
}

// ownedTask loads the task and checks it belongs to the caller. It writes the
// response and returns false on any failure.
func (h *TaskHandler) ownedTask(w http.ResponseWriter, r *http.Request, taskID, failMsg string) bool {
	callerID, ok := h.callerID(w, r, failMsg)
	if !ok {
		return false
	}
	task, err := h.Tasks.GetByID(r.Context(), taskID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Task not found", http.StatusNotFound)
		return false
	}
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return false
	}
	if task.UserID != callerID {
		JSONError(w, MessageForbidden, http.StatusForbidden)
		return false
	}
	return true
}

// ==========================
// Create Task
// ==========================
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Task creation failed"

	var input createTaskInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if h.ownerMode() {
		callerID, ok := h.callerID(w, r, failMsg)
		if !ok {
			return
		}
		if callerID != input.UserID {
			JSONError(w, MessageForbidden, http.StatusForbidden)
			return
		}
	}

	task, err := h.Tasks.Create(r.Context(), input.UserID, input.Task)
	if errors.Is(err, repo.ErrInvalidID) {
		JSONValidationError(w, MessageValidationFailed, map[string]string{"user_id": "id"}, http.StatusBadRequest)
		return
	}
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return
	}
	metrics.IncTaskOps(metrics.OpCreate)

	JSON(w, http.StatusOK, CreateTaskResponse{
		Message: "Task created successfully",
		TaskID:  task.ID,
	})
}

// ==========================
// List Tasks For User
// ==========================
func (h *TaskHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to fetch tasks"
	userID := chi.URLParam(r, "id")

	if h.ownerMode() {
		callerID, ok := h.callerID(w, r, failMsg)
		if !ok {
			return
		}
		if callerID != userID {
			JSONError(w, MessageForbidden, http.StatusForbidden)
			return
		}
	}

	tasks, err := h.Tasks.ListByUser(r.Context(), userID)
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	JSON(w, http.StatusOK, tasks)
}

// ==========================
// Update Checked
// ==========================

// UpdateChecked sets isChecked. In open mode it reports success even when no
// task has the id.
func (h *TaskHandler) UpdateChecked(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to update task isChecked status"
	taskID := chi.URLParam(r, "id")

	var input updateTaskInput
	if !decodeJSON(w, r, &input) {
		return
	}

	if h.ownerMode() && !h.ownedTask(w, r, taskID, failMsg) {
		return
	}

	matched, err := h.Tasks.SetChecked(r.Context(), taskID, *input.IsChecked)
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return
	}
	if matched {
		op := metrics.OpUncheck
		if *input.IsChecked {
			op = metrics.OpCheck
		}
		metrics.IncTaskOps(op)
	} else if h.ownerMode() {
		JSONError(w, "Task not found", http.StatusNotFound)
		return
	}

	JSON(w, http.StatusOK, MessageResponse{Message: "Task isChecked status updated successfully"})
}

// ==========================
// Delete Task
// ==========================
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const failMsg = "Failed to delete task"
	taskID := chi.URLParam(r, "id")

	if h.ownerMode() && !h.ownedTask(w, r, taskID, failMsg) {
		return
	}

	err := h.Tasks.Delete(r.Context(), taskID)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Task not found", http.StatusNotFound)
		return
	}
	if err != nil {
		serverError(h.Log, w, r, failMsg, err)
		return
	}
	metrics.IncTaskOps(metrics.OpDelete)

	JSON(w, http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
