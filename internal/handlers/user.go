package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/crucial707/taskboard/internal/models"
	"github.com/crucial707/taskboard/internal/repo"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users repo.UserRepo
	Log   *zap.Logger
}

// ==========================
// List Users
// ==========================
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		serverError(h.Log, w, r, "Failed to fetch users", err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	JSON(w, http.StatusOK, users)
}
