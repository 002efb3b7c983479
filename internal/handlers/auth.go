package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/crucial707/taskboard/internal/auth"
	"github.com/crucial707/taskboard/internal/repo"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  repo.UserRepo
	Hasher *auth.Hasher
	Tokens *auth.TokenService
	Log    *zap.Logger
}

// bcrypt only reads the first 72 bytes of a password.
const maxPasswordBytes = 72

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"user_id"`
	JWTToken string `json:"jwtToken"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decodeJSON(w, r, &input) {
		return
	}
	if len(input.Password) > maxPasswordBytes {
		JSONValidationError(w, MessageValidationFailed, map[string]string{"password": "max"}, http.StatusBadRequest)
		return
	}

	hash, err := h.Hasher.Hash(input.Password)
	if err != nil {
		serverError(h.Log, w, r, "Registration failed", err)
		return
	}

	// The unique username index decides races between concurrent registrations.
	if _, err := h.Users.Create(r.Context(), input.Username, hash); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			JSONError(w, "Username already exists", http.StatusBadRequest)
			return
		}
		serverError(h.Log, w, r, "Registration failed", err)
		return
	}

	JSON(w, http.StatusOK, MessageResponse{Message: "User registered successfully"})
}

// ==========================
// Login
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentials
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if errors.Is(err, repo.ErrNotFound) {
		JSONError(w, "Invalid User", http.StatusBadRequest)
		return
	}
	if err != nil {
		serverError(h.Log, w, r, "Login failed", err)
		return
	}

	if err := h.Hasher.Compare(user.PasswordHash, input.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			JSONError(w, "Invalid Password", http.StatusBadRequest)
			return
		}
		serverError(h.Log, w, r, "Login failed", err)
		return
	}

	token, err := h.Tokens.Issue(user.Username)
	if err != nil {
		serverError(h.Log, w, r, "Login failed", err)
		return
	}

	JSON(w, http.StatusOK, LoginResponse{
		Message:  "Login Success!",
		UserID:   user.ID,
		JWTToken: token,
	})
}
