package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crucial707/taskboard/internal/auth"
	"github.com/crucial707/taskboard/internal/config"
	"github.com/crucial707/taskboard/internal/handlers"
	"github.com/crucial707/taskboard/internal/middleware"
	"github.com/crucial707/taskboard/internal/repo"
)

const readyTimeout = 2 * time.Second

// newRouter wires every route against store. Task and user routes share the
// {id} param name so that public and guarded methods live on the same node.
func newRouter(store repo.Store, cfg config.Config, log *zap.Logger) (http.Handler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTTTL())

	authHandler := &handlers.AuthHandler{Users: store.Users(), Hasher: hasher, Tokens: tokens, Log: log}
	userHandler := &handlers.UserHandler{Users: store.Users(), Log: log}
	taskHandler := &handlers.TaskHandler{Tasks: store.Tasks(), Users: store.Users(), Mode: cfg.AuthzMode, Log: log}
	guard := middleware.JWTMiddleware(tokens)
	owner := cfg.AuthzMode == config.AuthzOwner

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	// ==========================
	// Probes
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Warn("readiness check failed", zap.Error(err))
			handlers.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		handlers.JSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Auth
	// ==========================
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)

	// ==========================
	// Reads (public unless owner mode)
	// ==========================
	r.Group(func(r chi.Router) {
		if owner {
			r.Use(guard)
		}
		r.Get("/users", userHandler.ListUsers)
		r.Get("/users/", userHandler.ListUsers)
		r.Get("/tasks/{id}", taskHandler.ListByUser)
	})

	// ==========================
	// Task mutations
	// ==========================
	r.Group(func(r chi.Router) {
		r.Use(guard)
		r.Post("/tasks", taskHandler.Create)
		r.Patch("/tasks/{id}", taskHandler.UpdateChecked)
		r.Delete("/tasks/{id}", taskHandler.Delete)
	})

	return r, nil
}
