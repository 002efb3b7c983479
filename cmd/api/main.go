package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/crucial707/taskboard/internal/config"
	"github.com/crucial707/taskboard/internal/db"
	"github.com/crucial707/taskboard/internal/logger"
)

const connectTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	// Connect to database FIRST
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	store, err := db.Connect(ctx, cfg)
	cancel()
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	log.Info("connected to database")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.Close(ctx); err != nil {
			log.Warn("closing database", zap.Error(err))
		}
	}()

	router, err := newRouter(store, cfg, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", srv.Addr), zap.String("authz_mode", cfg.AuthzMode))
		errCh <- srv.ListenAndServe()
	}()

	// Start server LAST; block until it fails or a signal arrives.
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-stop.Done():
	}

	log.Info("shutting down")
	ctx, cancel = context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
