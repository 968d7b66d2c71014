package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meur/biblioteca/internal/api"
	"github.com/meur/biblioteca/internal/config"
	"github.com/meur/biblioteca/internal/logger"
	"github.com/meur/biblioteca/internal/storage"
	"github.com/meur/biblioteca/web"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	// Flags override the environment
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Front-end directory (default: embedded bundle)")
	flag.Parse()

	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	defer log.Sync()

	store, err := storage.New(cfg.DBPath, log)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.String("path", cfg.DBPath), zap.Error(err))
	}

	var static fs.FS = web.Public()
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	handler := api.New(store, log, api.Options{
		Static:            static,
		HideStorageErrors: cfg.HideStorageErrors,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serveErr := serve(srv, quit, log)
	if serveErr != nil {
		log.Error("Server failed", zap.Error(serveErr))
	}

	if err := store.Close(); err != nil {
		log.Error("Failed to close database", zap.Error(err))
	} else {
		log.Info("Database connection closed")
	}

	if serveErr != nil {
		log.Sync()
		os.Exit(1)
	}
}

// serve runs srv until it fails to listen or a signal arrives on quit, then
// shuts it down. The caller owns cleanup of everything else.
func serve(srv *http.Server, quit <-chan os.Signal, log *zap.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server running", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	return nil
}
