package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"todoapp/internal/handlers"
	"todoapp/internal/logging"
	"todoapp/internal/store"
)

const shutdownTimeout = 10 * time.Second

var (
	servePort   string
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the todo API server",
	Long: `Run the todo API server.

The database is opened (and migrated) before the listener starts; if it
cannot be opened the command exits with an error.

Examples:
  todoapp serve
  todoapp serve --port 8080 --db ./data/todos.db`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (default 3000)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "SQLite database path")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logging.NewFromConfig(cfg.LogLevel, cfg.LogFormat)
	if cfg.File != "" {
		logger.Info("loaded config", "file", cfg.File)
	}

	if cfg.DBPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	defer s.Close()
	logger.Info("connected to database", "path", cfg.DBPath)

	h := handlers.New(s, logger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", "http://localhost"+srv.Addr, "api", "http://localhost"+srv.Addr+"/api/todos")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
