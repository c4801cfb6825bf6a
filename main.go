package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/xiaot623/gogo/ibu/internal/adapter/llm"
	"github.com/xiaot623/gogo/ibu/internal/config"
	"github.com/xiaot623/gogo/ibu/internal/knowledge"
	"github.com/xiaot623/gogo/ibu/internal/metrics"
	"github.com/xiaot623/gogo/ibu/internal/prompt"
	"github.com/xiaot623/gogo/ibu/internal/repository"
	"github.com/xiaot623/gogo/ibu/internal/service"
	handler "github.com/xiaot623/gogo/ibu/internal/transport/http"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ibu",
		Short:        "Resume question answering API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newHistoryCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if cfg.Debug {
		level = slog.LevelDebug
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func runServe(ctx context.Context) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	logger.Info("starting "+cfg.AppName,
		"port", cfg.HTTPPort,
		"database", cfg.DatabaseURL,
		"model", cfg.OpenRouterModel,
		"resume", cfg.ResumePath,
	)

	// Load the knowledge document and build the system instruction once.
	doc, err := knowledge.Load(cfg.ResumePath)
	if err != nil {
		logger.Error("failed to load knowledge document", "error", err)
		return fmt.Errorf("load knowledge document: %w", err)
	}
	instruction := prompt.Build(doc)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		return err
	}
	defer db.Close()

	// Initialize metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize service
	svc := service.New(llm.NewCompleter(cfg, logger), db, instruction,
		service.WithLogger(logger),
		service.WithMetrics(metrics.New(reg)),
	)

	server := handler.NewServer(svc, cfg, reg, logger)

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("API started", "port", cfg.HTTPPort)

	// Wait for interrupt signal
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		return err
	case <-sigCtx.Done():
	}

	logger.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown server gracefully", "error", err)
	}

	logger.Info("stopped")
	return nil
}
