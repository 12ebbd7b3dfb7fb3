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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/api"
	"github.com/yourname/focustracker/internal/config"
	"github.com/yourname/focustracker/internal/ratelimit"
	"github.com/yourname/focustracker/internal/storage"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "focustracker",
	Short: "Focus-tracking backend server",
	Long: `focustracker serves the focus-session API: clients start goal-directed
sessions, report activity observations, and fetch aggregate summaries.`,
	RunE: runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("focustracker %s (%s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := cmd.Context()
	store, err := storage.NewStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if cfg.RedisURL != "" {
		client, err := ratelimit.Connect(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		limiter = ratelimit.NewRedisLimiter(client, cfg.ActivityRateLimitMin)
		logger.Infof("activity rate limiting enabled: %d/min per session", cfg.ActivityRateLimitMin)
	}

	app := api.NewApp(logger, store, limiter)
	router := api.NewRouter(app, api.Diagnostics{
		Backend:         cfg.StorageBackend,
		DatabaseURLSet:  cfg.DatabaseURL != "",
		DatabaseNameSet: cfg.DatabaseName != "",
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server listening on %s (backend=%s, env=%s)", srv.Addr, cfg.StorageBackend, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Errorf("server failure: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	if err := store.Close(); err != nil {
		logger.Errorf("store close: %v", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
