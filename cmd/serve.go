package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	httpapi "task-tracker.com/task-tracker/internal/http"
	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/internal/tokens"
	"task-tracker.com/task-tracker/internal/workspace"
)

// reapInterval is how often workspaces of expired sessions are released.
const reapInterval = time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task tracker HTTP API. Each signed-in client gets its own live view of the task collection.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		cfg, logger := rt.cfg, rt.logger

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := rt.ping(ctx); err != nil {
			return err
		}

		secret := cfg.JWTSecret
		if secret == "" {
			secret = uuid.NewString()
			logger.Warn("JWT_SECRET not set, tokens will not survive a restart")
		}

		accounts := repository.NewAccountRepository(rt.db)
		manager := workspace.NewManager(workspace.Deps{
			NewAuth:     accounts.NewAuthClient,
			Profiles:    repository.NewProfileRepository(rt.db),
			Tasks:       repository.NewTaskRepository(rt.db, rt.feed, logger),
			ToastTTL:    cfg.ToastTTL(),
			BulkWorkers: cfg.BulkWorkers,
		}, logger)

		go manager.Run(ctx, reapInterval)

		e := echo.New()
		e.HideBanner = true
		handler := httpapi.NewHandler(manager, tokens.NewIssuer(secret, cfg.TokenTTL()), logger)
		httpapi.Register(e, handler, cfg.RateLimit)

		go func() {
			logger.Infow("HTTP server listening", "addr", cfg.AppURL())
			if err := e.Start(cfg.AppURL()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorw("server stopped", "error", err)
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		_ = e.Shutdown(shutdownCtx)

		manager.CloseAll()

		logger.Info("HTTP server and workspaces shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
