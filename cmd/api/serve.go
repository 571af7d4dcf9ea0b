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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"factoryfloor/internal/app"
	"factoryfloor/internal/database"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(ctx context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.close()

	startupChecks(e)
	if err := database.InitMontazaSchema(e.stores.Montaza); err != nil {
		return fmt.Errorf("init montaza schema: %w", err)
	}
	if err := os.MkdirAll(e.cfg.UploadsDir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}

	a := app.New(e.cfg, e.stores, e.log)
	if err := a.Layout.EnsureExists(ctx); err != nil {
		e.log.Error("could not create layout file", zap.String("path", a.Layout.Path()), zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.Hub.Run(ctx)

	srv := &http.Server{
		Addr:              ":" + e.cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		e.log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", e.cfg.AppEnv))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	e.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// startupChecks warns about missing optional data files.
func startupChecks(e *env) {
	for _, p := range []string{e.cfg.MainDBPath, e.cfg.CasDBPath} {
		if _, err := os.Stat(p); err != nil {
			warn("database file %q is missing", p)
		}
	}
	if e.stores.Cas == nil {
		warn("automatic worker assignment and completion need the time clock database")
	}
}
