package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hatim-app-go/internal/app"
	"hatim-app-go/pkg/logger"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

func ServeCmd(log logger.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the completion trigger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(cfg, log)
			if err != nil {
				log.Critical("app: init failed", "err", err)
				return err
			}
			application.StartBackground()

			return serve(ctx, application, log)
		},
	}
}

func serve(ctx context.Context, application *app.App, log logger.Logger) error {
	srv := application.HTTPServer()
	log.Info("http: listening", "addr", srv.Addr)

	serverErrCh := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	var failures []error
	select {
	case <-ctx.Done():
		log.Info("app: shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			log.Critical("http: server failed", "addr", srv.Addr, "err", err)
			failures = append(failures, err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http: graceful shutdown failed", "err", err)
		failures = append(failures, err)
	}

	if err := application.Close(); err != nil {
		log.Error("app: close failed", "err", err)
		failures = append(failures, err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("serve: %w", errors.Join(failures...))
	}
	log.Info("app: stopped")
	return nil
}
