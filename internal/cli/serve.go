package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/loggraph/internal/adapters/http/api"
	"github.com/okian/loggraph/internal/adapters/repository"
	"github.com/okian/loggraph/pkg/logger"
	"github.com/okian/loggraph/pkg/tracing"
)

// HTTP server timeout constants.
const (
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve uploads, timelines and leaderboards over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if addr != "" {
				e.cfg.Addr = addr
			}

			shutdownTracing, err := tracing.Setup(ctx, "loggraph", e.cfg.OTelEndpoint)
			if err != nil {
				return err
			}
			defer func() { _ = shutdownTracing(context.Background()) }()

			var store repository.Store
			if e.cfg.DBPath != "" {
				if store, err = repository.OpenSQLite(e.cfg.DBPath); err != nil {
					return err
				}
			}
			svc := e.newService(store)
			defer func() { _ = svc.Close() }()

			srv := newHTTPServer(e.cfg.Addr, api.NewServer(svc, api.WithCanvas(e.canvas())).Router())
			return run(ctx, e.log, srv)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func newHTTPServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, log logger.Logger, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(ctx, "shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
		return err
	}
	log.Info(ctx, "server stopped")
	return nil
}
