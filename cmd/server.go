package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Job is a background task that runs until its context is done.
type Job func(ctx context.Context) error

const shutdownTimeout = 10 * time.Second

// APIServer listens on port and serves handler next to jobs until ctx is
// cancelled or any of them fails.
func APIServer(ctx context.Context, handler http.Handler, port string, jobs []Job, log *zap.Logger) error {
	ln, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return fmt.Errorf("listen on :%s: %w", port, err)
	}
	return Serve(ctx, ln, handler, jobs, log)
}

// Serve is APIServer on an existing listener. On return the server has shut
// down and every job has exited.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, jobs []Job, log *zap.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          zap.NewStdLog(log),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("HTTP server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http: %w", err)
		}
		return nil
	})

	for _, job := range jobs {
		g.Go(func() error { return job(gctx) })
	}

	return g.Wait()
}
