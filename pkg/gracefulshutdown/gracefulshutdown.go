// Package gracefulshutdown ties the process lifetime to SIGINT/SIGTERM.
//
// SubscribeForShutdown must be called once at startup. The base context it
// exposes is cancelled when a signal arrives, which stops background workers;
// WaitForShutdown then drains the HTTP server.
package gracefulshutdown

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
)

const shutdownTimeout = 20 * time.Second

var (
	baseCtx      context.Context
	cancelBase   context.CancelFunc
	shuttingDown atomic.Bool
	once         sync.Once
)

func init() {
	baseCtx, cancelBase = context.WithCancel(context.Background())
}

// SubscribeForShutdown starts listening for termination signals.
func SubscribeForShutdown() {
	once.Do(func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			sig := <-signals
			slog.Info("shutdown signal received", "signal", sig.String())
			shuttingDown.Store(true)
			cancelBase()
		}()
	})
}

// GetServerBaseContext returns the context cancelled on shutdown.
func GetServerBaseContext() context.Context {
	return baseCtx
}

// IsShuttingDown reports whether a termination signal was received.
func IsShuttingDown() bool {
	return shuttingDown.Load()
}

// HealthCheckMiddleware fails health probes once shutdown has started so
// load balancers stop routing traffic before the listener closes.
func HealthCheckMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsShuttingDown() {
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}
		if next != nil {
			next.ServeHTTP(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

// WaitForShutdown blocks until the base context is cancelled and then shuts
// srv down, waiting for in-flight requests.
func WaitForShutdown(srv *http.Server) {
	<-baseCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
		return
	}
	slog.Info("server stopped")
}
