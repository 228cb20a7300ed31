package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/fleetwire/fleetwire/pkg/gracefulshutdown"
)

// New builds the HTTP server. Inbound provider callbacks carry small bodies,
// so the read timeout stays short.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return gracefulshutdown.GetServerBaseContext()
		},
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}
}
