// Package httpserver builds the *http.Server for cmd/server.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// WriteTimeout leaves headroom over the 30s handler timeout so a timed-out
// handler can still write its response.
const WriteTimeout = 35 * time.Second

// New returns a server for handler on addr. Server-level errors (TLS
// handshakes, malformed requests) go to logger at error level.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	if logger != nil {
		srv.ErrorLog = slog.NewLogLogger(logger.Handler(), slog.LevelError)
	}
	return srv
}
