// Package httpserver constructs the invoicer HTTP server.
package httpserver

import (
	"net/http"
	"time"
)

// New wraps the router in a server with bounded header reads and idle
// connections. Per-request deadlines come from the Timeout middleware, not
// from server-level read/write timeouts, so slow webhook bodies are bounded
// by handler time rather than cut mid-read.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
