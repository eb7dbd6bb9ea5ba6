// Package server manages the HTTP server lifecycle: non-blocking start,
// graceful shutdown, and SIGINT/SIGTERM handling. Manager wraps
// net/http.Server with an asynchronous error channel so callers can monitor
// serve failures without blocking.
package server
