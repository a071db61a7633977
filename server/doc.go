// Package server provides the panel's HTTP listener: an http.Server wrapper
// with env-driven configuration, optional TLS, and graceful shutdown wired
// to context cancellation.
package server
