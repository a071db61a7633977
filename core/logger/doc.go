// Package logger builds slog loggers from environment configuration and
// provides typed attribute helpers used across the panel backend.
//
// Helpers follow the empty-Attr pattern: zero values produce an attribute
// that slog drops, so callers never need explicit nil checks:
//
//	log.Warn("session lookup failed", logger.Error(err))
package logger
