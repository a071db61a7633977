// Package middleware provides the HTTP middleware chain for the panel API:
// session token extraction, request ID generation, and request logging.
//
// All middleware follows the standard func(http.Handler) http.Handler shape
// and composes with any stdlib-compatible router.
package middleware
