// Package api implements the panel's authentication HTTP endpoints: login,
// logout, and the password reset flow (request, verify, submit).
package api
