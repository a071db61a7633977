// Package user defines the panel user record and its Postgres-backed store.
// A PanelUser is the account row joined with its group permission flags and
// primary email; the auth resolver hydrates one per authenticated request.
package user
