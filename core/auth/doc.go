// Package auth resolves request identity for the panel backend.
//
// The session middleware attaches a RawSession to the request context when
// the presented token matches a live session. Handlers that require identity
// call Resolver.Resolve, which hydrates the full user record (including
// group permission flags) from the relational store and yields an Identity.
// Anonymous endpoints simply never resolve, skipping the database lookup.
package auth
