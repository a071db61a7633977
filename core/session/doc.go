// Package session manages login sessions for the panel backend.
//
// Records live in an embedded bbolt database so they survive process
// restarts without a standing database dependency. The Manager creates,
// fetches and deletes sessions and runs a periodic background sweep that
// evicts expired records; readers must treat an expired-but-unswept session
// as invalid.
//
// Session ids are short random alphanumeric strings generated inside the
// create transaction with an existence probe, so ids never collide among
// live sessions.
package session
