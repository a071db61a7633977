// Package pg manages the panel's PostgreSQL connectivity: a pgx connection
// pool with retry-on-connect, embedded goose schema migrations, and a
// readiness probe.
//
// Connection establishment retries with exponential backoff so the panel can
// start alongside its database. Migrations ship embedded in the binary and
// are applied at startup; goose speaks database/sql, so the pool is bridged
// through the pgx stdlib adapter for the duration of the migration run.
package pg
