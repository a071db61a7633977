// Package passreset implements the in-memory password reset flow: issuing
// single-use tokens, mailing reset links, and redeeming tokens exactly once.
package passreset
