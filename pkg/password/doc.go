// Package password hashes and verifies panel account passwords using
// argon2id in PHC string format.
package password
