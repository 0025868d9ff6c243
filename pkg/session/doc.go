// Package session persists per-session conversation state to disk as
// JSON files, one pair of files per session key.
//
// Invariants:
// - Keys never escape the base directory.
// - Writes are atomic per file; concurrent access to one key serializes.
// - Loading a session that was never saved yields a fresh empty context.
package session
