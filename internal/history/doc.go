// Package history keeps a per-base-directory SQLite record of past session
// outcomes. Recording is best effort: a history failure never fails a
// session.
package history
