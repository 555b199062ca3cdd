// Package session creates the per-invocation output layout and owns the
// cross-session lock. Exactly one session runs per invocation; a second
// concurrent session against the same base directory is rejected.
package session
