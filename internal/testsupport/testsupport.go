package testsupport

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"lapse/internal/config"
	"lapse/internal/session"
)

// StubBinaries replaces PATH with a temp directory containing executable
// stubs for exactly the provided names. Calling it with no names makes every
// external tool unavailable.
func StubBinaries(t testing.TB, names ...string) string {
	t.Helper()

	binDir := filepath.Join(t.TempDir(), "bin")
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range names {
		target := filepath.Join(binDir, name)
		if err := os.WriteFile(target, script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir)
	return binDir
}

// NewConfig produces a config whose paths live in a unique temp directory.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Session.IntervalSeconds = 1
	return &cfg
}

var sessionClock atomic.Int64

// NewSession creates a session under a temp base directory and releases its
// lock on test cleanup. Each call gets a distinct session timestamp.
func NewSession(t testing.TB, total int) *session.Session {
	t.Helper()

	tick := sessionClock.Add(1)
	sess, err := session.New(session.Options{
		BaseDirOverride: t.TempDir(),
		Interval:        0,
		Total:           total,
		Now:             time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Second),
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	t.Cleanup(func() { _ = sess.Close() })
	return sess
}
