package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lapse/internal/config"
	"lapse/internal/status"
	"lapse/internal/testsupport"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	// Point at a nonexistent config so the user's real file never leaks in.
	args = append([]string{"--config", filepath.Join(t.TempDir(), "config.toml")}, args...)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigInitWritesLoadableSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output %q should mention %q", out, target)
	}

	cfg, _, exists, err := config.Load(target)
	if err != nil {
		t.Fatalf("load written sample: %v", err)
	}
	if !exists {
		t.Fatal("sample file missing after init")
	}
	if cfg.Session.Frames != config.Default().Session.Frames {
		t.Fatalf("sample frames = %d, want default", cfg.Session.Frames)
	}
}

func TestConfigInitRefusesToOverwrite(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCLI(t, "config", "init", "--path", target); err != nil {
		t.Fatalf("first init: %v", err)
	}
	if _, err := runCLI(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	if _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("init with --overwrite: %v", err)
	}
}

func TestStatusCommandWithoutSession(t *testing.T) {
	out, err := runCLI(t, "status", "--base-dir", t.TempDir())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "No session has run yet.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestStatusCommandRendersRecord(t *testing.T) {
	base := t.TempDir()
	publisher := status.NewPublisher(filepath.Join(base, "timelapse_status.json"))
	rec := status.Record{
		Status:   status.StateDone,
		Captured: 10,
		Total:    10,
		Folder:   filepath.Join(base, "timelapse_20260826_120000"),
		Video:    "video/timelapse_20260826_120000.mp4",
	}
	if err := publisher.Publish(rec); err != nil {
		t.Fatalf("publish fixture: %v", err)
	}

	out, err := runCLI(t, "status", "--base-dir", base)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, fragment := range []string{"done", "10 / 10", rec.Video} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("output missing %q:\n%s", fragment, out)
		}
	}

	jsonOut, err := runCLI(t, "status", "--base-dir", base, "--json")
	if err != nil {
		t.Fatalf("status --json: %v", err)
	}
	if !strings.Contains(jsonOut, `"status": "done"`) {
		t.Fatalf("json output missing status field:\n%s", jsonOut)
	}
	if !strings.Contains(jsonOut, `"error": null`) {
		t.Fatalf("json output must carry a null error field:\n%s", jsonOut)
	}
}

func TestHistoryCommandWithoutDatabase(t *testing.T) {
	out, err := runCLI(t, "history", "--base-dir", t.TempDir())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No sessions recorded.") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunCommandDegradedSessionCompletes(t *testing.T) {
	testsupport.StubBinaries(t) // no external tools anywhere on PATH
	base := t.TempDir()

	out, err := runCLI(t, "run", "0", "3", "--base-dir", base)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Session done: 3/3 frames captured") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "Warning: ffmpeg not available") {
		t.Fatalf("degraded run should report the missing encoder:\n%s", out)
	}

	rec, err := status.Read(filepath.Join(base, "timelapse_status.json"))
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if rec.Status != status.StateDone || rec.Captured != 3 || rec.Video != "" {
		t.Fatalf("record = %+v, want done 3/3 without video", rec)
	}

	frames, err := filepath.Glob(filepath.Join(rec.Folder, "video_frames", "frame_*.jpg"))
	if err != nil {
		t.Fatalf("glob frames: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("frame files = %d, want 3", len(frames))
	}

	if _, err := os.Stat(filepath.Join(base, "lapse_history.db")); err != nil {
		t.Fatalf("history database missing: %v", err)
	}
}

func TestRunCommandRejectsBadArguments(t *testing.T) {
	if _, err := runCLI(t, "run", "abc"); err == nil {
		t.Fatal("non-numeric interval should be rejected")
	}
	if _, err := runCLI(t, "run", "5", "0"); err == nil {
		t.Fatal("zero frame count should be rejected")
	}
	if _, err := runCLI(t, "run", "-1"); err == nil {
		t.Fatal("negative interval should be rejected")
	}
}
