package capture_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lapse/internal/capture"
	"lapse/internal/logging"
	"lapse/internal/services"
	"lapse/internal/testsupport"
)

type scriptedCapturer struct {
	name  string
	write bool
	err   error
	calls int
}

func (c *scriptedCapturer) Name() string { return c.name }

func (c *scriptedCapturer) Capture(ctx context.Context, _ int, path string) error {
	c.calls++
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.write {
		if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
			return err
		}
	}
	return c.err
}

func TestSelectPrefersHardware(t *testing.T) {
	testsupport.StubBinaries(t, "rpicam-still", "convert")
	cap := capture.Select(capture.Settings{CameraBinary: "rpicam-still", PlaceholderBinary: "convert"})
	if cap.Name() != "hardware" {
		t.Fatalf("expected hardware variant, got %q", cap.Name())
	}
}

func TestSelectFallsBackToPlaceholder(t *testing.T) {
	testsupport.StubBinaries(t, "convert")
	cap := capture.Select(capture.Settings{CameraBinary: "rpicam-still", PlaceholderBinary: "convert"})
	if cap.Name() != "placeholder" {
		t.Fatalf("expected placeholder variant, got %q", cap.Name())
	}
}

func TestSelectFallsBackToBlank(t *testing.T) {
	testsupport.StubBinaries(t)
	cap := capture.Select(capture.Settings{CameraBinary: "rpicam-still", PlaceholderBinary: "convert"})
	if cap.Name() != "blank" {
		t.Fatalf("expected blank variant, got %q", cap.Name())
	}

	path := filepath.Join(t.TempDir(), "frame_0001.jpg")
	if err := cap.Capture(context.Background(), 1, path); err != nil {
		t.Fatalf("blank capture: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected frame file: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected empty placeholder file, got %d bytes", info.Size())
	}
}

func TestStageFatalWhenNoFileProduced(t *testing.T) {
	stage := capture.NewStage(&scriptedCapturer{name: "fake"}, time.Second, logging.NewNop())
	err := stage.Capture(context.Background(), 4, filepath.Join(t.TempDir(), "frame_0004.jpg"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestStageSucceedsWhenFileExistsDespiteToolError(t *testing.T) {
	cap := &scriptedCapturer{name: "fake", write: true, err: errors.New("noisy exit")}
	stage := capture.NewStage(cap, time.Second, logging.NewNop())
	if err := stage.Capture(context.Background(), 1, filepath.Join(t.TempDir(), "frame_0001.jpg")); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestStageIgnoresSessionCancellation(t *testing.T) {
	// An already-cancelled session context must not abort the in-flight
	// shot; interruption is observed between iterations.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cap := &scriptedCapturer{name: "fake", write: true}
	stage := capture.NewStage(cap, time.Second, logging.NewNop())
	if err := stage.Capture(ctx, 1, filepath.Join(t.TempDir(), "frame_0001.jpg")); err != nil {
		t.Fatalf("expected capture to complete, got %v", err)
	}
	if cap.calls != 1 {
		t.Fatalf("expected one capture call, got %d", cap.calls)
	}
}
