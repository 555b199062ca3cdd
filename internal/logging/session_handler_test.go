package logging_test

import (
	"strings"
	"testing"
	"time"

	"log/slog"

	"lapse/internal/logging"
)

func TestSessionHandlerWritesBracketedTimestampLines(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(logging.NewSessionHandler(&buf))

	logger.Info("Captured frame", logging.Int("frame", 3), logging.Int("total", 10))

	line := strings.TrimSuffix(buf.String(), "\n")
	if !strings.HasPrefix(line, "[") {
		t.Fatalf("expected bracketed timestamp prefix, got %q", line)
	}
	closing := strings.Index(line, "] ")
	if closing < 0 {
		t.Fatalf("expected closing bracket, got %q", line)
	}
	stamp := line[1:closing]
	if _, err := time.Parse(logging.SessionLogTimeFormat, stamp); err != nil {
		t.Fatalf("timestamp %q does not match contract format: %v", stamp, err)
	}
	rest := line[closing+2:]
	if rest != "Captured frame frame=3 total=10" {
		t.Fatalf("unexpected message body: %q", rest)
	}
}

func TestSessionHandlerSkipsDebugRecords(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(logging.NewSessionHandler(&buf))

	logger.Debug("noise")
	if buf.Len() != 0 {
		t.Fatalf("expected debug record to be suppressed, got %q", buf.String())
	}
}

func TestSessionHandlerHidesRunID(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(logging.NewSessionHandler(&buf))

	logger.Info("Session started", logging.String(logging.FieldRunID, "abc"), logging.String("folder", "/tmp/x"))
	if strings.Contains(buf.String(), "run_id") {
		t.Fatalf("run_id leaked into session log: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "folder=/tmp/x") {
		t.Fatalf("expected folder attr, got %q", buf.String())
	}
}
