package notify_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lapse/internal/config"
	"lapse/internal/notify"
	"lapse/internal/status"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notify.NewService(&cfg)
	rec := status.Record{Status: status.StateDone, Captured: 10, Total: 10}
	if err := svc.NotifySessionFinished(context.Background(), "timelapse_20260826_120000", rec); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsRecords(t *testing.T) {
	tests := []struct {
		name           string
		rec            status.Record
		expectTitle    string
		expectContains []string
		expectPriority string
	}{
		{
			name:           "done with video",
			rec:            status.Record{Status: status.StateDone, Captured: 10, Total: 10, Video: "video/timelapse_x.mp4"},
			expectTitle:    "Lapse - Complete",
			expectContains: []string{"Captured 10/10 frames", "Video: video/timelapse_x.mp4"},
		},
		{
			name:           "stopped without encoder",
			rec:            status.Record{Status: status.StateStopped, Captured: 3, Total: 10}.WithError("ffmpeg not available"),
			expectTitle:    "Lapse - Stopped",
			expectContains: []string{"Stopped after 3/10 frames", "Warning: ffmpeg not available"},
		},
		{
			name:           "capture failure",
			rec:            status.Record{Status: status.StateError, Captured: 4, Total: 10}.WithError("Failed to capture frame 5"),
			expectTitle:    "Lapse - Error",
			expectContains: []string{"failed: Failed to capture frame 5"},
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotTitle, gotPriority, gotBody string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotTitle = r.Header.Get("Title")
				gotPriority = r.Header.Get("Priority")
				body, _ := io.ReadAll(r.Body)
				gotBody = string(body)
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			svc := notify.NewService(&cfg)

			if err := svc.NotifySessionFinished(context.Background(), "timelapse_20260826_120000", tc.rec); err != nil {
				t.Fatalf("NotifySessionFinished: %v", err)
			}
			if gotTitle != tc.expectTitle {
				t.Fatalf("title = %q, want %q", gotTitle, tc.expectTitle)
			}
			if gotPriority != tc.expectPriority {
				t.Fatalf("priority = %q, want %q", gotPriority, tc.expectPriority)
			}
			for _, fragment := range tc.expectContains {
				if !strings.Contains(gotBody, fragment) {
					t.Fatalf("body %q missing %q", gotBody, fragment)
				}
			}
		})
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notify.NewService(&cfg)

	err := svc.NotifySessionStarted(context.Background(), "timelapse_20260826_120000", 10)
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error %q should mention status code", err)
	}
}
