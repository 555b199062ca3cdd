package render

import (
	"context"
	"strings"
	"testing"
)

type argRecorder struct {
	binary string
	args   []string
}

func (r *argRecorder) Run(_ context.Context, binary string, args []string) error {
	r.binary = binary
	r.args = args
	return nil
}

func TestFFmpegEncoderArgs(t *testing.T) {
	rec := &argRecorder{}
	enc := newFFmpegEncoder(Settings{FFmpegBinary: "ffmpeg", FrameRate: 30, Preset: "medium"}, rec)

	if err := enc.Encode(context.Background(), "/data/s/video_frames", 7, "/data/s/video/out.mp4"); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if rec.binary != "ffmpeg" {
		t.Fatalf("unexpected binary: %q", rec.binary)
	}
	got := strings.Join(rec.args, " ")
	for _, fragment := range []string{
		"-framerate 30",
		"-start_number 1",
		"-i /data/s/video_frames/frame_%04d.jpg",
		"-frames:v 7",
		"-c:v libx264",
		"-preset medium",
		"-pix_fmt yuv420p",
	} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("missing %q in args: %q", fragment, got)
		}
	}
	if rec.args[len(rec.args)-1] != "/data/s/video/out.mp4" {
		t.Fatalf("expected output path last, got %v", rec.args)
	}
}
