package render

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"lapse/internal/session"
)

// ffmpegEncoder shells out to ffmpeg with a fixed codec, pixel format, and
// quality preset. Frames are consumed in sequence-number order via the
// zero-padded input pattern.
type ffmpegEncoder struct {
	binary    string
	frameRate int
	preset    string
	exec      Executor
}

func newFFmpegEncoder(settings Settings, exec Executor) *ffmpegEncoder {
	return &ffmpegEncoder{
		binary:    settings.FFmpegBinary,
		frameRate: settings.FrameRate,
		preset:    settings.Preset,
		exec:      exec,
	}
}

func (e *ffmpegEncoder) Encode(ctx context.Context, framesDir string, frames int, output string) error {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-framerate", strconv.Itoa(e.frameRate),
		"-start_number", "1",
		"-i", filepath.Join(framesDir, session.FramePattern),
		"-frames:v", strconv.Itoa(frames),
		"-c:v", "libx264",
		"-preset", e.preset,
		"-pix_fmt", "yuv420p",
		output,
	}
	if err := e.exec.Run(ctx, e.binary, args); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) error
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if detail := strings.TrimSpace(string(output)); detail != "" {
			return fmt.Errorf("%w: %s", err, detail)
		}
		return err
	}
	return nil
}
