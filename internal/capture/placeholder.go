package capture

import (
	"context"
	"fmt"
	"time"
)

// placeholderCapturer renders a synthetic frame via ImageMagick, overlaying
// the sequence number and wall-clock time, for environments without camera
// hardware.
type placeholderCapturer struct {
	binary string
	width  int
	height int
	exec   Executor
	now    func() time.Time
}

func newPlaceholderCapturer(settings Settings, exec Executor) *placeholderCapturer {
	return &placeholderCapturer{
		binary: settings.PlaceholderBinary,
		width:  settings.Width,
		height: settings.Height,
		exec:   exec,
		now:    time.Now,
	}
}

func (c *placeholderCapturer) Name() string { return "placeholder" }

func (c *placeholderCapturer) Capture(ctx context.Context, seq int, path string) error {
	label := fmt.Sprintf("Frame %04d\n%s", seq, c.now().Format("2006-01-02 15:04:05"))
	args := []string{
		"-size", fmt.Sprintf("%dx%d", c.width, c.height),
		"xc:gray25",
		"-fill", "white",
		"-gravity", "center",
		"-pointsize", "72",
		"-annotate", "0", label,
		path,
	}
	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return fmt.Errorf("placeholder frame %d: %w", seq, err)
	}
	return nil
}
