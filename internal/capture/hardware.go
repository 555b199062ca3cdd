package capture

import (
	"context"
	"fmt"
	"strconv"
)

// hardwareCapturer shells out to the configured camera tool (rpicam-still by
// default) for a fixed-resolution JPEG. The shot timeout is passed to the
// tool itself so a stalled sensor cannot block the loop.
type hardwareCapturer struct {
	binary        string
	width         int
	height        int
	quality       int
	shotTimeoutMS int
	exec          Executor
}

func newHardwareCapturer(settings Settings, exec Executor) *hardwareCapturer {
	return &hardwareCapturer{
		binary:        settings.CameraBinary,
		width:         settings.Width,
		height:        settings.Height,
		quality:       settings.Quality,
		shotTimeoutMS: settings.ShotTimeoutMS,
		exec:          exec,
	}
}

func (c *hardwareCapturer) Name() string { return "hardware" }

func (c *hardwareCapturer) Capture(ctx context.Context, seq int, path string) error {
	args := []string{
		"--nopreview",
		"--width", strconv.Itoa(c.width),
		"--height", strconv.Itoa(c.height),
		"--quality", strconv.Itoa(c.quality),
		"--timeout", strconv.Itoa(c.shotTimeoutMS),
		"--output", path,
	}
	if err := c.exec.Run(ctx, c.binary, args); err != nil {
		return fmt.Errorf("camera shot %d: %w", seq, err)
	}
	return nil
}
