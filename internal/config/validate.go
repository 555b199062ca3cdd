package config

import (
	"errors"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSession(); err != nil {
		return err
	}
	if err := c.validateCapture(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSession() error {
	if c.Session.IntervalSeconds < 1 {
		return errors.New("session.interval_seconds must be at least 1")
	}
	if c.Session.Frames < 1 {
		return errors.New("session.frames must be at least 1")
	}
	return nil
}

func (c *Config) validateCapture() error {
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return errors.New("capture.width and capture.height must be positive")
	}
	if c.Capture.Quality < 1 || c.Capture.Quality > 100 {
		return errors.New("capture.quality must be between 1 and 100")
	}
	if c.Capture.ShotTimeoutMS <= 0 {
		return errors.New("capture.shot_timeout_ms must be positive")
	}
	if c.Capture.ExecTimeoutSeconds <= 0 {
		return errors.New("capture.exec_timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateRender() error {
	if strings.TrimSpace(c.Render.FFmpegBinary) == "" {
		return errors.New("render.ffmpeg_binary must be set")
	}
	if c.Render.FrameRate <= 0 {
		return errors.New("render.frame_rate must be positive")
	}
	if strings.TrimSpace(c.Render.Preset) == "" {
		return errors.New("render.preset must be set")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.NtfyTopic != "" && c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive when a topic is configured")
	}
	return nil
}
