package capture

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lapse/internal/config"
	"lapse/internal/deps"
	"lapse/internal/fileutil"
	"lapse/internal/logging"
	"lapse/internal/services"
)

// Capturer produces one frame file per invocation.
type Capturer interface {
	// Capture writes the frame for the 1-based sequence number to path.
	Capture(ctx context.Context, seq int, path string) error
	// Name identifies the capability variant for logs and status output.
	Name() string
}

// Settings carries everything needed to build the capture capability chain.
type Settings struct {
	CameraBinary      string
	PlaceholderBinary string
	Width             int
	Height            int
	Quality           int
	ShotTimeoutMS     int
	ExecTimeout       time.Duration
}

// SettingsFromConfig maps the capture config section onto Settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		CameraBinary:      cfg.Capture.CameraBinary,
		PlaceholderBinary: cfg.Capture.PlaceholderBinary,
		Width:             cfg.Capture.Width,
		Height:            cfg.Capture.Height,
		Quality:           cfg.Capture.Quality,
		ShotTimeoutMS:     cfg.Capture.ShotTimeoutMS,
		ExecTimeout:       time.Duration(cfg.Capture.ExecTimeoutSeconds) * time.Second,
	}
}

// Select probes the capability chain once and returns the best available
// capturer: hardware camera, then placeholder generator, then blank files.
// Selection happens at session start; per-frame re-probing is deliberately
// avoided so a capability cannot change mid-session.
func Select(settings Settings) Capturer {
	if deps.Available(settings.CameraBinary) {
		return newHardwareCapturer(settings, commandExecutor{})
	}
	if deps.Available(settings.PlaceholderBinary) {
		return newPlaceholderCapturer(settings, commandExecutor{})
	}
	return blankCapturer{}
}

// Stage drives a selected capturer and enforces the frame-file contract.
type Stage struct {
	capturer Capturer
	timeout  time.Duration
	logger   *slog.Logger
}

// NewStage wraps a capturer with timeout and verification behavior.
func NewStage(capturer Capturer, execTimeout time.Duration, logger *slog.Logger) *Stage {
	return &Stage{
		capturer: capturer,
		timeout:  execTimeout,
		logger:   logging.NewComponentLogger(logger, "capture"),
	}
}

// CapturerName returns the selected capability variant.
func (s *Stage) CapturerName() string { return s.capturer.Name() }

// Capture produces the frame file for seq at path. The invocation is detached
// from the session's cancellation: an interrupt never aborts an in-flight
// shot, it is observed by the controller afterwards. A missing frame file
// after the call returns is a fatal capture failure.
func (s *Stage) Capture(ctx context.Context, seq int, path string) error {
	shotCtx := context.WithoutCancel(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		shotCtx, cancel = context.WithTimeout(shotCtx, s.timeout)
		defer cancel()
	}

	err := s.capturer.Capture(shotCtx, seq, path)
	if !fileutil.FileExists(path) {
		return services.Wrap(services.ErrExternalTool, "capture",
			fmt.Sprintf("frame %d", seq), "no frame file produced", err)
	}
	if err != nil {
		// The tool complained but delivered the file; the contract only
		// requires the file to exist.
		s.logger.Warn("capture tool reported an error but produced the frame",
			logging.Int("frame", seq),
			logging.Error(err),
		)
	}
	return nil
}
