package render

import (
	"context"
	"log/slog"

	"lapse/internal/config"
	"lapse/internal/deps"
	"lapse/internal/fileutil"
	"lapse/internal/logging"
	"lapse/internal/services"
	"lapse/internal/session"
)

// Status record error strings for degraded and failed renders. These exact
// texts are part of the externally observed contract.
const (
	ErrMsgEncoderUnavailable = "ffmpeg not available"
	ErrMsgEncodeFailed       = "Failed to create video"
)

// Outcome classifies a render attempt.
type Outcome int

const (
	// OutcomeSuccess: the encoder produced the video file.
	OutcomeSuccess Outcome = iota
	// OutcomeFailed: the encoder was invoked and failed.
	OutcomeFailed
	// OutcomeSkipped: no encoder capability is available.
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// Result carries the render outcome back to the controller.
type Result struct {
	Outcome   Outcome
	VideoPath string
	Err       error
}

// Settings carries encoder configuration.
type Settings struct {
	FFmpegBinary string
	FrameRate    int
	Preset       string
}

// SettingsFromConfig maps the render config section onto Settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		FFmpegBinary: cfg.Render.FFmpegBinary,
		FrameRate:    cfg.Render.FrameRate,
		Preset:       cfg.Render.Preset,
	}
}

// Encoder assembles an ordered frame sequence into a video file.
type Encoder interface {
	Encode(ctx context.Context, framesDir string, frames int, output string) error
}

// SelectEncoder probes for the encoder binary once at session start and
// returns nil when the capability is absent.
func SelectEncoder(settings Settings) Encoder {
	if !deps.Available(settings.FFmpegBinary) {
		return nil
	}
	return newFFmpegEncoder(settings, commandExecutor{})
}

// Stage invokes the encoder over the captured frame sequence.
type Stage struct {
	encoder Encoder
	logger  *slog.Logger
}

// NewStage builds a render stage; a nil encoder means the capability is
// absent and every render is skipped.
func NewStage(encoder Encoder, logger *slog.Logger) *Stage {
	return &Stage{
		encoder: encoder,
		logger:  logging.NewComponentLogger(logger, "render"),
	}
}

// Available reports whether an encoder capability was selected.
func (s *Stage) Available() bool { return s.encoder != nil }

// Render assembles exactly `captured` frames into the session's video path.
// Callers must skip this stage entirely when captured is zero. The encoder
// call is detached from session cancellation (the interrupted path renders
// after the signal) and deliberately carries no timeout.
func (s *Stage) Render(ctx context.Context, sess *session.Session, captured int) Result {
	if s.encoder == nil {
		s.logger.Warn("encoder capability absent, skipping video assembly")
		return Result{Outcome: OutcomeSkipped}
	}

	// The frame count is taken from the controller, not re-derived from a
	// directory glob; verify the sequence actually starts on disk before
	// handing it to the encoder.
	if !fileutil.FileExists(sess.FramePath(1)) {
		return Result{
			Outcome: OutcomeFailed,
			Err: services.Wrap(services.ErrExternalTool, "render", "verify frames",
				"first frame missing from "+sess.FramesDir, nil),
		}
	}

	output := sess.VideoPath()
	err := s.encoder.Encode(context.WithoutCancel(ctx), sess.FramesDir, captured, output)
	if err != nil {
		return Result{
			Outcome: OutcomeFailed,
			Err:     services.Wrap(services.ErrExternalTool, "render", "invoke encoder", "", err),
		}
	}
	if !fileutil.FileExists(output) {
		return Result{
			Outcome: OutcomeFailed,
			Err: services.Wrap(services.ErrExternalTool, "render", "verify output",
				"encoder exited cleanly but produced no file", nil),
		}
	}
	return Result{Outcome: OutcomeSuccess, VideoPath: output}
}
