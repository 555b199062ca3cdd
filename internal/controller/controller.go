package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lapse/internal/capture"
	"lapse/internal/history"
	"lapse/internal/logging"
	"lapse/internal/notify"
	"lapse/internal/render"
	"lapse/internal/services"
	"lapse/internal/session"
	"lapse/internal/status"
)

// Options wires the stages and collaborators a controller drives. Session,
// Publisher, Capture, and Render are required; History and Notifier are
// optional and failures in them never affect the session outcome.
type Options struct {
	Session   *session.Session
	Publisher *status.Publisher
	Capture   *capture.Stage
	Render    *render.Stage
	History   *history.Store
	Notifier  notify.Service
	Logger    *slog.Logger

	// OnProgress is invoked after each successful frame, if set.
	OnProgress func(captured, total int)
}

// Controller sequences one bounded session: capture loop, then render, then
// a terminal status record. Execution is strictly sequential; the only
// asynchronous input is cancellation of the Run context, observed between
// loop iterations.
type Controller struct {
	sess       *session.Session
	publisher  *status.Publisher
	capture    *capture.Stage
	render     *render.Stage
	history    *history.Store
	notifier   notify.Service
	logger     *slog.Logger
	onProgress func(captured, total int)
}

// New validates the wiring and returns a controller ready to run once.
func New(opts Options) (*Controller, error) {
	if opts.Session == nil {
		return nil, services.Wrap(services.ErrConfiguration, "controller", "new", "session is required", nil)
	}
	if opts.Publisher == nil {
		return nil, services.Wrap(services.ErrConfiguration, "controller", "new", "status publisher is required", nil)
	}
	if opts.Capture == nil || opts.Render == nil {
		return nil, services.Wrap(services.ErrConfiguration, "controller", "new", "capture and render stages are required", nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Noop()
	}
	return &Controller{
		sess:       opts.Session,
		publisher:  opts.Publisher,
		capture:    opts.Capture,
		render:     opts.Render,
		history:    opts.History,
		notifier:   notifier,
		logger:     logging.NewComponentLogger(logger, "controller"),
		onProgress: opts.OnProgress,
	}, nil
}

// Run executes the session to a terminal status record. It returns nil for
// every outcome that maps to process exit 0, including interrupted sessions
// and degraded encoder-absent completions. A non-nil error means a fatal
// capture failure or an encoder failure on the normal completion path.
func (c *Controller) Run(ctx context.Context) error {
	initial := status.Record{
		Status:   status.StateRunning,
		Captured: 0,
		Total:    c.sess.Total,
		Folder:   c.sess.Root,
	}
	if err := c.publisher.Publish(initial); err != nil {
		return err
	}
	c.logger.Info("Session started",
		logging.String("session", c.sess.ID),
		logging.Int("frames", c.sess.Total),
		logging.Duration("interval", c.sess.Interval),
		logging.String("capturer", c.capture.CapturerName()),
		logging.Bool("encoder", c.render.Available()),
		logging.String(logging.FieldEventType, "session_started"),
	)
	c.beginHistory(ctx)
	if err := c.notifier.NotifySessionStarted(ctx, c.sess.ID, c.sess.Total); err != nil {
		c.logger.Warn("start notification failed", logging.Error(err))
	}

	captured := 0
	interrupted := false

	for seq := 1; seq <= c.sess.Total; seq++ {
		if ctx.Err() != nil {
			interrupted = true
			break
		}
		if seq > 1 && !c.pause(ctx) {
			interrupted = true
			break
		}

		if err := c.capture.Capture(ctx, seq, c.sess.FramePath(seq)); err != nil {
			c.logger.Error("capture failed",
				logging.Int("frame", seq),
				logging.Error(err),
				logging.String(logging.FieldEventType, "capture_failed"),
			)
			rec := status.Record{
				Status:   status.StateError,
				Captured: captured,
				Total:    c.sess.Total,
				Folder:   c.sess.Root,
			}.WithError(fmt.Sprintf("Failed to capture frame %d", seq))
			c.terminate(ctx, rec)
			return err
		}

		captured = seq
		c.logger.Info("Captured frame",
			logging.Int("frame", seq),
			logging.Int("total", c.sess.Total),
		)
		if err := c.publisher.Publish(status.Record{
			Status:   status.StateRunning,
			Captured: captured,
			Total:    c.sess.Total,
			Folder:   c.sess.Root,
		}); err != nil {
			c.logger.Warn("status publish failed", logging.Error(err))
		}
		if c.onProgress != nil {
			c.onProgress(captured, c.sess.Total)
		}
	}

	if interrupted {
		c.logger.Info("Session interrupted",
			logging.Int("captured", captured),
			logging.Int("total", c.sess.Total),
			logging.String(logging.FieldEventType, "session_interrupted"),
		)
	}
	return c.finish(ctx, captured, interrupted)
}

// pause blocks for the inter-frame interval. It returns false when the
// session was cancelled before the interval elapsed.
func (c *Controller) pause(ctx context.Context) bool {
	if c.sess.Interval <= 0 {
		return true
	}
	timer := time.NewTimer(c.sess.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// finish drives the render path and publishes the terminal record. The
// terminal label is stopped for interrupted sessions and done otherwise;
// encoder failures are fatal only on the normal completion path.
func (c *Controller) finish(ctx context.Context, captured int, interrupted bool) error {
	if interrupted && captured == 0 {
		rec := status.Record{
			Status:   status.StateStopped,
			Captured: 0,
			Total:    c.sess.Total,
			Folder:   c.sess.Root,
		}
		c.terminate(ctx, rec)
		return nil
	}

	if err := c.publisher.Publish(status.Record{
		Status:   status.StateRendering,
		Captured: captured,
		Total:    c.sess.Total,
		Folder:   c.sess.Root,
	}); err != nil {
		c.logger.Warn("status publish failed", logging.Error(err))
	}
	c.logger.Info("Rendering video",
		logging.Int("frames", captured),
		logging.String(logging.FieldEventType, "render_started"),
	)

	result := c.render.Render(ctx, c.sess, captured)
	terminal := status.StateDone
	if interrupted {
		terminal = status.StateStopped
	}
	rec := status.Record{
		Status:   terminal,
		Captured: captured,
		Total:    c.sess.Total,
		Folder:   c.sess.Root,
	}

	switch result.Outcome {
	case render.OutcomeSuccess:
		rec.Video = result.VideoPath
		c.logger.Info("Video created",
			logging.String("video", result.VideoPath),
			logging.String(logging.FieldEventType, "render_completed"),
		)
		c.terminate(ctx, rec)
		return nil
	case render.OutcomeSkipped:
		rec = rec.WithError(render.ErrMsgEncoderUnavailable)
		c.logger.Warn("Encoder unavailable, skipping video",
			logging.String(logging.FieldEventType, "render_skipped"),
		)
		c.terminate(ctx, rec)
		return nil
	default:
		rec = rec.WithError(render.ErrMsgEncodeFailed)
		c.logger.Error("Video creation failed",
			logging.Error(result.Err),
			logging.String(logging.FieldEventType, "render_failed"),
		)
		if interrupted {
			c.terminate(ctx, rec)
			return nil
		}
		rec.Status = status.StateError
		c.terminate(ctx, rec)
		return result.Err
	}
}

// terminate publishes the terminal record and fans it out to the optional
// collaborators. Detached from cancellation so the interrupted path still
// records its outcome.
func (c *Controller) terminate(ctx context.Context, rec status.Record) {
	if err := c.publisher.Publish(rec); err != nil {
		c.logger.Warn("terminal status publish failed", logging.Error(err))
	}
	c.logger.Info("Session finished",
		logging.String("status", string(rec.Status)),
		logging.Int("captured", rec.Captured),
		logging.Int("total", rec.Total),
		logging.String(logging.FieldEventType, "session_finished"),
	)

	detached := context.WithoutCancel(ctx)
	if c.history != nil {
		if err := c.history.Finish(detached, c.sess.ID, rec); err != nil {
			c.logger.Warn("history update failed", logging.Error(err))
		}
	}
	if err := c.notifier.NotifySessionFinished(detached, c.sess.ID, rec); err != nil {
		c.logger.Warn("finish notification failed", logging.Error(err))
	}
}

func (c *Controller) beginHistory(ctx context.Context) {
	if c.history == nil {
		return
	}
	if err := c.history.Begin(ctx, c.sess); err != nil {
		c.logger.Warn("history insert failed", logging.Error(err))
	}
}
