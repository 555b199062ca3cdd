package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"

	"lapse/internal/camwait"
	"lapse/internal/capture"
	"lapse/internal/config"
	"lapse/internal/controller"
	"lapse/internal/history"
	"lapse/internal/logging"
	"lapse/internal/notify"
	"lapse/internal/render"
	"lapse/internal/session"
	"lapse/internal/status"
)

type runOptions struct {
	baseDir       string
	interval      time.Duration
	total         int
	waitCamera    bool
	cameraTimeout time.Duration
}

func runSession(cmdCtx context.Context, cfg *config.Config, out io.Writer, opts runOptions) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	override := opts.baseDir
	if override == "" {
		override = cfg.Paths.BaseDir
	}
	sess, err := session.New(session.Options{
		BaseDirOverride: override,
		SharedMount:     cfg.Paths.SharedMount,
		Interval:        opts.interval,
		Total:           opts.total,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		RunID:  sess.RunID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	sessionLog, err := os.OpenFile(sess.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session log: %w", err)
	}
	defer sessionLog.Close()
	logger = logging.TeeLogger(logger, logging.NewSessionHandler(sessionLog))

	if opts.waitCamera {
		if err := camwait.Wait(signalCtx, logger, opts.cameraTimeout); err != nil {
			logger.Warn("camera wait ended without a device, continuing with capability probe",
				logging.Error(err))
		}
	}

	// Capabilities are probed exactly once here; the session never re-probes
	// mid-run even if a tool appears or disappears.
	capturer := capture.Select(capture.SettingsFromConfig(cfg))
	captureStage := capture.NewStage(capturer,
		time.Duration(cfg.Capture.ExecTimeoutSeconds)*time.Second, logger)
	renderStage := render.NewStage(render.SelectEncoder(render.SettingsFromConfig(cfg)), logger)

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(filepath.Join(sess.BaseDir, history.DefaultFileName))
		if err != nil {
			logger.Warn("history database unavailable", logging.Error(err))
			store = nil
		} else {
			defer store.Close()
		}
	}

	var bar *progressbar.ProgressBar
	var onProgress func(captured, total int)
	if isTerminal(os.Stderr) {
		bar = progressbar.NewOptions(sess.Total,
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("capturing"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		onProgress = func(captured, total int) { _ = bar.Set(captured) }
	}

	ctrl, err := controller.New(controller.Options{
		Session:    sess,
		Publisher:  status.NewPublisher(sess.StatusPath),
		Capture:    captureStage,
		Render:     renderStage,
		History:    store,
		Notifier:   notify.NewService(cfg),
		Logger:     logger,
		OnProgress: onProgress,
	})
	if err != nil {
		return err
	}

	runErr := ctrl.Run(signalCtx)
	if bar != nil {
		_ = bar.Finish()
	}
	if runErr != nil {
		return runErr
	}

	if rec, err := status.Read(sess.StatusPath); err == nil {
		printOutcome(out, rec)
	}
	return nil
}

func printOutcome(w io.Writer, rec status.Record) {
	fmt.Fprintf(w, "Session %s: %d/%d frames captured\n", rec.Status, rec.Captured, rec.Total)
	if rec.Video != "" {
		fmt.Fprintf(w, "Video: %s\n", rec.Video)
	}
	if msg := rec.ErrorMessage(); msg != "" {
		fmt.Fprintf(w, "Warning: %s\n", msg)
	}
}
