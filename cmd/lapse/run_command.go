package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var baseDir string
	var waitCamera bool
	var cameraTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "run [interval] [frames]",
		Short: "Run one capture-and-render session",
		Long: `Run one bounded timelapse session: capture the requested number of
frames at a fixed interval, then assemble them into a video.

The positional arguments override the configured interval (seconds) and
frame count. Interrupting the session (Ctrl-C) stops the capture loop and
renders whatever frames were captured so far.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			interval := time.Duration(cfg.Session.IntervalSeconds) * time.Second
			total := cfg.Session.Frames
			if len(args) > 0 {
				seconds, err := strconv.Atoi(args[0])
				if err != nil || seconds < 0 {
					return fmt.Errorf("interval must be a non-negative integer, got %q", args[0])
				}
				interval = time.Duration(seconds) * time.Second
			}
			if len(args) > 1 {
				frames, err := strconv.Atoi(args[1])
				if err != nil || frames < 1 {
					return fmt.Errorf("frame count must be a positive integer, got %q", args[1])
				}
				total = frames
			}

			return runSession(cmd.Context(), cfg, cmd.OutOrStdout(), runOptions{
				baseDir:       baseDir,
				interval:      interval,
				total:         total,
				waitCamera:    waitCamera,
				cameraTimeout: cameraTimeout,
			})
		},
	}

	cmd.Flags().StringVarP(&baseDir, "base-dir", "b", "", "Base directory for session output (overrides configuration)")
	cmd.Flags().BoolVar(&waitCamera, "wait-camera", false, "Wait for a camera device to enumerate before starting")
	cmd.Flags().DurationVar(&cameraTimeout, "camera-timeout", 30*time.Second, "How long to wait for the camera device")
	return cmd
}
