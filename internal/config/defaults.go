package config

const (
	defaultSharedMount        = "/mnt/share"
	defaultIntervalSeconds    = 5
	defaultFrames             = 10
	defaultCameraBinary       = "rpicam-still"
	defaultPlaceholderBinary  = "convert"
	defaultCaptureWidth       = 1920
	defaultCaptureHeight      = 1080
	defaultCaptureQuality     = 85
	defaultShotTimeoutMS      = 1000
	defaultExecTimeoutSeconds = 15
	defaultFFmpegBinary       = "ffmpeg"
	defaultFrameRate          = 30
	defaultRenderPreset       = "medium"
	defaultNotifyTimeout      = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SharedMount: defaultSharedMount,
		},
		Session: Session{
			IntervalSeconds: defaultIntervalSeconds,
			Frames:          defaultFrames,
		},
		Capture: Capture{
			CameraBinary:       defaultCameraBinary,
			PlaceholderBinary:  defaultPlaceholderBinary,
			Width:              defaultCaptureWidth,
			Height:             defaultCaptureHeight,
			Quality:            defaultCaptureQuality,
			ShotTimeoutMS:      defaultShotTimeoutMS,
			ExecTimeoutSeconds: defaultExecTimeoutSeconds,
		},
		Render: Render{
			FFmpegBinary: defaultFFmpegBinary,
			FrameRate:    defaultFrameRate,
			Preset:       defaultRenderPreset,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: true,
		},
	}
}
