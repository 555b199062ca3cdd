package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// BaseDir, when set, overrides base directory resolution entirely.
	BaseDir string `toml:"base_dir"`
	// SharedMount is preferred over the executable directory when it exists
	// and is writable.
	SharedMount string `toml:"shared_mount"`
}

// Session contains capture session defaults.
type Session struct {
	IntervalSeconds int `toml:"interval_seconds"`
	Frames          int `toml:"frames"`
}

// Capture contains configuration for the frame capture capabilities.
type Capture struct {
	CameraBinary      string `toml:"camera_binary"`
	PlaceholderBinary string `toml:"placeholder_binary"`
	Width             int    `toml:"width"`
	Height            int    `toml:"height"`
	Quality           int    `toml:"quality"`
	// ShotTimeoutMS is passed to the camera tool so a stalled sensor cannot
	// block a shot indefinitely.
	ShotTimeoutMS int `toml:"shot_timeout_ms"`
	// ExecTimeoutSeconds bounds the whole capture process invocation.
	ExecTimeoutSeconds int `toml:"exec_timeout_seconds"`
}

// Render contains configuration for video assembly.
type Render struct {
	FFmpegBinary string `toml:"ffmpeg_binary"`
	FrameRate    int    `toml:"frame_rate"`
	Preset       string `toml:"preset"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the session history database.
type History struct {
	Enabled bool `toml:"enabled"`
}

// Config encapsulates all configuration values for lapse.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Session       Session       `toml:"session"`
	Capture       Capture       `toml:"capture"`
	Render        Render        `toml:"render"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
	History       History       `toml:"history"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lapse/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. A missing file is not
// an error; defaults apply.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.BaseDir) != "" {
		if c.Paths.BaseDir, err = expandPath(c.Paths.BaseDir); err != nil {
			return fmt.Errorf("paths.base_dir: %w", err)
		}
	}
	if strings.TrimSpace(c.Paths.SharedMount) == "" {
		c.Paths.SharedMount = defaultSharedMount
	}
	if c.Paths.SharedMount, err = expandPath(c.Paths.SharedMount); err != nil {
		return fmt.Errorf("paths.shared_mount: %w", err)
	}
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Capture.CameraBinary = strings.TrimSpace(c.Capture.CameraBinary)
	c.Capture.PlaceholderBinary = strings.TrimSpace(c.Capture.PlaceholderBinary)
	c.Render.FFmpegBinary = strings.TrimSpace(c.Render.FFmpegBinary)
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
