package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"lapse/internal/services"
)

// On-disk layout names. All of these are external contracts: observers poll
// the status file, stream the log, list the frame directory, and download the
// video by these exact names.
const (
	StatusFileName = "timelapse_status.json"
	LogFileName    = "timelapse.log"
	FrameDirName   = "video_frames"
	VideoDirName   = "video"
	FramePattern   = "frame_%04d.jpg"

	lockFileName = "lapse.lock"
	idTimeFormat = "20060102_150405"
)

// Session describes one bounded capture-then-render run. Created once at
// start and immutable for the life of the process.
type Session struct {
	// ID is the creation timestamp. One invocation per timestamp granularity
	// is assumed; collisions are accepted as negligible.
	ID string
	// RunID correlates log records across outputs.
	RunID string

	BaseDir    string
	Root       string
	FramesDir  string
	VideoDir   string
	LogPath    string
	StatusPath string

	Interval time.Duration
	Total    int

	lock *flock.Flock
}

// Options configures session creation.
type Options struct {
	// BaseDirOverride wins over all other base directory candidates.
	BaseDirOverride string
	// SharedMount is preferred when it exists and is writable.
	SharedMount string
	Interval    time.Duration
	Total       int
	// Now overrides the session timestamp; zero means time.Now().
	Now time.Time
}

// New resolves the base directory, takes the cross-session lock, and creates
// the session's on-disk layout.
func New(opts Options) (*Session, error) {
	if opts.Total < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "session", "create", "frame count must be at least 1", nil)
	}
	if opts.Interval < 0 {
		return nil, services.Wrap(services.ErrConfiguration, "session", "create", "interval must not be negative", nil)
	}

	base, err := ResolveBaseDir(opts.BaseDirOverride, opts.SharedMount)
	if err != nil {
		return nil, err
	}

	lock := flock.New(filepath.Join(base, lockFileName))
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "session", "acquire lock", "", err)
	}
	if !acquired {
		return nil, services.Wrap(services.ErrSessionActive, "session", "acquire lock",
			fmt.Sprintf("another capture session holds %s", lock.Path()), nil)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	id := now.Format(idTimeFormat)
	root := filepath.Join(base, "timelapse_"+id)

	sess := &Session{
		ID:         id,
		RunID:      uuid.NewString(),
		BaseDir:    base,
		Root:       root,
		FramesDir:  filepath.Join(root, FrameDirName),
		VideoDir:   filepath.Join(root, VideoDirName),
		LogPath:    filepath.Join(root, LogFileName),
		StatusPath: filepath.Join(base, StatusFileName),
		Interval:   opts.Interval,
		Total:      opts.Total,
		lock:       lock,
	}

	for _, dir := range []string{sess.FramesDir, sess.VideoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			_ = lock.Unlock()
			return nil, fmt.Errorf("create session directory %s: %w", dir, err)
		}
	}
	return sess, nil
}

// FramePath returns the fixed zero-padded frame file path for a 1-based
// sequence number, so lexicographic and numeric ordering coincide.
func (s *Session) FramePath(seq int) string {
	return filepath.Join(s.FramesDir, fmt.Sprintf(FramePattern, seq))
}

// VideoPath returns the session-scoped output video path.
func (s *Session) VideoPath() string {
	return filepath.Join(s.VideoDir, fmt.Sprintf("timelapse_%s.mp4", s.ID))
}

// Close releases the cross-session lock. Session directories and files are
// never deleted by the core; retention is an external concern.
func (s *Session) Close() error {
	if s == nil || s.lock == nil {
		return nil
	}
	return s.lock.Unlock()
}

// ResolveBaseDir applies the base directory policy: explicit override, else
// the shared-storage mount when present and writable, else the directory
// containing the executable.
func ResolveBaseDir(override, sharedMount string) (string, error) {
	if override != "" {
		if !dirWritable(override) {
			return "", services.Wrap(services.ErrConfiguration, "session", "resolve base dir",
				fmt.Sprintf("%s is not a writable directory", override), nil)
		}
		return override, nil
	}
	if sharedMount != "" && dirWritable(sharedMount) {
		return sharedMount, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	return filepath.Dir(exe), nil
}

func dirWritable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return unix.Access(path, unix.W_OK) == nil
}
