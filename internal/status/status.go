package status

import (
	"encoding/json"
	"fmt"
	"os"

	"lapse/internal/fileutil"
	"lapse/internal/services"
)

// State enumerates the session lifecycle states visible to observers.
type State string

const (
	StateRunning   State = "running"
	StateRendering State = "rendering"
	StateDone      State = "done"
	StateStopped   State = "stopped"
	StateError     State = "error"
)

// Terminal reports whether no further transitions occur after this state.
func (s State) Terminal() bool {
	switch s {
	case StateDone, StateStopped, StateError:
		return true
	default:
		return false
	}
}

// Record is the persisted snapshot of a session's progress and outcome.
// The JSON shape is an external contract: flat object, `video` omitted until
// set, `error` always present (null unless a failure occurred).
type Record struct {
	Status   State   `json:"status"`
	Captured int     `json:"captured"`
	Total    int     `json:"total"`
	Folder   string  `json:"folder"`
	Video    string  `json:"video,omitempty"`
	Error    *string `json:"error"`
}

// WithError returns a copy of the record carrying the given error message.
func (r Record) WithError(message string) Record {
	r.Error = &message
	return r
}

// ErrorMessage returns the record's error text, or "" when none is set.
func (r Record) ErrorMessage() string {
	if r.Error == nil {
		return ""
	}
	return *r.Error
}

// Publisher owns the externally visible status file. Every publish is a full
// overwrite via an atomic replace, so concurrent readers never observe a torn
// document. Writers are serialized by the single-goroutine controller.
type Publisher struct {
	path string
	last *Record
}

// NewPublisher returns a publisher writing to the given path.
func NewPublisher(path string) *Publisher {
	return &Publisher{path: path}
}

// Path returns the status file location.
func (p *Publisher) Path() string { return p.path }

// Publish validates the record against the session invariants and overwrites
// the status file with it.
func (p *Publisher) Publish(rec Record) error {
	if rec.Captured < 0 || rec.Captured > rec.Total {
		return services.Wrap(services.ErrValidation, "status", "publish",
			fmt.Sprintf("captured %d outside [0, %d]", rec.Captured, rec.Total), nil)
	}
	if p.last != nil && rec.Captured < p.last.Captured {
		return services.Wrap(services.ErrValidation, "status", "publish",
			fmt.Sprintf("captured regressed from %d to %d", p.last.Captured, rec.Captured), nil)
	}
	if p.last != nil && p.last.Status.Terminal() {
		return services.Wrap(services.ErrValidation, "status", "publish",
			fmt.Sprintf("session already terminal (%s)", p.last.Status), nil)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status record: %w", err)
	}
	data = append(data, '\n')
	if err := fileutil.WriteFileAtomic(p.path, data, 0o644); err != nil {
		return fmt.Errorf("publish status record: %w", err)
	}
	p.last = &rec
	return nil
}

// Last returns the most recently published record, if any.
func (p *Publisher) Last() (Record, bool) {
	if p.last == nil {
		return Record{}, false
	}
	return *p.last, true
}

// Read parses the status file at path.
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("parse status record: %w", err)
	}
	return rec, nil
}
