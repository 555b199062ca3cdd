package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"lapse/internal/config"
)

// Requirement defines an external capability lapse relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a capability.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Check evaluates the provided requirements and reports availability.
func Check(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Available reports whether the named binary resolves on PATH.
func Available(command string) bool {
	command = strings.TrimSpace(command)
	if command == "" {
		return false
	}
	_, err := exec.LookPath(command)
	return err == nil
}

// Snapshot probes every external capability the configured session would use.
// All of them are optional: each stage degrades when its tool is absent.
func Snapshot(cfg *config.Config) []Status {
	return Check([]Requirement{
		{
			Name:        "Camera",
			Command:     cfg.Capture.CameraBinary,
			Description: "Hardware still capture",
			Optional:    true,
		},
		{
			Name:        "Placeholder",
			Command:     cfg.Capture.PlaceholderBinary,
			Description: "Placeholder frame generation",
			Optional:    true,
		},
		{
			Name:        "Encoder",
			Command:     cfg.Render.FFmpegBinary,
			Description: "Video assembly",
			Optional:    true,
		},
	})
}
