package history

import "time"

// RunStatus is the final outcome of a workflow run.
type RunStatus string

const (
	StatusCompleted RunStatus = "completed"
	StatusFailed    RunStatus = "failed"
)

// Icon returns an ASCII marker for the status.
func (s RunStatus) Icon() string {
	switch s {
	case StatusCompleted:
		return "[OK]"
	case StatusFailed:
		return "[XX]"
	default:
		return "[??]"
	}
}

// Run records one execution of a registered workflow.
type Run struct {
	ID          string        `json:"id"`
	Workflow    string        `json:"workflow"`
	Status      RunStatus     `json:"status"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Error       string        `json:"error,omitempty"`
	FailurePath []string      `json:"failure_path,omitempty"`
}

// File is the JSON document holding the run history.
type File struct {
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}
