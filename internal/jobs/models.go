package jobs

import "time"

// Status tracks a job through its lifecycle.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAnalyzing Status = "analyzing"
	StatusVoicing   Status = "voicing"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one processing run over a document.
type Job struct {
	ID         string
	DocumentID string
	Title      string
	Status     Status
	PanelCount int
	Error      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PanelRecord is the stored outcome for one panel within a job.
type PanelRecord struct {
	JobID      string
	PanelIndex int
	// Status is ok, degraded, or failed, matching the synthesis
	// panel statuses.
	Status    string
	Detail    string
	Duration  time.Duration
	AudioKey  string
	Narrative string
	UpdatedAt time.Time
}
