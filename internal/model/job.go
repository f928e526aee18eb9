package model

import "time"

// JobStatus represents the current state of a search job.
type JobStatus string

const (
	JobStatusStarting  JobStatus = "starting"
	JobStatusSearching JobStatus = "searching"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one search-to-completion lifecycle. It is mutated only by its own
// runner goroutine; readers always receive copies.
type Job struct {
	ID            string             `json:"id"`
	City          string             `json:"city"`
	Status        JobStatus          `json:"status"`
	Progress      int                `json:"progress"`
	StatusMessage string             `json:"status_message"`
	CurrentCount  int                `json:"current_count"`
	Businesses    []EnrichedBusiness `json:"businesses"`
	StartedAt     time.Time          `json:"started_at"`
	EndedAt       *time.Time         `json:"ended_at,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Clone returns a deep copy suitable for handing to concurrent readers.
func (j *Job) Clone() *Job {
	out := *j
	if j.Businesses != nil {
		out.Businesses = make([]EnrichedBusiness, len(j.Businesses))
		for i, b := range j.Businesses {
			out.Businesses[i] = b.Clone()
		}
	}
	if j.EndedAt != nil {
		t := *j.EndedAt
		out.EndedAt = &t
	}
	return &out
}

// Checkpoint is a durable, full snapshot of a Job. One snapshot exists per
// job identifier; saving replaces any prior snapshot (last-write-wins).
type Checkpoint struct {
	Job       Job       `json:"job"`
	UpdatedAt time.Time `json:"updated_at"`
}
