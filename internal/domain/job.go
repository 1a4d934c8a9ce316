package domain

import "time"

// JobType enumerates supported generation job categories.
type JobType string

const (
	JobTypeImageGenerate JobType = "image_generate"
	JobTypeVideoGenerate JobType = "video_generate"
)

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Job encapsulates one asynchronous generation request from submission to
// completion. PromptJSON keeps the client payload verbatim so the worker can
// rebuild the model instruction exactly as submitted.
type Job struct {
	ID           string
	Type         JobType
	Status       JobStatus
	PromptJSON   []byte
	Quantity     int
	AspectRatio  string
	Country      string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
