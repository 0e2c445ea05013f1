package pipeline

import (
	"time"

	"yourmovie/movie"
	"yourmovie/stylize"
)

// State represents the studio state machine
type State string

const (
	StateIdle       State = "idle"
	StateProcessing State = "processing"
	StateRendering  State = "rendering"
	StatePublishing State = "publishing"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Busy reports whether a job is running in this state.
func (s State) Busy() bool {
	switch s {
	case StateProcessing, StateRendering, StatePublishing:
		return true
	}
	return false
}

// LogEntry represents a single log line with timestamp
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Progress counts finished steps of the running job.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// RenderRequest asks for a movie render.
type RenderRequest struct {
	JobID   string        `json:"job_id,omitempty"`
	Options movie.Options `json:"options"`
	// Publish uploads the movie through the configured publishers
	Publish bool `json:"publish"`
}

// JobResult describes a finished render.
type JobResult struct {
	JobID      string    `json:"job_id"`
	MoviePath  string    `json:"movie_path"`
	Location   string    `json:"location,omitempty"`
	FinishedAt time.Time `json:"finished_at"`
}

// StatusResponse is the JSON response for GET /api/status
type StatusResponse struct {
	State       State           `json:"state"`
	Logs        []LogEntry      `json:"logs"`
	Progress    Progress        `json:"progress"`
	JobID       string          `json:"job_id,omitempty"`
	LastProcess *stylize.Result `json:"last_process,omitempty"`
	LastJob     *JobResult      `json:"last_job,omitempty"`
	Error       string          `json:"error,omitempty"`
}
