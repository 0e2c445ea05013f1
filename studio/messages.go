package studio

import (
	"time"

	"yourmovie/pipeline"
	"yourmovie/stylize"
)

// Messages for the tea program (polling-based)

// StatusUpdateMsg is sent when we receive status from the server
type StatusUpdateMsg struct {
	Status *pipeline.StatusResponse
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}

// StylesMsg carries the style catalog
type StylesMsg struct {
	Catalog *stylize.Catalog
	Err     error
}

// CountsMsg carries the drawing and frame counts
type CountsMsg struct {
	Drawings int
	Frames   int
	Err      error
}

// ProcessDoneMsg is sent when stylization finishes
type ProcessDoneMsg struct {
	Result stylize.Result
	Err    error
}

// MovieStartedMsg is sent when a render was accepted
type MovieStartedMsg struct {
	JobID string
	Err   error
}

// MovieAvailableMsg reports whether a movie can be watched
type MovieAvailableMsg struct {
	Ready bool
	Err   error
}

// ResetDoneMsg is sent after the workspace was cleared
type ResetDoneMsg struct {
	Err error
}
