package client

// NoMovieMessage is what the server answers before the first render
const NoMovieMessage = "You haven't created a movie yet!"

// MovieRequest asks the server to render a movie
type MovieRequest struct {
	FPS           float64 `json:"fps"`
	WithSubtitles bool    `json:"with_subtitles"`
	WithAudio     bool    `json:"with_audio"`
	Publish       bool    `json:"publish"`
}

// Response is the envelope the server uses for simple answers and errors
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type processRequest struct {
	Styles []string `json:"styles"`
}

type youtubeRequest struct {
	Link string `json:"link"`
}
