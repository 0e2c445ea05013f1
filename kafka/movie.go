package kafka

import (
	"context"
	"errors"
	"fmt"

	"yourmovie/config"
	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/pipeline"
	"yourmovie/stylize"
)

// MovieRequest is the message body of a render request.
type MovieRequest struct {
	JobID         string   `json:"job_id"`
	Styles        []string `json:"styles,omitempty"`
	FPS           float64  `json:"fps"`
	WithSubtitles bool     `json:"with_subtitles"`
	WithAudio     bool     `json:"with_audio"`
	Publish       bool     `json:"publish"`
}

// Options converts the request into render options.
func (r *MovieRequest) Options() movie.Options {
	fps := r.FPS
	if fps == 0 {
		fps = config.DefaultFPS
	}
	return movie.Options{FPS: fps, WithSubtitles: r.WithSubtitles, WithAudio: r.WithAudio}
}

// Runner is the part of pipeline.Runner the consumer drives.
type Runner interface {
	Process(ctx context.Context, styles []string) (stylize.Result, error)
	Render(ctx context.Context, req pipeline.RenderRequest) (pipeline.JobResult, error)
}

// NewMovieHandler processes MovieRequest messages: optional stylization with
// the listed styles, then a render. Busy runners leave the message unmarked
// for redelivery; every other failure is logged and the message is skipped.
func NewMovieHandler(runner Runner) *TypedMessageHandler[MovieRequest] {
	return &TypedMessageHandler[MovieRequest]{
		AlwaysMark: true,
		Validate: func(msg *MovieRequest) error {
			return movie.ValidateFPS(msg.Options().FPS)
		},
		Process: func(ctx context.Context, msg *MovieRequest) error {
			if len(msg.Styles) > 0 {
				if _, err := runner.Process(ctx, msg.Styles); err != nil {
					return skipUnlessBusy(ctx, msg.JobID, fmt.Errorf("process: %w", err))
				}
			}

			_, err := runner.Render(ctx, pipeline.RenderRequest{
				JobID:   msg.JobID,
				Options: msg.Options(),
				Publish: msg.Publish,
			})
			return skipUnlessBusy(ctx, msg.JobID, err)
		},
	}
}

func skipUnlessBusy(ctx context.Context, jobID string, err error) error {
	if err == nil || errors.Is(err, pipeline.ErrBusy) {
		return err
	}
	logging.From(ctx).Error("movie request failed", "job", jobID, "error", err)
	return nil
}
