package movie

import (
	"errors"
	"fmt"
	"math"

	"yourmovie/config"
)

var (
	// ErrNoFrames means the frames directory holds no .jpg files
	ErrNoFrames = errors.New("there are no frames to build a movie from")

	// ErrSubtitlesMissing means subtitles were requested but none were saved
	ErrSubtitlesMissing = errors.New("subtitles were requested but no subtitles file was uploaded")

	// ErrAudioMissing means audio was requested but none was saved
	ErrAudioMissing = errors.New("audio was requested but no audio file was uploaded")

	// ErrInvalidFPS means the frame rate is outside the slider range
	ErrInvalidFPS = errors.New("invalid frame rate")
)

// Options controls a single movie render.
type Options struct {
	FPS           float64 `json:"fps"`
	WithSubtitles bool    `json:"with_subtitles"`
	WithAudio     bool    `json:"with_audio"`
}

// DefaultOptions returns a plain movie at the default frame rate.
func DefaultOptions() Options {
	return Options{FPS: config.DefaultFPS}
}

// ValidateFPS checks that fps is on the slider: within bounds and a multiple of the step.
func ValidateFPS(fps float64) error {
	if fps < config.MinFPS || fps > config.MaxFPS {
		return fmt.Errorf("%w: %.1f is outside %.1f..%.1f", ErrInvalidFPS, fps, config.MinFPS, config.MaxFPS)
	}
	steps := fps / config.FPSStep
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		return fmt.Errorf("%w: %.2f is not a multiple of %.1f", ErrInvalidFPS, fps, config.FPSStep)
	}
	return nil
}
