// Package movie renders the workspace frames into the final movie with
// ffmpeg: a raw AVI first, then an H.264 encode with optional burned-in
// subtitles and a looped soundtrack.
package movie

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"yourmovie/logging"
	"yourmovie/workspace"
)

// Builder renders movies out of a workspace.
type Builder struct {
	ws    *workspace.Workspace
	run   RunFunc
	probe ProbeFunc
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRunner replaces the ffmpeg runner.
func WithRunner(run RunFunc) Option {
	return func(b *Builder) { b.run = run }
}

// WithProber replaces the duration probe.
func WithProber(probe ProbeFunc) Option {
	return func(b *Builder) { b.probe = probe }
}

// NewBuilder creates a builder backed by the ffmpeg binaries on PATH.
func NewBuilder(ws *workspace.Workspace, opts ...Option) *Builder {
	b := &Builder{ws: ws, run: Run, probe: Probe}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Validate checks opts against the workspace and returns the frames to render.
func (b *Builder) Validate(opts Options) ([]string, error) {
	if err := ValidateFPS(opts.FPS); err != nil {
		return nil, err
	}

	frames, err := b.ws.Frames()
	if err != nil {
		return nil, fmt.Errorf("failed to list frames: %w", err)
	}
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}

	if opts.WithSubtitles {
		text, err := b.ws.ReadSubtitles()
		if errors.Is(err, os.ErrNotExist) || (err == nil && len(SplitLines(text)) == 0) {
			return nil, ErrSubtitlesMissing
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read subtitles: %w", err)
		}
	}
	if opts.WithAudio && !b.ws.HasAudio() {
		return nil, ErrAudioMissing
	}

	return frames, nil
}

// MakeRaw encodes frames into the raw AVI at fps, scaled to the first frame's size.
func (b *Builder) MakeRaw(ctx context.Context, frames []string, fps float64) (string, error) {
	if len(frames) == 0 {
		return "", ErrNoFrames
	}

	width, height, err := FrameSize(frames[0])
	if err != nil {
		return "", err
	}

	listPath := filepath.Join(b.ws.FramesDir(), "frames.ffconcat")
	if err := WriteConcatList(frames, fps, listPath); err != nil {
		return "", fmt.Errorf("failed to write frame list: %w", err)
	}
	defer os.Remove(listPath)

	out := b.ws.RawMoviePath()
	if err := b.run(ctx, RawStream(listPath, width, height, fps, out)); err != nil {
		return "", fmt.Errorf("failed to encode raw movie: %w", err)
	}
	return out, nil
}

// Build validates opts, renders the raw movie and composes the final movie.
// It returns the path of the final movie.
func (b *Builder) Build(ctx context.Context, opts Options) (string, error) {
	log := logging.From(ctx)

	frames, err := b.Validate(opts)
	if err != nil {
		return "", err
	}
	log.Info("rendering movie", "frames", len(frames), "fps", opts.FPS,
		"subtitles", opts.WithSubtitles, "audio", opts.WithAudio)

	raw, err := b.MakeRaw(ctx, frames, opts.FPS)
	if err != nil {
		return "", err
	}

	duration, err := b.probe(raw)
	if err != nil || duration <= 0 {
		duration = float64(len(frames)) / opts.FPS
		log.Warn("falling back to computed duration", "duration", duration, "error", err)
	}

	in := ComposeInput{
		RawPath:    raw,
		OutputPath: b.ws.MoviePath(),
		Duration:   duration,
	}

	if opts.WithSubtitles {
		text, err := b.ws.ReadSubtitles()
		if err != nil {
			return "", fmt.Errorf("failed to read subtitles: %w", err)
		}
		width, height, err := FrameSize(frames[0])
		if err != nil {
			return "", err
		}

		assPath := filepath.Join(b.ws.FramesDir(), "subtitles.ass")
		if err := WriteASS(SubtitleCues(SplitLines(text), duration), width, height, assPath); err != nil {
			return "", fmt.Errorf("failed to write subtitles: %w", err)
		}
		defer os.Remove(assPath)
		in.SubtitlesPath = assPath
	}
	if opts.WithAudio {
		in.AudioPath = b.ws.AudioPath()
	}

	if err := b.run(ctx, ComposeStream(in)); err != nil {
		return "", fmt.Errorf("failed to compose movie: %w", err)
	}

	log.Info("movie ready", "path", in.OutputPath, "duration", duration)
	return in.OutputPath, nil
}
