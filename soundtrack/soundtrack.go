// Package soundtrack fetches movie audio from YouTube links.
package soundtrack

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"yourmovie/config"
	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/workspace"
)

// ErrInvalidYouTubeLink is returned for links that are not plain watch URLs.
var ErrInvalidYouTubeLink = errors.New("the YouTube link is invalid")

// ValidYouTubeLink accepts https://www.youtube.com/watch?v= followed by an 11 character id.
func ValidYouTubeLink(link string) bool {
	return strings.HasPrefix(link, config.YouTubeWatchPrefix) && len(link) == config.YouTubeLinkLength
}

// Source downloads the video behind a link.
type Source interface {
	Download(ctx context.Context, link string, w io.Writer) error
}

// Extractor turns a YouTube link into the workspace soundtrack.
type Extractor struct {
	ws     *workspace.Workspace
	source Source
	run    movie.RunFunc
}

// NewExtractor creates an extractor. A nil run uses ffmpeg on PATH.
func NewExtractor(ws *workspace.Workspace, source Source, run movie.RunFunc) *Extractor {
	if run == nil {
		run = movie.Run
	}
	return &Extractor{ws: ws, source: source, run: run}
}

// Extract downloads the video, extracts its audio to the workspace audio
// file and removes the downloaded video.
func (e *Extractor) Extract(ctx context.Context, link string) error {
	if !ValidYouTubeLink(link) {
		return ErrInvalidYouTubeLink
	}

	if err := os.MkdirAll(e.ws.FramesDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create frames dir: %w", err)
	}
	videoPath := filepath.Join(e.ws.FramesDir(), config.YouTubeVideoFile)
	defer os.Remove(videoPath)

	if err := e.download(ctx, link, videoPath); err != nil {
		return err
	}

	if err := e.run(ctx, movie.ExtractAudioStream(videoPath, e.ws.AudioPath())); err != nil {
		return fmt.Errorf("failed to extract audio: %w", err)
	}

	logging.From(ctx).Info("soundtrack extracted", "link", link, "path", e.ws.AudioPath())
	return nil
}

func (e *Extractor) download(ctx context.Context, link, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := e.source.Download(ctx, link, f); err != nil {
		return err
	}
	return f.Close()
}
