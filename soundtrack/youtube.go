package soundtrack

import (
	"context"
	"fmt"
	"io"

	"github.com/kkdai/youtube/v2"
)

// YouTubeSource downloads videos with the kkdai/youtube client.
type YouTubeSource struct {
	client *youtube.Client
}

// NewYouTubeSource creates a source with a default client.
func NewYouTubeSource() *YouTubeSource {
	return &YouTubeSource{client: &youtube.Client{}}
}

// Download streams the first format that carries audio into w.
func (s *YouTubeSource) Download(ctx context.Context, link string, w io.Writer) error {
	video, err := s.client.GetVideoContext(ctx, link)
	if err != nil {
		return fmt.Errorf("failed to look up video: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return fmt.Errorf("video %s has no audio streams", video.ID)
	}

	stream, _, err := s.client.GetStreamContext(ctx, video, &formats[0])
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}
	defer stream.Close()

	if _, err := io.Copy(w, stream); err != nil {
		return fmt.Errorf("failed to download video: %w", err)
	}
	return nil
}
