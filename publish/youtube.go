package publish

import (
	"context"
	"fmt"
	"os"

	"yourmovie/config"
	"yourmovie/logging"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTube uploads movies with a service account.
type YouTube struct {
	service *youtube.Service
	privacy string
}

// NewYouTube authenticates with the service account JSON at serviceAccountFile.
func NewYouTube(ctx context.Context, serviceAccountFile string) (*YouTube, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	jwt, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(jwt.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return NewYouTubeFromService(service), nil
}

// NewYouTubeFromService wraps an existing API service.
func NewYouTubeFromService(service *youtube.Service) *YouTube {
	return &YouTube{service: service, privacy: config.YouTubePrivacyStatus}
}

// Name implements Publisher.
func (y *YouTube) Name() string { return "youtube" }

// Publish uploads the movie and returns its watch URL.
func (y *YouTube) Publish(ctx context.Context, path string, meta Metadata) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}
	logging.From(ctx).Info("uploading to youtube", "path", path, "mb", float64(info.Size())/(1024*1024))

	call := y.service.Videos.Insert([]string{"snippet", "status"}, y.video(meta)).
		Media(file).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	return config.YouTubeWatchPrefix + response.Id, nil
}

func (y *YouTube) video(meta Metadata) *youtube.Video {
	title := meta.Title
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	return &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryId:  config.YouTubeCategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           y.privacy,
			SelfDeclaredMadeForKids: false,
		},
	}
}
