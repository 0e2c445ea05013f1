// Package publish ships finished movies to object storage and YouTube.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"yourmovie/config"
	"yourmovie/logging"
)

// Metadata describes a published movie.
type Metadata struct {
	JobID       string
	Title       string
	Description string
	Tags        []string
	CreatedAt   time.Time
}

// NewMetadata builds the default metadata for a render job.
func NewMetadata(jobID string, frames int, fps float64) Metadata {
	now := time.Now()
	return Metadata{
		JobID: jobID,
		Title: fmt.Sprintf("Your Movie %s", now.Format("2006-01-02 15:04")),
		Description: fmt.Sprintf("%d painted frames at %.1f fps.\nJob %s",
			frames, fps, jobID),
		Tags:      []string{"your movie", "painting", "animation"},
		CreatedAt: now,
	}
}

// Publisher uploads a movie file and returns where it can be found.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, path string, meta Metadata) (string, error)
}

// Multi publishes to every configured publisher.
// A failing publisher is logged and skipped; Publish only fails when all of them do.
type Multi struct {
	publishers []Publisher
}

// NewMulti combines publishers, skipping nil entries.
func NewMulti(publishers ...Publisher) *Multi {
	m := &Multi{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

// Name implements Publisher.
func (m *Multi) Name() string { return "multi" }

// Len is the number of configured publishers.
func (m *Multi) Len() int { return len(m.publishers) }

// Publish implements Publisher. Locations are joined with a space.
func (m *Multi) Publish(ctx context.Context, path string, meta Metadata) (string, error) {
	if len(m.publishers) == 0 {
		return "", nil
	}

	log := logging.From(ctx)
	var (
		locations []string
		errs      []error
	)
	for _, p := range m.publishers {
		pctx, cancel := context.WithTimeout(ctx, config.PublishTimeout)
		location, err := p.Publish(pctx, path, meta)
		cancel()

		if err != nil {
			log.Warn("publish failed", "publisher", p.Name(), "job", meta.JobID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		log.Info("movie published", "publisher", p.Name(), "job", meta.JobID, "location", location)
		locations = append(locations, location)
	}

	if len(locations) == 0 {
		return "", errors.Join(errs...)
	}
	return strings.Join(locations, " "), nil
}
