// Package pipeline runs stylization and movie jobs one at a time and tracks
// their state for the status endpoint.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/publish"
	"yourmovie/stylize"

	"github.com/google/uuid"
)

// Processor stylizes the workspace drawings.
type Processor interface {
	MakeNature(ctx context.Context, styles []string, progress stylize.ProgressFunc) (stylize.Result, error)
}

// Builder renders the workspace frames into a movie.
type Builder interface {
	Build(ctx context.Context, opts movie.Options) (string, error)
}

// Runner executes jobs against the shared state
type Runner struct {
	state     *Manager
	processor Processor
	builder   Builder
	publisher publish.Publisher
	frames    func() (int, error)
}

// NewRunner creates a new runner. publisher may be nil.
func NewRunner(state *Manager, processor Processor, builder Builder, publisher publish.Publisher, frames func() (int, error)) *Runner {
	return &Runner{
		state:     state,
		processor: processor,
		builder:   builder,
		publisher: publisher,
		frames:    frames,
	}
}

// State returns the shared state manager
func (r *Runner) State() *Manager {
	return r.state
}

// Process stylizes every drawing with the chosen styles.
func (r *Runner) Process(ctx context.Context, styles []string) (stylize.Result, error) {
	if err := r.state.Begin(StateProcessing, ""); err != nil {
		return stylize.Result{}, err
	}
	r.state.AddLog(fmt.Sprintf("Processing drawings with %d style(s)...", max(len(styles), 1)))

	res, err := r.processor.MakeNature(ctx, styles, r.state.SetProgress)
	if err != nil {
		r.state.SetError(fmt.Errorf("process: %w", err))
		return res, err
	}

	r.state.FinishProcess(res)
	return res, nil
}

// StartRender claims the runner and renders in the background. It returns the
// job id; progress is reported through the state manager.
func (r *Runner) StartRender(ctx context.Context, req RenderRequest) (string, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	if err := r.state.Begin(StateRendering, req.JobID); err != nil {
		return "", err
	}

	bg := context.WithoutCancel(ctx)
	go func() {
		_, _ = r.render(bg, req)
	}()
	return req.JobID, nil
}

// Render builds a movie synchronously, publishing it when asked.
func (r *Runner) Render(ctx context.Context, req RenderRequest) (JobResult, error) {
	if req.JobID == "" {
		req.JobID = uuid.NewString()
	}
	if err := r.state.Begin(StateRendering, req.JobID); err != nil {
		return JobResult{}, err
	}
	return r.render(ctx, req)
}

func (r *Runner) render(ctx context.Context, req RenderRequest) (JobResult, error) {
	log := logging.From(ctx).With("job", req.JobID)
	ctx = logging.With(ctx, log)

	r.state.AddLog(fmt.Sprintf("Rendering movie %s at %.1f fps...", req.JobID, req.Options.FPS))

	path, err := r.builder.Build(ctx, req.Options)
	if err != nil {
		r.state.SetError(fmt.Errorf("render: %w", err))
		return JobResult{}, err
	}

	res := JobResult{JobID: req.JobID, MoviePath: path}

	if req.Publish && r.publisher != nil {
		r.state.SetState(StatePublishing)
		r.state.AddLog("Publishing movie...")

		frames := 0
		if r.frames != nil {
			frames, _ = r.frames()
		}
		location, err := r.publisher.Publish(ctx, path, publish.NewMetadata(req.JobID, frames, req.Options.FPS))
		if err != nil {
			r.state.SetError(fmt.Errorf("publish: %w", err))
			return res, err
		}
		res.Location = location
	}

	res.FinishedAt = time.Now()
	r.state.FinishJob(res)
	log.Info("job complete", "path", path, "location", res.Location)
	return res, nil
}
