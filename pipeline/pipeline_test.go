package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"yourmovie/movie"
	"yourmovie/publish"
	"yourmovie/stylize"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProcessor struct {
	res stylize.Result
	err error
}

func (f *fakeProcessor) MakeNature(_ context.Context, _ []string, progress stylize.ProgressFunc) (stylize.Result, error) {
	if progress != nil {
		progress(1, 2)
		progress(2, 2)
	}
	return f.res, f.err
}

type fakeBuilder struct {
	mu      sync.Mutex
	release chan struct{}
	err     error
	opts    []movie.Options
}

func (f *fakeBuilder) Build(_ context.Context, opts movie.Options) (string, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	f.opts = append(f.opts, opts)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return "/work/files/final_movie.mp4", nil
}

type fakePublisher struct {
	meta publish.Metadata
	err  error
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(_ context.Context, _ string, meta publish.Metadata) (string, error) {
	f.meta = meta
	return "s3://bucket/" + meta.JobID, f.err
}

func TestManagerLogRingBuffer(t *testing.T) {
	m := NewManager()
	for i := 0; i < 60; i++ {
		m.AddLog(fmt.Sprintf("line %d", i))
	}
	status := m.GetStatus()
	require.Len(t, status.Logs, 50)
	assert.Equal(t, "line 10", status.Logs[0].Message)
	assert.Equal(t, "line 59", status.Logs[49].Message)
}

func TestManagerBegin(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.Begin(StateProcessing, ""))
	assert.ErrorIs(t, m.Begin(StateRendering, "x"), ErrBusy)

	m.SetError(errors.New("boom"))
	status := m.GetStatus()
	assert.Equal(t, StateError, status.State)
	assert.Equal(t, "boom", status.Error)

	require.NoError(t, m.Begin(StateRendering, "job"))
	status = m.GetStatus()
	assert.Empty(t, status.Error)
	assert.Equal(t, "job", status.JobID)
}

func TestManagerExclusive(t *testing.T) {
	m := NewManager()

	ran := false
	require.NoError(t, m.Exclusive(func() error {
		ran = true
		assert.ErrorIs(t, m.Begin(StateRendering, "job"), ErrBusy)
		assert.ErrorIs(t, m.Exclusive(func() error { return nil }), ErrBusy)
		return nil
	}))
	assert.True(t, ran)
	assert.Equal(t, StateIdle, m.GetState())

	boom := errors.New("disk full")
	assert.ErrorIs(t, m.Exclusive(func() error { return boom }), boom)

	require.NoError(t, m.Begin(StateRendering, "job"))
	assert.ErrorIs(t, m.Exclusive(func() error {
		t.Fatal("ran while a job was running")
		return nil
	}), ErrBusy)
}

func TestProcess(t *testing.T) {
	m := NewManager()
	r := NewRunner(m, &fakeProcessor{res: stylize.Result{Success: 3, Failure: 1}}, &fakeBuilder{}, nil, nil)

	res, err := r.Process(context.Background(), []string{"Sunset 1"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Success)

	status := m.GetStatus()
	assert.Equal(t, StateIdle, status.State)
	assert.Equal(t, Progress{Done: 2, Total: 2}, status.Progress)
	require.NotNil(t, status.LastProcess)
	assert.Equal(t, 1, status.LastProcess.Failure)
}

func TestProcessError(t *testing.T) {
	m := NewManager()
	r := NewRunner(m, &fakeProcessor{err: stylize.ErrNoDrawings}, &fakeBuilder{}, nil, nil)

	_, err := r.Process(context.Background(), nil)
	assert.ErrorIs(t, err, stylize.ErrNoDrawings)
	assert.Equal(t, StateError, m.GetState())
}

func TestRenderAndPublish(t *testing.T) {
	m := NewManager()
	pub := &fakePublisher{}
	b := &fakeBuilder{}
	r := NewRunner(m, &fakeProcessor{}, b, pub, func() (int, error) { return 6, nil })

	res, err := r.Render(context.Background(), RenderRequest{
		JobID:   "job-1",
		Options: movie.Options{FPS: 2, WithAudio: true},
		Publish: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/job-1", res.Location)
	assert.Equal(t, "job-1", pub.meta.JobID)
	assert.Contains(t, pub.meta.Description, "6 painted frames")
	assert.True(t, b.opts[0].WithAudio)

	status := m.GetStatus()
	assert.Equal(t, StateComplete, status.State)
	require.NotNil(t, status.LastJob)
	assert.Equal(t, "/work/files/final_movie.mp4", status.LastJob.MoviePath)
}

func TestRenderPublishFailure(t *testing.T) {
	m := NewManager()
	r := NewRunner(m, &fakeProcessor{}, &fakeBuilder{}, &fakePublisher{err: errors.New("denied")}, nil)

	_, err := r.Render(context.Background(), RenderRequest{Options: movie.DefaultOptions(), Publish: true})
	require.Error(t, err)
	assert.Equal(t, StateError, m.GetState())
	assert.Contains(t, m.GetStatus().Error, "publish: denied")
}

func TestStartRenderIsExclusive(t *testing.T) {
	m := NewManager()
	b := &fakeBuilder{release: make(chan struct{})}
	r := NewRunner(m, &fakeProcessor{}, b, nil, nil)

	id, err := r.StartRender(context.Background(), RenderRequest{Options: movie.DefaultOptions()})
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.Equal(t, StateRendering, m.GetState())

	_, err = r.StartRender(context.Background(), RenderRequest{Options: movie.DefaultOptions()})
	assert.ErrorIs(t, err, ErrBusy)
	_, err = r.Process(context.Background(), nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(b.release)
	require.Eventually(t, func() bool {
		return m.GetState() == StateComplete
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, id, m.GetStatus().LastJob.JobID)
}
