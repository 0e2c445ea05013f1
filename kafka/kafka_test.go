package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"yourmovie/movie"
	"yourmovie/pipeline"
	"yourmovie/stylize"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	processed  [][]string
	rendered   []pipeline.RenderRequest
	processErr error
	renderErr  error
	// busyRenders answers ErrBusy to that many renders first
	busyRenders int
}

func (f *fakeRunner) Process(_ context.Context, styles []string) (stylize.Result, error) {
	f.processed = append(f.processed, styles)
	return stylize.Result{}, f.processErr
}

func (f *fakeRunner) Render(_ context.Context, req pipeline.RenderRequest) (pipeline.JobResult, error) {
	f.rendered = append(f.rendered, req)
	if f.busyRenders > 0 {
		f.busyRenders--
		return pipeline.JobResult{}, pipeline.ErrBusy
	}
	return pipeline.JobResult{JobID: req.JobID}, f.renderErr
}

func TestMovieHandler(t *testing.T) {
	r := &fakeRunner{}
	h := NewMovieHandler(r)

	mark, err := h.HandleMessage(context.Background(),
		[]byte(`{"job_id":"j1","styles":["Sunset 1"],"fps":2.5,"with_audio":true,"publish":true}`))
	require.NoError(t, err)
	assert.True(t, mark)

	require.Len(t, r.processed, 1)
	assert.Equal(t, []string{"Sunset 1"}, r.processed[0])
	require.Len(t, r.rendered, 1)
	assert.Equal(t, pipeline.RenderRequest{
		JobID:   "j1",
		Options: movie.Options{FPS: 2.5, WithAudio: true},
		Publish: true,
	}, r.rendered[0])
}

func TestMovieHandlerDefaultsFPS(t *testing.T) {
	r := &fakeRunner{}
	mark, err := NewMovieHandler(r).HandleMessage(context.Background(), []byte(`{"job_id":"j2"}`))
	require.NoError(t, err)
	assert.True(t, mark)
	assert.Empty(t, r.processed)
	assert.Equal(t, 3.0, r.rendered[0].Options.FPS)
}

func TestMovieHandlerSkipsBadMessages(t *testing.T) {
	r := &fakeRunner{}
	h := NewMovieHandler(r)

	mark, err := h.HandleMessage(context.Background(), []byte(`not json`))
	require.NoError(t, err)
	assert.True(t, mark)

	mark, err = h.HandleMessage(context.Background(), []byte(`{"fps":99}`))
	require.NoError(t, err)
	assert.True(t, mark)
	assert.Empty(t, r.rendered)
}

func TestMovieHandlerFailures(t *testing.T) {
	t.Run("busy leaves the message unmarked", func(t *testing.T) {
		r := &fakeRunner{renderErr: pipeline.ErrBusy}
		mark, err := NewMovieHandler(r).HandleMessage(context.Background(), []byte(`{}`))
		assert.ErrorIs(t, err, pipeline.ErrBusy)
		assert.False(t, mark)
	})

	t.Run("render failure is skipped", func(t *testing.T) {
		r := &fakeRunner{renderErr: movie.ErrNoFrames}
		mark, err := NewMovieHandler(r).HandleMessage(context.Background(), []byte(`{}`))
		require.NoError(t, err)
		assert.True(t, mark)
	})

	t.Run("process failure stops before render", func(t *testing.T) {
		r := &fakeRunner{processErr: errors.New("no drawings")}
		mark, err := NewMovieHandler(r).HandleMessage(context.Background(), []byte(`{"styles":["Sunset 1"]}`))
		require.NoError(t, err)
		assert.True(t, mark)
		assert.Empty(t, r.rendered)
	})
}

func TestNewConsumerRequiresBrokers(t *testing.T) {
	_, err := NewConsumer(ConsumerConfig{Topic: "movie-requests", GroupID: "g"})
	assert.Error(t, err)
}

type fakeSession struct {
	sarama.ConsumerGroupSession
	ctx    context.Context
	marked []int64
}

func (s *fakeSession) Context() context.Context { return s.ctx }

func (s *fakeSession) MarkMessage(msg *sarama.ConsumerMessage, _ string) {
	s.marked = append(s.marked, msg.Offset)
}

type fakeClaim struct {
	sarama.ConsumerGroupClaim
	messages chan *sarama.ConsumerMessage
}

func (c *fakeClaim) Messages() <-chan *sarama.ConsumerMessage { return c.messages }

func newClaim(msgs ...*sarama.ConsumerMessage) *fakeClaim {
	c := &fakeClaim{messages: make(chan *sarama.ConsumerMessage, len(msgs))}
	for _, m := range msgs {
		c.messages <- m
	}
	close(c.messages)
	return c
}

func TestConsumeClaimRetriesBusyRunner(t *testing.T) {
	r := &fakeRunner{busyRenders: 2}
	h := &consumerGroupHandler{
		messageHandler: NewMovieHandler(r),
		retryDelay:     time.Millisecond,
		maxRetryDelay:  2 * time.Millisecond,
	}
	session := &fakeSession{ctx: context.Background()}
	claim := newClaim(
		&sarama.ConsumerMessage{Offset: 10, Value: []byte(`{"job_id":"a"}`)},
		&sarama.ConsumerMessage{Offset: 11, Value: []byte(`{"job_id":"b"}`)},
	)

	require.NoError(t, h.ConsumeClaim(session, claim))

	var jobs []string
	for _, req := range r.rendered {
		jobs = append(jobs, req.JobID)
	}
	assert.Equal(t, []string{"a", "a", "a", "b"}, jobs)
	assert.Equal(t, []int64{10, 11}, session.marked)
}

func TestConsumeClaimStopsRetryingOnCancel(t *testing.T) {
	r := &fakeRunner{busyRenders: 1 << 30}
	h := &consumerGroupHandler{
		messageHandler: NewMovieHandler(r),
		retryDelay:     time.Millisecond,
		maxRetryDelay:  time.Millisecond,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	session := &fakeSession{ctx: ctx}

	require.NoError(t, h.ConsumeClaim(session, newClaim(
		&sarama.ConsumerMessage{Offset: 10, Value: []byte(`{"job_id":"a"}`)},
		&sarama.ConsumerMessage{Offset: 11, Value: []byte(`{"job_id":"b"}`)},
	)))

	assert.Empty(t, session.marked)
	assert.NotEmpty(t, r.rendered)
	for _, req := range r.rendered {
		assert.Equal(t, "a", req.JobID)
	}
}
