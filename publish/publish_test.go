package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	name     string
	location string
	err      error
	calls    int
}

func (f *fakePublisher) Name() string { return f.name }

func (f *fakePublisher) Publish(ctx context.Context, path string, meta Metadata) (string, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return "", errors.New("publish without deadline")
	}
	return f.location, f.err
}

func writeMovie(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "final_movie.mp4")
	require.NoError(t, os.WriteFile(path, []byte("mp4-bytes"), 0o644))
	return path
}

func TestMultiPublish(t *testing.T) {
	a := &fakePublisher{name: "a", location: "s3://bucket/movie.mp4"}
	b := &fakePublisher{name: "b", err: errors.New("quota exceeded")}
	c := &fakePublisher{name: "c", location: "https://www.youtube.com/watch?v=abc"}

	m := NewMulti(a, nil, b, c)
	assert.Equal(t, 3, m.Len())

	location, err := m.Publish(context.Background(), "movie.mp4", NewMetadata("job-1", 4, 3))
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/movie.mp4 https://www.youtube.com/watch?v=abc", location)
	assert.Equal(t, 1, b.calls)
}

func TestMultiPublishAllFail(t *testing.T) {
	m := NewMulti(&fakePublisher{name: "a", err: errors.New("down")})
	_, err := m.Publish(context.Background(), "movie.mp4", Metadata{JobID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a: down")

	location, err := NewMulti().Publish(context.Background(), "movie.mp4", Metadata{})
	require.NoError(t, err)
	assert.Empty(t, location)
}

func TestNewMetadata(t *testing.T) {
	meta := NewMetadata("job-42", 12, 2.5)
	assert.Equal(t, "job-42", meta.JobID)
	assert.True(t, strings.HasPrefix(meta.Title, "Your Movie "))
	assert.Contains(t, meta.Description, "12 painted frames at 2.5 fps")
	assert.NotEmpty(t, meta.Tags)
}

func TestYouTubeVideoMetadata(t *testing.T) {
	y := NewYouTubeFromService(nil)
	v := y.video(Metadata{Title: strings.Repeat("t", 150), Description: "d", Tags: []string{"x"}})

	assert.Len(t, v.Snippet.Title, 100)
	assert.True(t, strings.HasSuffix(v.Snippet.Title, "..."))
	assert.Equal(t, "1", v.Snippet.CategoryId)
	assert.Equal(t, "unlisted", v.Status.PrivacyStatus)
}

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]string
	puts    int
}

func (b *fakeBucket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/movies-bucket"), "/")
	switch {
	case r.Method == http.MethodGet && key == "":
		b.list(w, r.URL.Query().Get("prefix"))
	case r.Method == http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = string(data)
		b.puts++
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodHead:
		if _, ok := b.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case r.Method == http.MethodGet:
		data, ok := b.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		fmt.Fprint(w, data)
	case r.Method == http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBucket) list(w http.ResponseWriter, prefix string) {
	var keys []string
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	w.Header().Set("Content-Type", "application/xml")
	fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>`)
	fmt.Fprintf(w, `<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/"><Name>movies-bucket</Name><Prefix>%s</Prefix><KeyCount>%d</KeyCount><IsTruncated>false</IsTruncated>`, prefix, len(keys))
	for _, k := range keys {
		fmt.Fprintf(w, `<Contents><Key>%s</Key><Size>%d</Size></Contents>`, k, len(b.objects[k]))
	}
	fmt.Fprint(w, `</ListBucketResult>`)
}

func newTestS3(t *testing.T) (*S3, *fakeBucket) {
	t.Helper()
	bucket := &fakeBucket{objects: map[string]string{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(srv.URL),
		Region:       "us-east-1",
		UsePathStyle: true,
		Credentials:  aws.AnonymousCredentials{},
	})
	return NewS3FromClient(client, "movies-bucket", "yourmovie/"), bucket
}

func TestS3PublishSkipsPublishedJobs(t *testing.T) {
	s, bucket := newTestS3(t)
	ctx := context.Background()

	assert.Equal(t, "yourmovie/movies/job-1.mp4", s.MovieKey("job-1"))

	published, err := s.HasMovie(ctx, "job-1")
	require.NoError(t, err)
	assert.False(t, published)

	location, err := s.Publish(ctx, writeMovie(t), Metadata{JobID: "job-1", Title: "t"})
	require.NoError(t, err)
	assert.Equal(t, "s3://movies-bucket/yourmovie/movies/job-1.mp4", location)
	assert.Contains(t, bucket.objects, "yourmovie/movies/job-1.mp4")

	published, err = s.HasMovie(ctx, "job-1")
	require.NoError(t, err)
	assert.True(t, published)

	again, err := s.Publish(ctx, writeMovie(t), Metadata{JobID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, location, again)
	assert.Equal(t, 1, bucket.puts)
}

func TestS3MovieLibrary(t *testing.T) {
	s, bucket := newTestS3(t)
	ctx := context.Background()
	bucket.objects["yourmovie/movies/job-1.mp4"] = "first"
	bucket.objects["yourmovie/movies/job-2.mp4"] = "second"
	bucket.objects["yourmovie/movies/notes.txt"] = "skip"
	bucket.objects["other/movies/job-3.mp4"] = "other prefix"

	jobs, err := s.ListMovies(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-1", "job-2"}, jobs)

	body, err := s.OpenMovie(ctx, "job-2")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	require.NoError(t, body.Close())
	assert.Equal(t, "second", string(data))

	_, err = s.OpenMovie(ctx, "job-9")
	assert.ErrorIs(t, err, ErrNotPublished)

	require.NoError(t, s.DeleteMovie(ctx, "job-1"))
	assert.NotContains(t, bucket.objects, "yourmovie/movies/job-1.mp4")
	assert.ErrorIs(t, s.DeleteMovie(ctx, "job-1"), ErrNotPublished)
}

func TestS3PublishMissingFile(t *testing.T) {
	s, _ := newTestS3(t)
	_, err := s.Publish(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"), Metadata{JobID: "x"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
