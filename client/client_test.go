package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"yourmovie/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestStatusAndCounts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pipeline.StatusResponse{State: pipeline.StateRendering, JobID: "j"})
	})
	mux.HandleFunc("/api/frames/count", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":7}`))
	})
	c := newTestClient(t, mux)

	status, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pipeline.StateRendering, status.State)
	assert.Equal(t, "j", status.JobID)

	n, err := c.FrameCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCreateMovieAndErrors(t *testing.T) {
	var got MovieRequest
	busy := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/movie", func(w http.ResponseWriter, r *http.Request) {
		if busy {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(Response{Message: "Cannot create movie", Error: "another job is already running"})
			return
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(Response{Success: true, JobID: "job-9"})
	})
	c := newTestClient(t, mux)

	id, err := c.CreateMovie(context.Background(), MovieRequest{FPS: 4, WithSubtitles: true})
	require.NoError(t, err)
	assert.Equal(t, "job-9", id)
	assert.Equal(t, 4.0, got.FPS)
	assert.True(t, got.WithSubtitles)

	busy = true
	_, err = c.CreateMovie(context.Background(), MovieRequest{FPS: 4})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "another job is already running", apiErr.Detail)
}

func TestSubtitlesAndUploads(t *testing.T) {
	var subtitles string
	var uploaded []string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/subtitles", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		b, _ := io.ReadAll(r.Body)
		subtitles = string(b)
	})
	mux.HandleFunc("/api/uploads", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "false", r.URL.Query().Get("process"))
		require.NoError(t, r.ParseMultipartForm(1<<20))
		for _, fh := range r.MultipartForm.File["files"] {
			uploaded = append(uploaded, fh.Filename)
		}
		w.WriteHeader(http.StatusCreated)
	})
	c := newTestClient(t, mux)

	require.NoError(t, c.SetSubtitles(context.Background(), "a\nb"))
	assert.Equal(t, "a\nb", subtitles)

	dir := t.TempDir()
	p := filepath.Join(dir, "frame.jpg")
	require.NoError(t, os.WriteFile(p, []byte("jpg"), 0o644))
	require.NoError(t, c.UploadPictures(context.Background(), []string{p}, false))
	assert.Equal(t, []string{"frame.jpg"}, uploaded)
}

func TestMovieDownload(t *testing.T) {
	ready := false
	mux := http.NewServeMux()
	mux.HandleFunc("/api/movie", func(w http.ResponseWriter, r *http.Request) {
		if !ready {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("mp4"))
	})
	c := newTestClient(t, mux)

	ok, err := c.MovieAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, c.DownloadMovie(context.Background(), io.Discard), ErrNoMovie)

	ready = true
	ok, err = c.MovieAvailable(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, c.DownloadMovie(context.Background(), &buf))
	assert.Equal(t, "mp4", buf.String())
}
