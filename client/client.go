// Package client is a thin HTTP client for the studio API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"yourmovie/pipeline"
	"yourmovie/stylize"
)

// ErrNoMovie is returned by DownloadMovie before the first render.
var ErrNoMovie = errors.New(NoMovieMessage)

// Client talks to a running studio server
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new client. Long operations such as processing are
// bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server address
func (c *Client) BaseURL() string { return c.baseURL }

// APIError is a non-2xx answer from the server
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API returned %d: %s: %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, e.Message)
}

// doRequest sends body with contentType and decodes a JSON answer into result.
// If result is nil, the response body is not decoded.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string, result any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(bodyBytes)}
		var r Response
		if json.Unmarshal(bodyBytes, &r) == nil && r.Message != "" {
			apiErr.Message, apiErr.Detail = r.Message, r.Error
		}
		return apiErr
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// doJSONRequest marshals payload (when non-nil) as the request body.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}
	return c.doRequest(ctx, method, path, body, contentType, result)
}

// Status fetches the current status
func (c *Client) Status(ctx context.Context) (*pipeline.StatusResponse, error) {
	var status pipeline.StatusResponse
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Styles fetches the style catalog
func (c *Client) Styles(ctx context.Context) (*stylize.Catalog, error) {
	var catalog stylize.Catalog
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/styles", nil, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

type countResponse struct {
	Count int `json:"count"`
}

// DrawingCount returns how many drawings wait for processing
func (c *Client) DrawingCount(ctx context.Context) (int, error) {
	var r countResponse
	err := c.doJSONRequest(ctx, http.MethodGet, "/api/drawings/count", nil, &r)
	return r.Count, err
}

// FrameCount returns how many frames the movie would have
func (c *Client) FrameCount(ctx context.Context) (int, error) {
	var r countResponse
	err := c.doJSONRequest(ctx, http.MethodGet, "/api/frames/count", nil, &r)
	return r.Count, err
}

// Process runs the drawings through styles
func (c *Client) Process(ctx context.Context, styles []string) (stylize.Result, error) {
	var r struct {
		Result stylize.Result `json:"result"`
	}
	err := c.doJSONRequest(ctx, http.MethodPost, "/api/process", processRequest{Styles: styles}, &r)
	return r.Result, err
}

// CreateMovie starts a render and returns its job id
func (c *Client) CreateMovie(ctx context.Context, req MovieRequest) (string, error) {
	var r Response
	if err := c.doJSONRequest(ctx, http.MethodPost, "/api/movie", req, &r); err != nil {
		return "", err
	}
	return r.JobID, nil
}

// SetSubtitles stores subtitle text, one line per subtitle
func (c *Client) SetSubtitles(ctx context.Context, text string) error {
	return c.doRequest(ctx, http.MethodPut, "/api/subtitles", bytes.NewReader([]byte(text)), "text/plain; charset=utf-8", nil)
}

// YouTubeAudio uses the audio of a YouTube video as soundtrack
func (c *Client) YouTubeAudio(ctx context.Context, link string) error {
	return c.doJSONRequest(ctx, http.MethodPost, "/api/audio/youtube", youtubeRequest{Link: link}, nil)
}

// UploadAudio sends a local mp3 as soundtrack
func (c *Client) UploadAudio(ctx context.Context, path string) error {
	body, contentType, err := multipartFiles("file", []string{path})
	if err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, "/api/audio", body, contentType, nil)
}

// UploadPictures sends local pictures as drawings (process) or frames
func (c *Client) UploadPictures(ctx context.Context, paths []string, process bool) error {
	body, contentType, err := multipartFiles("files", paths)
	if err != nil {
		return err
	}
	return c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/uploads?process=%t", process), body, contentType, nil)
}

// Reset clears the workspace
func (c *Client) Reset(ctx context.Context) error {
	return c.doJSONRequest(ctx, http.MethodDelete, "/api/workspace", nil, nil)
}

// MovieAvailable reports whether a rendered movie can be watched
func (c *Client) MovieAvailable(ctx context.Context) (bool, error) {
	err := c.doRequest(ctx, http.MethodHead, "/api/movie", nil, "", nil)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return err == nil, err
}

// DownloadMovie writes the rendered movie to w
func (c *Client) DownloadMovie(ctx context.Context, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/movie", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNoMovie
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func multipartFiles(field string, paths []string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, "", err
		}
		part, err := mw.CreateFormFile(field, filepath.Base(p))
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
