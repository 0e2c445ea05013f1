// Package stylize talks to the remote stylization service and runs drawings
// through it to produce movie frames.
package stylize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"
)

// Stylizer turns a PNG drawing into a styled JPEG image.
type Stylizer interface {
	Process(ctx context.Context, drawing []byte, style int) ([]byte, error)
}

// Client is the HTTP client for the stylization service.
// The service accepts a multipart form with an "image" file and a "style" field
// and answers with the styled image as the response body.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a client for endpoint with the given request timeout.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Process uploads one drawing and returns the styled image bytes.
func (c *Client) Process(ctx context.Context, drawing []byte, style int) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", "drawing.png")
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(drawing); err != nil {
		return nil, fmt.Errorf("failed to write drawing: %w", err)
	}
	if err := mw.WriteField("style", strconv.Itoa(style)); err != nil {
		return nil, fmt.Errorf("failed to write style: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stylization request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stylization response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := data
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return nil, fmt.Errorf("stylization service returned %d: %s", resp.StatusCode, string(snippet))
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("stylization service returned an empty image")
	}

	return data, nil
}
