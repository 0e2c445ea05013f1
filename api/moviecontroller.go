package api

import (
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"yourmovie/config"
	"yourmovie/movie"
	"yourmovie/pipeline"

	"github.com/gin-gonic/gin"
)

// NoMovieMessage is shown before the first render
const NoMovieMessage = "You haven't created a movie yet!"

// RegisterMovieRoutes registers the movie creation and viewing endpoints.
func (s *Server) RegisterMovieRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/frames/count", s.handleFrameCount)
	g.PUT("/subtitles", s.handleSubtitles)
	g.POST("/audio", s.handleAudio)
	g.POST("/audio/youtube", s.handleYouTubeAudio)
	g.POST("/movie", s.handleCreateMovie)
	g.GET("/movie", s.handleWatchMovie)
	g.HEAD("/movie", s.handleWatchMovie)
	g.DELETE("/workspace", s.handleReset)
}

// MovieRequest represents the incoming render request structure
type MovieRequest struct {
	FPS           float64 `json:"fps"`
	WithSubtitles bool    `json:"with_subtitles"`
	WithAudio     bool    `json:"with_audio"`
	Publish       bool    `json:"publish"`
}

// YouTubeRequest carries a watch link for the soundtrack
type YouTubeRequest struct {
	Link string `json:"link" binding:"required"`
}

func (s *Server) handleFrameCount(c *gin.Context) {
	n, err := s.ws.CountFrames()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to count frames", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// handleSubtitles accepts the subtitles as a multipart "file" or as the raw body.
func (s *Server) handleSubtitles(c *gin.Context) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, ferr := c.FormFile("file")
		if ferr != nil {
			respondWithError(c, http.StatusBadRequest, "Missing subtitles file", ferr)
			return
		}
		f, ferr := fh.Open()
		if ferr != nil {
			respondWithError(c, http.StatusBadRequest, "Unreadable subtitles file", ferr)
			return
		}
		defer f.Close()
		data, err = io.ReadAll(f)
	} else {
		data, err = io.ReadAll(c.Request.Body)
	}
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Failed to read subtitles", err)
		return
	}

	lines := movie.SplitLines(string(data))
	if len(lines) == 0 {
		respondWithError(c, http.StatusBadRequest, "Subtitles are empty", nil)
		return
	}

	err = s.runner.State().Exclusive(func() error {
		return s.ws.WriteSubtitles(string(data))
	})
	if err != nil {
		respondWithDomainError(c, "Failed to save subtitles", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Subtitles saved",
		"lines":   len(lines),
	})
}

func (s *Server) handleAudio(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Missing audio file", err)
		return
	}
	if strings.ToLower(filepath.Ext(fh.Filename)) != ".mp3" {
		respondWithError(c, http.StatusBadRequest, "Only mp3 files are supported", nil)
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Unreadable audio file", err)
		return
	}
	defer f.Close()

	err = s.runner.State().Exclusive(func() error {
		return s.ws.SaveAudio(f)
	})
	if err != nil {
		respondWithDomainError(c, "Failed to save audio", err)
		return
	}
	respondWithSuccess(c, http.StatusOK, "Audio saved", "")
}

func (s *Server) handleYouTubeAudio(c *gin.Context) {
	var req YouTubeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
		return
	}
	if s.extractor == nil {
		respondWithError(c, http.StatusServiceUnavailable, "YouTube audio is not available", nil)
		return
	}

	link := strings.TrimSpace(req.Link)
	err := s.runner.State().Exclusive(func() error {
		return s.extractor.Extract(c.Request.Context(), link)
	})
	if err != nil {
		respondWithDomainError(c, "Failed to get audio from YouTube", err)
		return
	}
	respondWithSuccess(c, http.StatusOK, "Audio saved", "")
}

// handleCreateMovie validates the request and starts a background render.
func (s *Server) handleCreateMovie(c *gin.Context) {
	req := MovieRequest{FPS: config.DefaultFPS}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
			return
		}
	}
	if req.FPS == 0 {
		req.FPS = config.DefaultFPS
	}

	opts := movie.Options{FPS: req.FPS, WithSubtitles: req.WithSubtitles, WithAudio: req.WithAudio}
	if _, err := s.validator.Validate(opts); err != nil {
		respondWithDomainError(c, "Cannot create movie", err)
		return
	}

	jobID, err := s.runner.StartRender(c.Request.Context(), pipeline.RenderRequest{
		Options: opts,
		Publish: req.Publish,
	})
	if err != nil {
		respondWithDomainError(c, "Cannot create movie", err)
		return
	}

	respondWithSuccess(c, http.StatusAccepted, "Movie rendering started", jobID)
}

func (s *Server) handleWatchMovie(c *gin.Context) {
	if !s.ws.HasMovie() {
		respondWithError(c, http.StatusNotFound, NoMovieMessage, nil)
		return
	}
	c.Header("Content-Type", "video/mp4")
	c.File(s.ws.MoviePath())
}

func (s *Server) handleReset(c *gin.Context) {
	if err := s.runner.State().Exclusive(s.ws.Reset); err != nil {
		respondWithDomainError(c, "Failed to reset workspace", err)
		return
	}
	s.runner.State().AddLog("Workspace cleared")
	respondWithSuccess(c, http.StatusOK, "Workspace cleared", "")
}
