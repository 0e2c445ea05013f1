package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterLibraryRoutes registers the published movie endpoints.
func (s *Server) RegisterLibraryRoutes(r *gin.Engine) {
	g := r.Group("/api/movies", s.requireLibrary)
	g.GET("", s.handleListMovies)
	g.GET("/:job", s.handlePublishedMovie)
	g.DELETE("/:job", s.handleDeleteMovie)
}

func (s *Server) requireLibrary(c *gin.Context) {
	if s.library == nil {
		respondWithError(c, http.StatusServiceUnavailable, "Movie storage is not configured", nil)
		return
	}
	c.Next()
}

func (s *Server) handleListMovies(c *gin.Context) {
	jobs, err := s.library.ListMovies(c.Request.Context())
	if err != nil {
		respondWithError(c, http.StatusBadGateway, "Failed to list movies", err)
		return
	}
	if jobs == nil {
		jobs = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"movies": jobs, "count": len(jobs)})
}

func (s *Server) handlePublishedMovie(c *gin.Context) {
	body, err := s.library.OpenMovie(c.Request.Context(), c.Param("job"))
	if err != nil {
		respondWithDomainError(c, "Failed to open movie", err)
		return
	}
	defer body.Close()

	c.Header("Content-Type", "video/mp4")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		s.logger.Warn("movie stream interrupted", "job", c.Param("job"), "error", err)
	}
}

func (s *Server) handleDeleteMovie(c *gin.Context) {
	job := c.Param("job")
	if err := s.library.DeleteMovie(c.Request.Context(), job); err != nil {
		respondWithDomainError(c, "Failed to delete movie", err)
		return
	}
	s.runner.State().AddLog("Deleted published movie " + job)
	respondWithSuccess(c, http.StatusOK, "Movie deleted", job)
}
