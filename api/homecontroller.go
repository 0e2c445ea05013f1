package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHomeRoutes registers the homepage, health and status endpoints.
func (s *Server) RegisterHomeRoutes(r *gin.Engine) {
	r.GET("/", s.handleIndex)
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/status", s.handleStatus)
}

func (s *Server) handleIndex(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Page not available", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.runner.State().GetStatus())
}
