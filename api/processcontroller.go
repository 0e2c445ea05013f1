package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterProcessRoutes registers the stylization page endpoints.
func (s *Server) RegisterProcessRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/styles", s.handleStyles)
	g.GET("/drawings/count", s.handleDrawingCount)
	g.POST("/process", s.handleProcess)
}

// ProcessRequest selects the styles to apply; empty means the default style
type ProcessRequest struct {
	Styles []string `json:"styles"`
}

func (s *Server) handleStyles(c *gin.Context) {
	c.JSON(http.StatusOK, s.catalog)
}

func (s *Server) handleDrawingCount(c *gin.Context) {
	n, err := s.ws.CountDrawings()
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to count drawings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// handleProcess runs every drawing through the chosen styles and reports how
// many frames were made.
func (s *Server) handleProcess(c *gin.Context) {
	var req ProcessRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, "Invalid JSON payload", err)
			return
		}
	}
	if _, err := s.catalog.Resolve(req.Styles); err != nil {
		respondWithDomainError(c, "Unknown style", err)
		return
	}

	res, err := s.runner.Process(c.Request.Context(), req.Styles)
	if err != nil {
		respondWithDomainError(c, "Processing failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Processing finished",
		"result":  res,
	})
}
