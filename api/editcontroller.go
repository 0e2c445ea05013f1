package api

import (
	"fmt"
	"image"
	"net/http"
	"strconv"

	"yourmovie/canvas"
	"yourmovie/config"
	"yourmovie/workspace"

	"github.com/gin-gonic/gin"
)

// RegisterEditRoutes registers the drawing page endpoints.
func (s *Server) RegisterEditRoutes(r *gin.Engine) {
	g := r.Group("/api")
	g.GET("/palette", s.handlePalette)
	g.GET("/palette/legend.png", s.handleLegend)
	g.GET("/canvas/background.png", s.handleBackground)
	g.POST("/drawings", s.handleSaveDrawing)
	g.POST("/uploads", s.handleUploads)
}

func (s *Server) handlePalette(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"colors": s.palette.Colors(),
		"hex":    s.palette.Hex(),
		"toolbox": gin.H{
			"modes":                canvas.Modes,
			"min_stroke_width":     config.MinStrokeWidth,
			"max_stroke_width":     config.MaxStrokeWidth,
			"default_stroke_width": config.DefaultStrokeWidth,
		},
		"canvas": gin.H{
			"size":    config.CanvasSize,
			"horizon": config.HorizonRow,
		},
	})
}

func (s *Server) handleLegend(c *gin.Context) {
	img, err := canvas.Legend(s.palette)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to draw legend", err)
		return
	}
	writePNG(c, img)
}

func (s *Server) handleBackground(c *gin.Context) {
	writePNG(c, s.painter.Background())
}

func writePNG(c *gin.Context, img image.Image) {
	data, err := canvas.EncodePNG(img)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to encode image", err)
		return
	}
	c.Data(http.StatusOK, "image/png", data)
}

// handleSaveDrawing stores a canvas capture. The page sends save=manual from
// the save button and save=auto from the auto-save toggle.
func (s *Server) handleSaveDrawing(c *gin.Context) {
	mode := c.PostForm("save")
	if mode != "manual" && mode != "auto" {
		respondWithError(c, http.StatusBadRequest, "save must be manual or auto", nil)
		return
	}

	fh, err := c.FormFile("drawing")
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Missing drawing", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Unreadable drawing", err)
		return
	}
	defer f.Close()

	img, _, err := canvas.Decode(f)
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "Drawing is not an image", err)
		return
	}

	path, err := s.ws.SaveDrawing(img)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, "Failed to save drawing", err)
		return
	}

	count, _ := s.ws.CountDrawings()
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Image saved",
		"mode":    mode,
		"path":    path,
		"count":   count,
	})
}

// handleUploads stores uploaded pictures as drawings (process=true) or as
// ready frames (process=false).
func (s *Server) handleUploads(c *gin.Context) {
	process, err := strconv.ParseBool(c.DefaultQuery("process", "true"))
	if err != nil {
		respondWithError(c, http.StatusBadRequest, "process must be true or false", err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil || len(form.File["files"]) == 0 {
		respondWithError(c, http.StatusBadRequest, "Please select files", workspace.ErrNoUploads)
		return
	}

	var uploads []workspace.Upload
	for _, fh := range form.File["files"] {
		f, err := fh.Open()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, fmt.Sprintf("Unreadable file %s", fh.Filename), err)
			return
		}
		defer f.Close()
		uploads = append(uploads, workspace.Upload{Name: fh.Filename, Body: f})
	}

	paths, err := s.ws.SaveUploads(uploads, process)
	if err != nil {
		respondWithDomainError(c, "Failed to save uploads", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Saved %d file(s)", len(paths)),
		"paths":   paths,
	})
}
