package api

import (
	"errors"
	"net/http"

	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/pipeline"
	"yourmovie/publish"
	"yourmovie/soundtrack"
	"yourmovie/stylize"
	"yourmovie/workspace"

	"github.com/gin-gonic/gin"
)

// Response represents the API response structure
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	JobID   string `json:"job_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// badRequestErrors are user mistakes reported with 400
var badRequestErrors = []error{
	workspace.ErrNoUploads,
	workspace.ErrUnsupportedUpload,
	stylize.ErrUnknownStyle,
	stylize.ErrNoDrawings,
	movie.ErrNoFrames,
	movie.ErrSubtitlesMissing,
	movie.ErrAudioMissing,
	movie.ErrInvalidFPS,
	soundtrack.ErrInvalidYouTubeLink,
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	if errors.Is(err, pipeline.ErrBusy) {
		return http.StatusConflict
	}
	if errors.Is(err, publish.ErrNotPublished) {
		return http.StatusNotFound
	}
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondWithError sends an error response
func respondWithError(c *gin.Context, statusCode int, message string, err error) {
	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
		logging.From(c.Request.Context()).Warn("api error", "message", message, "status", statusCode, "error", err)
	}

	c.AbortWithStatusJSON(statusCode, response)
}

// respondWithDomainError picks the status code from err
func respondWithDomainError(c *gin.Context, message string, err error) {
	respondWithError(c, statusFor(err), message, err)
}

// respondWithSuccess sends a success response
func respondWithSuccess(c *gin.Context, statusCode int, message string, jobID string) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		JobID:   jobID,
	})
}
