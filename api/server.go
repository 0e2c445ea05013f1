package api

import (
	"context"
	"embed"
	"io"
	"log/slog"
	"time"

	"yourmovie/canvas"
	"yourmovie/config"
	"yourmovie/logging"
	"yourmovie/movie"
	"yourmovie/palette"
	"yourmovie/pipeline"
	"yourmovie/stylize"
	"yourmovie/workspace"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

//go:embed web/index.html
var webFS embed.FS

// MovieValidator checks render options before a job is queued.
type MovieValidator interface {
	Validate(opts movie.Options) ([]string, error)
}

// AudioExtractor fetches a soundtrack from a YouTube link.
type AudioExtractor interface {
	Extract(ctx context.Context, link string) error
}

// MovieLibrary gives access to movies that were published to storage.
type MovieLibrary interface {
	ListMovies(ctx context.Context) ([]string, error)
	OpenMovie(ctx context.Context, jobID string) (io.ReadCloser, error)
	DeleteMovie(ctx context.Context, jobID string) error
}

// Server serves the studio pages over HTTP
type Server struct {
	ws        *workspace.Workspace
	palette   *palette.Palette
	painter   *canvas.Painter
	catalog   *stylize.Catalog
	runner    *pipeline.Runner
	validator MovieValidator
	extractor AudioExtractor
	library   MovieLibrary
	logger    *slog.Logger
}

// Deps groups everything the server needs.
type Deps struct {
	Workspace *workspace.Workspace
	Palette   *palette.Palette
	Painter   *canvas.Painter
	Catalog   *stylize.Catalog
	Runner    *pipeline.Runner
	Validator MovieValidator
	Extractor AudioExtractor
	// Library is optional; the published movie routes answer 503 without it
	Library MovieLibrary
	Logger  *slog.Logger
}

// NewServer creates a new API server instance
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logging.L()
	}
	if d.Catalog == nil {
		d.Catalog = stylize.DefaultCatalog()
	}
	return &Server{
		ws:        d.Workspace,
		palette:   d.Palette,
		painter:   d.Painter,
		catalog:   d.Catalog,
		runner:    d.Runner,
		validator: d.Validator,
		extractor: d.Extractor,
		library:   d.Library,
		logger:    d.Logger,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func (s *Server) NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.MaxMultipartMemory = config.MaxUploadBytes

	s.RegisterHomeRoutes(r)
	s.RegisterEditRoutes(r)
	s.RegisterProcessRoutes(r)
	s.RegisterMovieRoutes(r)
	s.RegisterLibraryRoutes(r)
	return r
}

// requestLogger attaches a request-scoped logger and logs every request once.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger := s.logger.With("request_id", uuid.NewString())
		c.Request = c.Request.WithContext(logging.With(c.Request.Context(), logger))

		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
