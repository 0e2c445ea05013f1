package stylize

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"yourmovie/logging"
	"yourmovie/workspace"
)

// ErrNoDrawings is returned when there is nothing to stylize.
var ErrNoDrawings = errors.New("there are no drawings to process")

// Result counts the outcome of a MakeNature run.
type Result struct {
	Success int      `json:"success"`
	Failure int      `json:"failure"`
	Frames  []string `json:"frames,omitempty"`
}

// ProgressFunc is called after every stylization attempt.
type ProgressFunc func(done, total int)

// Processor turns every drawing of a workspace into frames, one per style.
type Processor struct {
	ws       *workspace.Workspace
	stylizer Stylizer
	detector *ErrorDetector
	catalog  *Catalog
}

// NewProcessor creates a processor. detector may be nil.
func NewProcessor(ws *workspace.Workspace, stylizer Stylizer, detector *ErrorDetector, catalog *Catalog) *Processor {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	return &Processor{ws: ws, stylizer: stylizer, detector: detector, catalog: catalog}
}

// Catalog returns the styles the processor accepts.
func (p *Processor) Catalog() *Catalog {
	return p.catalog
}

// MakeNature sends each drawing, in creation order, through every selected
// style. The result for drawing d and style index j is written as <d><j>.jpg.
// Service errors and error images count as failures without stopping the run.
func (p *Processor) MakeNature(ctx context.Context, styleNames []string, progress ProgressFunc) (Result, error) {
	styles, err := p.catalog.Resolve(styleNames)
	if err != nil {
		return Result{}, err
	}

	drawings, err := p.ws.Drawings()
	if err != nil {
		return Result{}, fmt.Errorf("failed to list drawings: %w", err)
	}
	if len(drawings) == 0 {
		return Result{}, ErrNoDrawings
	}

	log := logging.From(ctx)
	total := len(drawings) * len(styles)
	done := 0
	var res Result

	for _, drawing := range drawings {
		data, err := os.ReadFile(drawing)
		if err != nil {
			return res, fmt.Errorf("failed to read drawing %s: %w", drawing, err)
		}
		base := strings.TrimSuffix(filepath.Base(drawing), filepath.Ext(drawing))

		for j, style := range styles {
			if err := ctx.Err(); err != nil {
				return res, err
			}

			frame, err := p.stylizer.Process(ctx, data, style.Number)
			switch {
			case err != nil:
				log.Warn("stylization failed", "drawing", base, "style", style.Name, "error", err)
				res.Failure++
			case p.detector.Matches(frame):
				log.Info("stylization returned the error image", "drawing", base, "style", style.Name)
				res.Failure++
			default:
				path, err := p.ws.WriteFrame(fmt.Sprintf("%s%d.jpg", base, j), frame)
				if err != nil {
					return res, err
				}
				res.Success++
				res.Frames = append(res.Frames, path)
			}

			done++
			if progress != nil {
				progress(done, total)
			}
		}
	}

	log.Info("stylization finished", "success", res.Success, "failure", res.Failure)
	return res, nil
}
