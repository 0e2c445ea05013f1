// Package studio is a terminal front end for the movie studio server. It is
// a thin client: every page reads its data over the REST API and the
// pipeline state is polled.
package studio

import (
	"context"
	"fmt"

	"yourmovie/client"
	"yourmovie/config"
	"yourmovie/pipeline"
	"yourmovie/stylize"

	tea "github.com/charmbracelet/bubbletea"
)

// API is the part of the studio client the TUI uses.
type API interface {
	BaseURL() string
	Status(ctx context.Context) (*pipeline.StatusResponse, error)
	Styles(ctx context.Context) (*stylize.Catalog, error)
	DrawingCount(ctx context.Context) (int, error)
	FrameCount(ctx context.Context) (int, error)
	Process(ctx context.Context, styles []string) (stylize.Result, error)
	CreateMovie(ctx context.Context, req client.MovieRequest) (string, error)
	MovieAvailable(ctx context.Context) (bool, error)
	Reset(ctx context.Context) error
}

var _ API = (*client.Client)(nil)

// Page is one of the studio pages.
type Page int

const (
	PageHome Page = iota
	PageEdit
	PageProcess
	PageCreate
	PageWatch
)

var pageTitles = []string{"Homepage", "Edit", "Process in GauGAN", "Create Movie", "Watch Your Movie"}

func (p Page) String() string {
	if p < 0 || int(p) >= len(pageTitles) {
		return "unknown"
	}
	return pageTitles[p]
}

// Model represents the TUI client state
type Model struct {
	Client API
	Page   Page

	// Synced from the server
	Status    *pipeline.StatusResponse
	Connected bool
	Err       error

	// Process page
	Styles   []stylize.Style
	Selected map[string]bool
	Cursor   int
	Drawings int

	// Create page
	Frames        int
	FPS           float64
	WithSubtitles bool
	WithAudio     bool

	MovieReady bool
	Notice     string
}

// NewModel creates a model for the server at baseURL.
func NewModel(baseURL string) Model {
	return NewModelWithClient(client.NewClient(baseURL, config.ClientTimeout))
}

// NewModelWithClient creates a model around an existing client.
func NewModelWithClient(c API) Model {
	return Model{
		Client:   c,
		Page:     PageHome,
		Selected: make(map[string]bool),
		FPS:      config.DefaultFPS,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		pollStatus(m.Client),
		tickCmd(),
	)
}

// SelectedStyles returns the chosen style names in catalog order.
func (m Model) SelectedStyles() []string {
	var names []string
	for _, s := range m.Styles {
		if m.Selected[s.Name] {
			names = append(names, s.Name)
		}
	}
	return names
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	if !m.Connected {
		return errorStyle.Render(TextNotConnected)
	}
	if m.Status == nil {
		return ""
	}

	switch m.Status.State {
	case pipeline.StateIdle:
		return stateStyle.Render("👋 Ready")
	case pipeline.StateProcessing:
		return noticeStyle.Render(fmt.Sprintf("🎨 Processing drawings %s", m.progressText()))
	case pipeline.StateRendering:
		return noticeStyle.Render(fmt.Sprintf("🎞  Rendering movie (job %s)", m.Status.JobID))
	case pipeline.StatePublishing:
		return noticeStyle.Render("📤 Publishing movie...")
	case pipeline.StateComplete:
		return stateStyle.Render("✅ COMPLETE")
	case pipeline.StateError:
		errMsg := m.Status.Error
		if errMsg == "" {
			errMsg = "Unknown error"
		}
		return errorStyle.Render(fmt.Sprintf("❌ Error: %s", errMsg))
	default:
		return string(m.Status.State)
	}
}

func (m Model) progressText() string {
	if m.Status == nil || m.Status.Progress.Total == 0 {
		return ""
	}
	return fmt.Sprintf("(%d/%d)", m.Status.Progress.Done, m.Status.Progress.Total)
}
