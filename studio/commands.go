package studio

import (
	"context"
	"time"

	"yourmovie/client"
	"yourmovie/config"

	tea "github.com/charmbracelet/bubbletea"
)

// pollStatus creates a command to poll the server status
func pollStatus(c API) tea.Cmd {
	return func() tea.Msg {
		status, err := c.Status(context.Background())
		return StatusUpdateMsg{Status: status, Err: err}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(config.StatusPollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

func loadStyles(c API) tea.Cmd {
	return func() tea.Msg {
		catalog, err := c.Styles(context.Background())
		return StylesMsg{Catalog: catalog, Err: err}
	}
}

func loadCounts(c API) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		drawings, err := c.DrawingCount(ctx)
		if err != nil {
			return CountsMsg{Err: err}
		}
		frames, err := c.FrameCount(ctx)
		return CountsMsg{Drawings: drawings, Frames: frames, Err: err}
	}
}

func runProcess(c API, styles []string) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Process(context.Background(), styles)
		return ProcessDoneMsg{Result: res, Err: err}
	}
}

func createMovie(c API, req client.MovieRequest) tea.Cmd {
	return func() tea.Msg {
		id, err := c.CreateMovie(context.Background(), req)
		return MovieStartedMsg{JobID: id, Err: err}
	}
}

func checkMovie(c API) tea.Cmd {
	return func() tea.Msg {
		ready, err := c.MovieAvailable(context.Background())
		return MovieAvailableMsg{Ready: ready, Err: err}
	}
}

func resetWorkspace(c API) tea.Cmd {
	return func() tea.Msg {
		return ResetDoneMsg{Err: c.Reset(context.Background())}
	}
}
