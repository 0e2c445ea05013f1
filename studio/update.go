package studio

import (
	"fmt"
	"math"

	"yourmovie/client"
	"yourmovie/config"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case TickMsg:
		return m, tea.Batch(pollStatus(m.Client), tickCmd())
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case StylesMsg:
		return m.handleStyles(msg)
	case CountsMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Drawings = msg.Drawings
		m.Frames = msg.Frames
	case ProcessDoneMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Notice = fmt.Sprintf("Succeeded: %d, failed: %d", msg.Result.Success, msg.Result.Failure)
		return m, loadCounts(m.Client)
	case MovieStartedMsg:
		if msg.Err != nil {
			m.Err = msg.Err
			return m, nil
		}
		m.Err = nil
		m.Notice = fmt.Sprintf("Rendering started (job %s)", msg.JobID)
	case MovieAvailableMsg:
		m.MovieReady = msg.Ready
		m.Err = msg.Err
	case ResetDoneMsg:
		m.Err = msg.Err
		if msg.Err == nil {
			m.Notice = "Workspace cleared"
			m.Drawings, m.Frames, m.MovieReady = 0, 0, false
		}
	}
	return m, nil
}

func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}
	m.Connected = true
	m.Status = msg.Status
	return m, nil
}

func (m Model) handleStyles(msg StylesMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.Styles = msg.Catalog.Styles
	if len(m.SelectedStyles()) == 0 {
		m.Selected = map[string]bool{msg.Catalog.Default: true}
	}
	if m.Cursor >= len(m.Styles) {
		m.Cursor = 0
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "1", "2", "3", "4", "5":
		return m.switchPage(Page(key[0] - '1'))
	case "tab":
		return m.switchPage((m.Page + 1) % Page(len(pageTitles)))
	}

	switch m.Page {
	case PageHome:
		if key == "R" {
			return m, resetWorkspace(m.Client)
		}
	case PageProcess:
		return m.handleProcessKey(key)
	case PageCreate:
		return m.handleCreateKey(key)
	case PageWatch:
		if key == "r" {
			return m, checkMovie(m.Client)
		}
	}
	return m, nil
}

func (m Model) switchPage(p Page) (tea.Model, tea.Cmd) {
	m.Page = p
	m.Notice = ""
	m.Err = nil

	switch p {
	case PageEdit, PageCreate:
		return m, loadCounts(m.Client)
	case PageProcess:
		return m, tea.Batch(loadStyles(m.Client), loadCounts(m.Client))
	case PageWatch:
		return m, checkMovie(m.Client)
	default:
		return m, pollStatus(m.Client)
	}
}

func (m Model) handleProcessKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Styles)-1 {
			m.Cursor++
		}
	case " ":
		if m.Cursor < len(m.Styles) {
			name := m.Styles[m.Cursor].Name
			m.Selected[name] = !m.Selected[name]
		}
	case "enter":
		if m.Status != nil && m.Status.State.Busy() {
			m.Notice = "A job is already running"
			return m, nil
		}
		m.Notice = "Processing..."
		return m, runProcess(m.Client, m.SelectedStyles())
	}
	return m, nil
}

func (m Model) handleCreateKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "left", "h":
		m.FPS = math.Max(config.MinFPS, m.FPS-config.FPSStep)
	case "right", "l":
		m.FPS = math.Min(config.MaxFPS, m.FPS+config.FPSStep)
	case "s":
		m.WithSubtitles = !m.WithSubtitles
	case "a":
		m.WithAudio = !m.WithAudio
	case "enter":
		return m, createMovie(m.Client, client.MovieRequest{
			FPS:           m.FPS,
			WithSubtitles: m.WithSubtitles,
			WithAudio:     m.WithAudio,
		})
	}
	return m, nil
}
