package studio

import (
	"errors"
	"fmt"
	"strings"

	"yourmovie/client"

	"github.com/charmbracelet/lipgloss"
)

// logLines is how many recent log entries the homepage shows
const logLines = 8

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(TextTitle))
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	var body, footer string
	switch m.Page {
	case PageEdit:
		body, footer = m.viewEdit(), TextFooterEdit
	case PageProcess:
		body, footer = m.viewProcess(), TextFooterProcess
	case PageCreate:
		body, footer = m.viewCreate(), TextFooterCreate
	case PageWatch:
		body, footer = m.viewWatch(), TextFooterWatch
	default:
		body, footer = m.viewHome(), TextFooterHome
	}
	b.WriteString(frameStyle(m.Page).Render(body))
	b.WriteString("\n")

	if m.Notice != "" {
		b.WriteString(noticeStyle.Render(m.Notice))
		b.WriteString("\n")
	}
	if m.Err != nil {
		b.WriteString(errorStyle.Render(errorText(m.Err)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(footer))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, len(pageTitles))
	for i, title := range pageTitles {
		label := fmt.Sprintf("%d %s", i+1, title)
		if Page(i) == m.Page {
			tabs[i] = activeTabStyle(m.Page).Render(label)
		} else {
			tabs[i] = tabStyle.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString("Welcome to Your Movie\n")
	b.WriteString(mutedStyle.Render("Draw landscapes, paint them in GauGAN, then make a movie."))
	b.WriteString("\n\n")

	if m.Status == nil || len(m.Status.Logs) == 0 {
		b.WriteString(mutedStyle.Render("No activity yet"))
		return b.String()
	}

	logs := m.Status.Logs
	if len(logs) > logLines {
		logs = logs[len(logs)-logLines:]
	}
	for _, entry := range logs {
		b.WriteString(fmt.Sprintf("%s %s\n", mutedStyle.Render(entry.Timestamp.Format("15:04:05")), entry.Message))
	}
	if job := m.Status.LastJob; job != nil && job.Location != "" {
		b.WriteString(fmt.Sprintf("\nPublished: %s", job.Location))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewEdit() string {
	return fmt.Sprintf("Drawings waiting: %d\nFrames: %d\n\n%s\n%s",
		m.Drawings, m.Frames,
		mutedStyle.Render("Drawing needs a pointer. Open the canvas in a browser:"),
		m.Client.BaseURL()+"/")
}

func (m Model) viewProcess() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Drawings waiting: %d\n\n", m.Drawings))
	if len(m.Styles) == 0 {
		b.WriteString(mutedStyle.Render("Loading styles..."))
		return b.String()
	}
	for i, s := range m.Styles {
		cursor := "  "
		if i == m.Cursor {
			cursor = cursorStyle.Render("> ")
		}
		check := "[ ]"
		if m.Selected[s.Name] {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, check, s.Name))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewCreate() string {
	return fmt.Sprintf("Frames: %d\n\nFPS:       ◀ %.1f ▶\nSubtitles: %s\nAudio:     %s",
		m.Frames, m.FPS, onOff(m.WithSubtitles), onOff(m.WithAudio))
}

func (m Model) viewWatch() string {
	if !m.MovieReady {
		return TextNoMovie
	}
	return fmt.Sprintf("Your movie is ready:\n%s/api/movie", m.Client.BaseURL())
}

func onOff(v bool) string {
	if v {
		return noticeStyle.Render("on")
	}
	return mutedStyle.Render("off")
}

func errorText(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return fmt.Sprintf("❌ %s: %s", apiErr.Message, apiErr.Detail)
	}
	return fmt.Sprintf("❌ %v", err)
}
