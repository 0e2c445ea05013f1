package studio

import "github.com/charmbracelet/lipgloss"

// GauGAN label colors from palette/colors.yaml, plus paper and ink for text
const (
	colorSky    = lipgloss.Color("#9CEEDD")
	colorGrass  = lipgloss.Color("#7BC800")
	colorRoad   = lipgloss.Color("#946E28")
	colorSea    = lipgloss.Color("#363EA7")
	colorFlower = lipgloss.Color("#760000")
	colorCloud  = lipgloss.Color("#696969")
	colorPaper  = lipgloss.Color("#FAFAF5")
	colorInk    = lipgloss.Color("#1B1B1B")
)

// pageAccents gives every page its own color; tabs and frames follow it.
var pageAccents = map[Page]lipgloss.Color{
	PageHome:    colorSky,
	PageEdit:    colorGrass,
	PageProcess: colorRoad,
	PageCreate:  colorSea,
	PageWatch:   colorFlower,
}

func accent(p Page) lipgloss.Color {
	if c, ok := pageAccents[p]; ok {
		return c
	}
	return colorCloud
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGrass).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorSky).
			MarginBottom(1)

	noticeStyle = lipgloss.NewStyle().Foreground(colorGrass)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorFlower)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorCloud)
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorRoad)

	tabStyle = lipgloss.NewStyle().
			Foreground(colorCloud).
			Padding(0, 1)

	// stateStyle marks the Ready and Complete banners
	stateStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorInk).
			Background(colorSky).
			Padding(0, 1)
)

// activeTabStyle is the tab of the page on screen.
func activeTabStyle(p Page) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPaper).
		Background(accent(p)).
		Padding(0, 1)
}

// frameStyle boxes the page body in the page's accent color.
func frameStyle(p Page) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), true, false).
		BorderForeground(accent(p)).
		Padding(1, 2)
}
