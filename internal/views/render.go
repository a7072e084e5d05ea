// Package views renders the assembled TUI frame with lipgloss. Styles come
// in a light and a dark palette; the caller picks one per frame from the
// resolved theme, so a theme change needs no state reset anywhere.
package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"tidytask/internal/model"
)

type AppData struct {
	Header     string
	ListPane   string
	SidePane   string
	StatusLine string
	IsError    bool
	Footer     string
	Overlay    string
}

// Palette carries every style the frame needs for one theme.
type Palette struct {
	Header        lipgloss.Style
	Panel         lipgloss.Style
	Row           lipgloss.Style
	RowSelected   lipgloss.Style
	RowDone       lipgloss.Style
	RowInTransit  lipgloss.Style
	EmptyHint     lipgloss.Style
	Status        lipgloss.Style
	Error         lipgloss.Style
	Footer        lipgloss.Style
	GlamourScheme string
}

var (
	darkPalette = Palette{
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Panel:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Row:           lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		RowSelected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		RowDone:       lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8")),
		RowInTransit:  lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("7")),
		EmptyHint:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8")),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Footer:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		GlamourScheme: "dark",
	}

	lightPalette = Palette{
		Header:        lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		Panel:         lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Row:           lipgloss.NewStyle().Foreground(lipgloss.Color("0")),
		RowSelected:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		RowDone:       lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("7")),
		RowInTransit:  lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("8")),
		EmptyHint:     lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("7")),
		Status:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Footer:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
		GlamourScheme: "light",
	}
)

func Styles(theme model.Theme) Palette {
	if theme == model.Light {
		return lightPalette
	}
	return darkPalette
}

func RenderApp(p Palette, data AppData) string {
	list := p.Panel.Width(46).Render(data.ListPane)
	row := list
	if data.SidePane != "" {
		side := p.Panel.Width(30).Render(data.SidePane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, list, side)
	}

	status := p.Status.Render(data.StatusLine)
	if data.IsError {
		status = p.Error.Render(data.StatusLine)
	}

	lines := []string{
		p.Header.Render(data.Header),
		row,
		status,
	}
	if data.Overlay != "" {
		lines = append(lines, p.Panel.Render(data.Overlay))
	}
	if data.Footer != "" {
		lines = append(lines, p.Footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(md string, p Palette) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, p.GlamourScheme)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
