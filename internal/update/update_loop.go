package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"tidytask/internal/settle"
	"tidytask/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{themeTickCmd()}
	if m.engine != nil {
		cmds = append(cmds, waitForSettleCmd(m.engine.C()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil

	case settleDueMsg:
		switch typed.event.Kind {
		case settle.KindToggle:
			m.syncer.SettleToggle(typed.event.TaskID)
		case settle.KindRemove:
			m.syncer.SettleRemove(typed.event.TaskID)
		}
		m.clampCursor()
		if m.engine != nil {
			return m, waitForSettleCmd(m.engine.C())
		}
		return m, nil

	case themeTickMsg:
		return m, themeTickCmd()

	case SetStatusMsg:
		m.status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.status = StatusBar{}
		return m, nil

	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.helpVisible {
			if typed.String() == m.keys.Help || typed.String() == "esc" {
				m.helpVisible = false
			}
			return m, nil
		}
		if m.paletteActive {
			return m.handlePaletteKey(typed)
		}
		if m.settingsOpen {
			return m.handleSettingsKey(typed)
		}
		if m.captureMode {
			return m.handleCaptureKey(typed)
		}
		return m.handleListKey(typed)
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	palette := views.Styles(m.prefCtl.ResolvedTheme())

	open, done := 0, 0
	for _, t := range m.repo.List() {
		if t.Done {
			done++
		} else {
			open++
		}
	}

	var list strings.Builder
	rows := m.rows.Rows()
	if len(rows) == 0 && m.rows.EmptyVisible() {
		list.WriteString(palette.EmptyHint.Render("Nothing here yet. Press i to add a task."))
	}
	for i, row := range rows {
		if i > 0 || list.Len() > 0 {
			list.WriteString("\n")
		}
		checkbox := "[ ]"
		if row.Done {
			checkbox = "[x]"
		}
		style := palette.Row
		switch {
		case row.Transitioning:
			style = palette.RowInTransit
		case row.Done:
			style = palette.RowDone
		}
		prefix := "  "
		if i == m.cursor && !m.captureMode && !m.paletteActive {
			prefix = "> "
			if !row.Transitioning {
				style = palette.RowSelected
			}
		}
		list.WriteString(style.Render(fmt.Sprintf("%s%s %s", prefix, checkbox, row.Text)))
	}
	if m.captureMode {
		list.WriteString("\n\n")
		list.WriteString(m.input.View())
	}
	if m.paletteActive {
		list.WriteString("\n\n")
		list.WriteString(m.paletteInput.View())
	}

	side := ""
	if m.settingsOpen {
		cur := m.prefCtl.Current()
		side = strings.Join([]string{
			"Settings",
			"",
			fmt.Sprintf("Theme: %s (t cycles)", cur.Theme),
			fmt.Sprintf("Sort:  %s (o cycles)", cur.Sort),
			"",
			"esc closes",
		}, "\n")
	}

	overlay := ""
	if m.helpVisible {
		overlay = views.RenderMarkdown(helpMarkdown, palette)
	}

	return views.RenderApp(palette, views.AppData{
		Header:     fmt.Sprintf("tidytask  %d open / %d done", open, done),
		ListPane:   list.String(),
		SidePane:   side,
		StatusLine: m.status.Text,
		IsError:    m.status.IsError,
		Footer:     "i add | space toggle | d delete | c clear | s settings | / commands | ? help | q quit",
		Overlay:    overlay,
	})
}

func (m *Model) clampCursor() {
	if m.cursor >= m.rows.Len() {
		m.cursor = m.rows.Len() - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
