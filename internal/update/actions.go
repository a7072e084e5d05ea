package update

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"tidytask/internal/commands"
	"tidytask/internal/model"
	"tidytask/internal/settle"
	"tidytask/internal/tasks"
)

func (m Model) handleCaptureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.captureMode = false
		m.input.Blur()
		return m, nil
	case "enter":
		m.submitAdd(m.input.Value())
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor--
		m.clampCursor()
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case " ", "enter":
		m.toggleAtCursor()
	case "d", "backspace":
		m.deleteAtCursor()
	case m.keys.Clear:
		m.clearChecks()
	case m.keys.Capture, "a":
		m.captureMode = true
		m.input.Focus()
		return m, nil
	case m.keys.Palette:
		m.paletteActive = true
		m.paletteInput.SetValue("")
		m.paletteInput.Focus()
		return m, nil
	case m.keys.Settings:
		m.settingsOpen = true
	case m.keys.Help:
		m.helpVisible = true
	case m.keys.Quit:
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", m.keys.Settings:
		m.settingsOpen = false
	case "t":
		next := nextThemeMode(m.prefCtl.Current().Theme)
		m.applyTheme(next)
	case "o":
		next := nextSortMode(m.prefCtl.Current().Sort)
		m.applySort(next)
	case m.keys.Quit, "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.paletteActive = false
		m.paletteInput.Blur()
		return m, nil
	case "enter":
		m.dispatchPalette(m.paletteInput.Value())
		m.paletteActive = false
		m.paletteInput.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.paletteInput, cmd = m.paletteInput.Update(msg)
	return m, cmd
}

func (m *Model) dispatchPalette(raw string) {
	cmd, err := commands.Parse(raw)
	if err != nil {
		var cmdErr *commands.CommandError
		if errors.As(err, &cmdErr) {
			m.status = StatusBar{Text: cmdErr.Message, IsError: true}
		} else {
			m.status = StatusBar{Text: err.Error(), IsError: true}
		}
		return
	}

	switch cmd.Type {
	case commands.TypeAdd:
		m.submitAdd(cmd.Add.Text)
	case commands.TypeSort:
		m.applySort(cmd.Sort.Mode)
	case commands.TypeTheme:
		m.applyTheme(cmd.Theme.Mode)
	case commands.TypeClear:
		m.clearChecks()
	case commands.TypeHelp:
		m.helpVisible = true
	}
}

// submitAdd runs the shared add path for the capture field and the palette.
// Rejections leave the input text in place so the user can edit and retry.
func (m *Model) submitAdd(text string) {
	task, err := m.syncer.Add(context.Background(), text)
	switch {
	case errors.Is(err, tasks.ErrEmptyText):
		m.status = StatusBar{Text: "nothing to add", IsError: false}
	case errors.Is(err, tasks.ErrDuplicateText):
		m.status = StatusBar{Text: "already on the list", IsError: false}
	case err != nil:
		m.status = StatusBar{Text: err.Error(), IsError: true}
	default:
		m.input.SetValue("")
		m.status = StatusBar{Text: fmt.Sprintf("added %q", model.DisplayForm(task.Text)), IsError: false}
	}
}

func (m *Model) toggleAtCursor() {
	row, ok := m.rows.At(m.cursor)
	if !ok {
		return
	}
	task, err := m.syncer.Toggle(context.Background(), row.ID)
	if err != nil {
		return
	}
	m.scheduleSettle(row.ID, settle.KindToggle)
	if task.Done {
		m.status = StatusBar{Text: "checked off", IsError: false}
	} else {
		m.status = StatusBar{Text: "back on the list", IsError: false}
	}
}

func (m *Model) deleteAtCursor() {
	row, ok := m.rows.At(m.cursor)
	if !ok {
		return
	}
	m.syncer.Remove(context.Background(), row.ID)
	m.scheduleSettle(row.ID, settle.KindRemove)
	m.status = StatusBar{Text: "removed", IsError: false}
}

func (m *Model) clearChecks() {
	m.syncer.ClearDone(context.Background())
	m.status = StatusBar{Text: "all checks cleared", IsError: false}
}

func (m *Model) applySort(mode model.SortMode) {
	m.prefCtl.SetSortMode(context.Background(), mode)
	// Idempotent when the controller's resort effect already ran.
	m.syncer.SetSortMode(mode)
	m.clampCursor()
	m.status = StatusBar{Text: fmt.Sprintf("sorted by %s", mode), IsError: false}
}

func (m *Model) applyTheme(mode model.ThemeMode) {
	m.prefCtl.SetTheme(context.Background(), mode)
	m.status = StatusBar{Text: fmt.Sprintf("theme set to %s", mode), IsError: false}
}

// scheduleSettle queues the deferred row move. Without an engine the move
// applies at once, which keeps headless tests deterministic.
func (m *Model) scheduleSettle(id string, kind settle.Kind) {
	if m.engine == nil {
		switch kind {
		case settle.KindToggle:
			m.syncer.SettleToggle(id)
		case settle.KindRemove:
			m.syncer.SettleRemove(id)
		}
		m.clampCursor()
		return
	}
	_ = m.engine.ScheduleAfter(id, kind, m.settleDelay)
}

func nextThemeMode(cur model.ThemeMode) model.ThemeMode {
	order := []model.ThemeMode{model.ThemeLight, model.ThemeDark, model.ThemeSystem, model.ThemeTime}
	for i, mode := range order {
		if mode == cur {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

func nextSortMode(cur model.SortMode) model.SortMode {
	if cur == model.SortAdded {
		return model.SortAlpha
	}
	return model.SortAdded
}

const helpMarkdown = `# tidytask

A small checklist that lives in your terminal.

## Keys

- ` + "`i`" + ` or ` + "`a`" + ` add a task, ` + "`esc`" + ` leaves the input
- ` + "`space`" + ` or ` + "`enter`" + ` toggles the selected task
- ` + "`d`" + ` or ` + "`backspace`" + ` deletes it
- ` + "`c`" + ` unchecks everything
- ` + "`s`" + ` opens settings, ` + "`t`" + ` cycles the theme, ` + "`o`" + ` the sort
- ` + "`/`" + ` opens the command palette
- ` + "`q`" + ` quits

## Commands

- ` + "`/add <text>`" + `
- ` + "`/sort added|alpha`" + `
- ` + "`/theme light|dark|system|time`" + `
- ` + "`/clear`" + `
- ` + "`/help`" + `
`
