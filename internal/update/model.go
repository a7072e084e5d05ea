// Package update holds the Elm-style model and update loop for the task
// list TUI.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tidytask/internal/prefs"
	"tidytask/internal/reconcile"
	"tidytask/internal/settle"
	"tidytask/internal/tasks"
)

const defaultSettleDelay = 200 * time.Millisecond

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Capture  string
	Palette  string
	Settings string
	Clear    string
	Help     string
	Quit     string
}

func defaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Capture:  "i",
		Palette:  "/",
		Settings: "s",
		Clear:    "c",
		Help:     "?",
		Quit:     "q",
	}
}

// Deps wires the long-lived collaborators into a Model. Everything here is
// shared by pointer: bubbletea copies the Model on every update, and row
// state, repository and preferences must survive those copies.
type Deps struct {
	Repo        *tasks.Repository
	Rows        *RowList
	Syncer      *reconcile.Synchronizer
	Prefs       *prefs.Controller
	Settle      *settle.Engine
	SettleDelay time.Duration
}

type Model struct {
	repo    *tasks.Repository
	rows    *RowList
	syncer  *reconcile.Synchronizer
	prefCtl *prefs.Controller
	engine  *settle.Engine

	input        textinput.Model
	paletteInput textinput.Model

	captureMode   bool
	paletteActive bool
	settingsOpen  bool
	helpVisible   bool
	cursor        int

	status      StatusBar
	keys        GlobalKeyMap
	settleDelay time.Duration
	width       int
	height      int
	quitting    bool
}

func NewModel(deps Deps) Model {
	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.CharLimit = 200
	input.Width = 40

	paletteInput := textinput.New()
	paletteInput.Placeholder = "/add | /sort | /theme | /clear | /help"
	paletteInput.Width = 40

	delay := deps.SettleDelay
	if delay <= 0 {
		delay = defaultSettleDelay
	}

	m := Model{
		repo:         deps.Repo,
		rows:         deps.Rows,
		syncer:       deps.Syncer,
		prefCtl:      deps.Prefs,
		engine:       deps.Settle,
		input:        input,
		paletteInput: paletteInput,
		keys:         defaultKeyMap(),
		settleDelay:  delay,
	}
	m.syncer.Bootstrap()
	return m
}

// Quitting reports whether a quit key has been handled; used by tests on the
// final model.
func (m Model) Quitting() bool {
	return m.quitting
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

// settleDueMsg carries one due settle event out of the engine goroutine and
// into the single-threaded update loop.
type settleDueMsg struct {
	event settle.Event
}

// themeTickMsg re-renders once a minute so a time-based theme can flip
// without any keypress.
type themeTickMsg struct{}

func waitForSettleCmd(ch <-chan settle.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return settleDueMsg{event: ev}
	}
}

func themeTickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg { return themeTickMsg{} })
}
