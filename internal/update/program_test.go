package update

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"tidytask/internal/model"
	"tidytask/internal/prefs"
	"tidytask/internal/reconcile"
	"tidytask/internal/settle"
	"tidytask/internal/tasks"
)

// TestProgramAddToggleQuit drives the full program through the real settle
// engine with a short delay.
func TestProgramAddToggleQuit(t *testing.T) {
	store := &memStore{}
	repo := tasks.NewRepository(nil)
	rows := NewRowList()
	syncer := reconcile.NewSynchronizer(repo, store, rows, model.SortAdded)
	ctl := prefs.NewController(model.DefaultPreferences(), store,
		prefs.WithSortEffect(syncer.SetSortMode))

	engine := settle.NewEngine(8)
	engine.Start()
	defer engine.Stop()

	m := NewModel(Deps{
		Repo:        repo,
		Rows:        rows,
		Syncer:      syncer,
		Prefs:       ctl,
		Settle:      engine,
		SettleDelay: 10 * time.Millisecond,
	})

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(80, 24))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}})
	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("call mom")})
	tm.Send(tea.KeyMsg{Type: tea.KeyEnter})
	tm.Send(tea.KeyMsg{Type: tea.KeyEsc})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "Call mom")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeySpace})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "[x]")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	final, ok := tm.FinalModel(t).(Model)
	if !ok {
		t.Fatalf("unexpected final model type %T", tm.FinalModel(t))
	}
	if !final.Quitting() {
		t.Fatal("expected final model to be quitting")
	}
	if repo.Len() != 1 {
		t.Fatalf("expected one task in repository, got %d", repo.Len())
	}
	task := repo.List()[0]
	if task.Text != "call mom" || !task.Done {
		t.Fatalf("unexpected final task state: %+v", task)
	}
	if len(store.tasks) != 1 || !store.tasks[0].Done {
		t.Fatalf("expected persisted done task, got %+v", store.tasks)
	}
}
