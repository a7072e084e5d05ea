package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tidytask/internal/model"
	"tidytask/internal/storage"
	"tidytask/internal/tasks"
)

// fakeRenderer keeps a plain ordered row list and a trace of instructions.
type fakeRenderer struct {
	rows         []fakeRow
	emptyVisible bool
	emptyToggles int
	createdCount int
	removedCount int
}

type fakeRow struct {
	id            string
	done          bool
	transitioning bool
}

func (r *fakeRenderer) CreateRow(task model.Task, index int) {
	r.createdCount++
	row := fakeRow{id: task.ID, done: task.Done}
	r.rows = append(r.rows, fakeRow{})
	copy(r.rows[index+1:], r.rows[index:])
	r.rows[index] = row
}

func (r *fakeRenderer) MoveRow(id string, index int) {
	for i, row := range r.rows {
		if row.id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			if index > len(r.rows) {
				index = len(r.rows)
			}
			r.rows = append(r.rows, fakeRow{})
			copy(r.rows[index+1:], r.rows[index:])
			r.rows[index] = row
			return
		}
	}
}

func (r *fakeRenderer) RemoveRow(id string) {
	for i, row := range r.rows {
		if row.id == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			r.removedCount++
			return
		}
	}
}

func (r *fakeRenderer) SetRowDone(id string, done bool) {
	for i := range r.rows {
		if r.rows[i].id == id {
			r.rows[i].done = done
		}
	}
}

func (r *fakeRenderer) SetRowTransitioning(id string, transitioning bool) {
	for i := range r.rows {
		if r.rows[i].id == id {
			r.rows[i].transitioning = transitioning
		}
	}
}

func (r *fakeRenderer) SetEmptyIndicator(visible bool) {
	r.emptyVisible = visible
	r.emptyToggles++
}

func (r *fakeRenderer) ids() []string {
	out := make([]string, len(r.rows))
	for i, row := range r.rows {
		out[i] = row.id
	}
	return out
}

// fakeStore counts saves and can be told to fail them.
type fakeStore struct {
	saves    int
	failNext bool
	saved    []model.Task
}

func (s *fakeStore) LoadTasks(context.Context) ([]model.Task, error) {
	return nil, storage.ErrNotFound
}

func (s *fakeStore) SaveTasks(_ context.Context, t []model.Task) error {
	s.saves++
	if s.failNext {
		return errors.New("quota exceeded")
	}
	s.saved = append([]model.Task(nil), t...)
	return nil
}

func (s *fakeStore) LoadPrefs(context.Context) (model.Preferences, error) {
	return model.DefaultPreferences(), nil
}

func (s *fakeStore) SavePrefs(context.Context, model.Preferences) error { return nil }
func (s *fakeStore) Close() error                                       { return nil }

func newTestSynchronizer(mode model.SortMode) (*Synchronizer, *tasks.Repository, *fakeRenderer, *fakeStore) {
	var tick int64
	var seq int
	repo := tasks.NewRepository(nil,
		tasks.WithClock(func() time.Time {
			tick += 1000
			return time.UnixMilli(tick)
		}),
		tasks.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
	view := &fakeRenderer{}
	store := &fakeStore{}
	syncer := NewSynchronizer(repo, store, view, mode)
	syncer.Bootstrap()
	return syncer, repo, view, store
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBootstrapEmptyShowsIndicator(t *testing.T) {
	_, _, view, _ := newTestSynchronizer(model.SortAdded)
	if !view.emptyVisible {
		t.Fatal("expected empty indicator visible on empty bootstrap")
	}
}

func TestAddCreatesRowAndPersistsOnce(t *testing.T) {
	syncer, _, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	task, err := syncer.Add(ctx, "wash dishes")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if view.createdCount != 1 || view.rows[0].id != task.ID {
		t.Fatalf("expected single created row for %s, got %+v", task.ID, view.rows)
	}
	if store.saves != 1 {
		t.Fatalf("expected exactly one save, got %d", store.saves)
	}
	if view.emptyVisible {
		t.Fatal("expected empty indicator hidden after add")
	}
}

func TestAddRejectionDoesNotPersist(t *testing.T) {
	syncer, _, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	if _, err := syncer.Add(ctx, "buy milk"); err != nil {
		t.Fatalf("add: %v", err)
	}
	savesBefore := store.saves

	if _, err := syncer.Add(ctx, "  buy   MILK "); !errors.Is(err, tasks.ErrDuplicateText) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if _, err := syncer.Add(ctx, "   "); !errors.Is(err, tasks.ErrEmptyText) {
		t.Fatalf("expected empty rejection, got %v", err)
	}

	if store.saves != savesBefore {
		t.Fatalf("expected no save on rejection, got %d extra", store.saves-savesBefore)
	}
	if view.createdCount != 1 {
		t.Fatalf("expected no extra rows, got %d", view.createdCount)
	}
}

func TestAddInsertsAtSortedPosition(t *testing.T) {
	syncer, _, view, _ := newTestSynchronizer(model.SortAlpha)
	ctx := context.Background()

	a, _ := syncer.Add(ctx, "banana")
	b, _ := syncer.Add(ctx, "apple")
	c, _ := syncer.Add(ctx, "cherry")

	if !equalIDs(view.ids(), []string{b.ID, a.ID, c.ID}) {
		t.Fatalf("expected alphabetical row order, got %v", view.ids())
	}
}

func TestToggleCommitsImmediatelyAndMovesAtSettle(t *testing.T) {
	syncer, repo, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	first, _ := syncer.Add(ctx, "one")
	second, _ := syncer.Add(ctx, "two")
	savesBefore := store.saves

	if _, err := syncer.Toggle(ctx, first.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if store.saves != savesBefore+1 {
		t.Fatal("expected persist at toggle commit, not at settle")
	}
	got, _ := repo.Get(first.ID)
	if !got.Done {
		t.Fatal("expected repository committed before settle")
	}
	if !view.rows[0].transitioning {
		t.Fatal("expected row marked transitioning")
	}

	syncer.SettleToggle(first.ID)
	if !equalIDs(view.ids(), []string{second.ID, first.ID}) {
		t.Fatalf("expected done task moved below open one, got %v", view.ids())
	}
	if view.rows[1].transitioning {
		t.Fatal("expected transitioning cleared after settle")
	}
	if store.saves != savesBefore+1 {
		t.Fatalf("expected no extra save at settle, got %d", store.saves)
	}
}

func TestSettleUsesCurrentModeNotCaptured(t *testing.T) {
	syncer, _, view, _ := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	banana, _ := syncer.Add(ctx, "banana")
	apple, _ := syncer.Add(ctx, "apple")
	cherry, _ := syncer.Add(ctx, "cherry")

	// Toggle banana twice so it stays in the open group but has a pending
	// settle, then switch the sort mode mid-flight.
	if _, err := syncer.Toggle(ctx, banana.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := syncer.Toggle(ctx, banana.ID); err != nil {
		t.Fatalf("toggle back: %v", err)
	}
	syncer.SetSortMode(model.SortAlpha)
	syncer.SettleToggle(banana.ID)

	if !equalIDs(view.ids(), []string{apple.ID, banana.ID, cherry.ID}) {
		t.Fatalf("expected settle under current alpha mode, got %v", view.ids())
	}
}

func TestRemoveThenSettle(t *testing.T) {
	syncer, repo, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	task, _ := syncer.Add(ctx, "wash dishes")
	savesBefore := store.saves

	syncer.Remove(ctx, task.ID)
	if repo.Len() != 0 {
		t.Fatal("expected repository commit before settle")
	}
	if store.saves != savesBefore+1 {
		t.Fatal("expected persist at remove commit")
	}
	if len(view.rows) != 1 || !view.rows[0].transitioning {
		t.Fatal("expected row kept on screen, transitioning, until settle")
	}

	syncer.SettleRemove(task.ID)
	if len(view.rows) != 0 {
		t.Fatalf("expected row removed, got %v", view.ids())
	}
	if !view.emptyVisible {
		t.Fatal("expected empty indicator after removing last task")
	}
}

func TestRemoveUnknownIDIsNoOp(t *testing.T) {
	syncer, _, _, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	syncer.Remove(ctx, "missing")
	if store.saves != 0 {
		t.Fatalf("expected no save for unknown id, got %d", store.saves)
	}
}

func TestToggleSettleAfterRemoveIsNoOp(t *testing.T) {
	syncer, repo, view, _ := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	task, _ := syncer.Add(ctx, "wash dishes")

	// Toggle, then remove before the toggle settles. Both settle callbacks
	// fire afterwards; the stale one must do nothing.
	if _, err := syncer.Toggle(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	syncer.Remove(ctx, task.ID)

	syncer.SettleToggle(task.ID)
	syncer.SettleRemove(task.ID)

	if repo.Len() != 0 {
		t.Fatal("expected task absent from repository")
	}
	if len(view.rows) != 0 {
		t.Fatalf("expected task absent from view, got %v", view.ids())
	}
	if !view.emptyVisible {
		t.Fatal("expected empty indicator visible")
	}
}

func TestAddDuringPendingRemoveKeepsLiveOrder(t *testing.T) {
	syncer, _, view, _ := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	first, _ := syncer.Add(ctx, "aaa")
	second, _ := syncer.Add(ctx, "bbb")

	// Remove the top row but let it linger on screen, then add while the
	// settle is pending. The new row must land below bbb, not beside it.
	syncer.Remove(ctx, first.ID)
	third, _ := syncer.Add(ctx, "ccc")

	if !equalIDs(view.ids(), []string{first.ID, second.ID, third.ID}) {
		t.Fatalf("expected pending row to keep its slot, got %v", view.ids())
	}

	syncer.SettleRemove(first.ID)
	if !equalIDs(view.ids(), []string{second.ID, third.ID}) {
		t.Fatalf("expected live rows in added order after settle, got %v", view.ids())
	}
}

func TestSettleToggleDuringPendingRemoveKeepsLiveOrder(t *testing.T) {
	syncer, _, view, _ := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	first, _ := syncer.Add(ctx, "aaa")
	second, _ := syncer.Add(ctx, "bbb")
	third, _ := syncer.Add(ctx, "ccc")

	syncer.Remove(ctx, first.ID)
	if _, err := syncer.Toggle(ctx, second.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	syncer.SettleToggle(second.ID)

	if !equalIDs(view.ids(), []string{first.ID, third.ID, second.ID}) {
		t.Fatalf("expected done row settled below open one, got %v", view.ids())
	}

	syncer.SettleRemove(first.ID)
	if !equalIDs(view.ids(), []string{third.ID, second.ID}) {
		t.Fatalf("expected open task above done one after settle, got %v", view.ids())
	}
}

func TestClearDonePersistsOnceAndResorts(t *testing.T) {
	syncer, repo, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	a, _ := syncer.Add(ctx, "one")
	b, _ := syncer.Add(ctx, "two")
	c, _ := syncer.Add(ctx, "three")
	if _, err := syncer.Toggle(ctx, a.ID); err != nil {
		t.Fatalf("toggle a: %v", err)
	}
	syncer.SettleToggle(a.ID)
	if _, err := syncer.Toggle(ctx, c.ID); err != nil {
		t.Fatalf("toggle c: %v", err)
	}
	syncer.SettleToggle(c.ID)

	savesBefore := store.saves
	syncer.ClearDone(ctx)

	if store.saves != savesBefore+1 {
		t.Fatalf("expected exactly one save for clear, got %d", store.saves-savesBefore)
	}
	for _, task := range repo.List() {
		if task.Done {
			t.Fatalf("expected no done tasks after clear, %s still done", task.ID)
		}
	}
	if !equalIDs(view.ids(), []string{a.ID, b.ID, c.ID}) {
		t.Fatalf("expected added-order layout after clear, got %v", view.ids())
	}
	for _, row := range view.rows {
		if row.done {
			t.Fatalf("expected all rows unchecked, got %+v", view.rows)
		}
	}
}

func TestSortModeChangeRelayoutsWithoutPersist(t *testing.T) {
	syncer, _, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	banana, _ := syncer.Add(ctx, "banana")
	apple, _ := syncer.Add(ctx, "apple")
	savesBefore := store.saves

	syncer.SetSortMode(model.SortAlpha)
	if !equalIDs(view.ids(), []string{apple.ID, banana.ID}) {
		t.Fatalf("expected alpha layout, got %v", view.ids())
	}
	if store.saves != savesBefore {
		t.Fatal("expected no task persist on sort mode change")
	}

	syncer.SetSortMode(model.SortMode("bogus"))
	if syncer.Mode() != model.SortAlpha {
		t.Fatalf("expected invalid mode ignored, got %s", syncer.Mode())
	}
}

func TestSaveFailuresAreSwallowedAndCounted(t *testing.T) {
	syncer, repo, _, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	store.failNext = true
	task, err := syncer.Add(ctx, "wash dishes")
	if err != nil {
		t.Fatalf("expected add to succeed despite save failure, got %v", err)
	}
	if syncer.SaveFailures() != 1 {
		t.Fatalf("expected one counted failure, got %d", syncer.SaveFailures())
	}
	if _, ok := repo.Get(task.ID); !ok {
		t.Fatal("expected in-memory state authoritative after failed save")
	}
}

func TestScenarioFullLifecycle(t *testing.T) {
	syncer, repo, view, store := newTestSynchronizer(model.SortAdded)
	ctx := context.Background()

	task, err := syncer.Add(ctx, "wash dishes")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := syncer.Add(ctx, "Wash   Dishes"); !errors.Is(err, tasks.ErrDuplicateText) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	if _, err := syncer.Toggle(ctx, task.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	syncer.SettleToggle(task.ID)
	got, _ := repo.Get(task.ID)
	if !got.Done {
		t.Fatal("expected task done")
	}

	syncer.Remove(ctx, task.ID)
	syncer.SettleRemove(task.ID)

	if repo.Len() != 0 || len(view.rows) != 0 {
		t.Fatal("expected repository and view empty")
	}
	if !view.emptyVisible {
		t.Fatal("expected empty indicator visible")
	}
	if len(store.saved) != 0 {
		t.Fatalf("expected persisted snapshot empty, got %v", store.saved)
	}
}
