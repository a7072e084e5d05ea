// Package reconcile keeps the on-screen task list in step with the canonical
// repository and the persisted snapshot. Each mutation results in the
// smallest possible row change, and exactly one save, so a toggled or
// deleted row can glide to its new place instead of the whole list being
// rebuilt.
package reconcile

import (
	"context"

	"tidytask/internal/model"
	"tidytask/internal/ordering"
	"tidytask/internal/storage"
	"tidytask/internal/tasks"
)

// RowRenderer is the view collaborator. The synchronizer instructs it and
// never reads state back from it: the repository stays the single source of
// truth and the rendered list is a disposable projection.
type RowRenderer interface {
	CreateRow(task model.Task, index int)
	MoveRow(id string, index int)
	RemoveRow(id string)
	SetRowDone(id string, done bool)
	SetRowTransitioning(id string, transitioning bool)
	SetEmptyIndicator(visible bool)
}

// Synchronizer coordinates the task repository, the persistent store and the
// row renderer. Mutations commit to the repository and the store
// immediately; only the visual move waits for the settle delay, so data
// correctness never depends on view timing.
type Synchronizer struct {
	repo  *tasks.Repository
	store storage.Store
	view  RowRenderer
	mode  model.SortMode

	// order mirrors the ids of the rows currently laid out, top to bottom.
	order []string

	saveFailures uint64
}

func NewSynchronizer(repo *tasks.Repository, store storage.Store, view RowRenderer, mode model.SortMode) *Synchronizer {
	if !mode.IsValid() {
		mode = model.DefaultPreferences().Sort
	}
	return &Synchronizer{repo: repo, store: store, view: view, mode: mode}
}

// Bootstrap lays out every repository task in sorted order and sets the
// empty indicator. Called once after loading persisted state.
func (s *Synchronizer) Bootstrap() {
	sorted := s.repo.List()
	ordering.Sort(sorted, s.mode)
	s.order = s.order[:0]
	for i, t := range sorted {
		s.order = append(s.order, t.ID)
		s.view.CreateRow(t, i)
	}
	s.view.SetEmptyIndicator(s.repo.Len() == 0)
}

func (s *Synchronizer) Mode() model.SortMode {
	return s.mode
}

// SetSortMode re-lays out all rows under the new mode. Task data is
// unchanged, so nothing is persisted here.
func (s *Synchronizer) SetSortMode(mode model.SortMode) {
	if !mode.IsValid() || mode == s.mode {
		return
	}
	s.mode = mode
	s.relayout()
}

// Add creates a task, its row at the computed insertion point, and persists.
// Rejections pass through to the caller for a soft UI hint.
func (s *Synchronizer) Add(ctx context.Context, text string) (model.Task, error) {
	task, err := s.repo.Add(text)
	if err != nil {
		return model.Task{}, err
	}
	idx := s.physicalIndex(ordering.PositionFor(task, s.visible(), s.mode))
	s.insertAt(task.ID, idx)
	s.view.CreateRow(task, idx)
	s.persist(ctx)
	s.view.SetEmptyIndicator(false)
	return task, nil
}

// Toggle commits the done flip and persists immediately, then marks the row
// transitioning. The caller schedules SettleToggle after the settle delay.
func (s *Synchronizer) Toggle(ctx context.Context, id string) (model.Task, error) {
	task, err := s.repo.Toggle(id)
	if err != nil {
		return model.Task{}, err
	}
	s.view.SetRowDone(id, task.Done)
	s.view.SetRowTransitioning(id, true)
	s.persist(ctx)
	return task, nil
}

// SettleToggle moves the toggled row to its slot once the exit transition
// has run. The insertion point is computed against the sort mode and the
// collection as they are now, not as they were when the toggle started;
// both may have changed while the transition was pending. A task deleted
// mid-flight is silently skipped.
func (s *Synchronizer) SettleToggle(id string) {
	task, ok := s.repo.Get(id)
	if !ok {
		return
	}
	s.removeFromOrder(id)
	idx := s.physicalIndex(ordering.PositionFor(task, s.visible(), s.mode))
	s.insertAt(id, idx)
	s.view.MoveRow(id, idx)
	s.view.SetRowTransitioning(id, false)
}

// Remove commits the deletion and persists immediately; the row itself stays
// on screen, marked transitioning, until SettleRemove. Removing an id that
// is already gone is a no-op, not an error.
func (s *Synchronizer) Remove(ctx context.Context, id string) {
	if err := s.repo.Remove(id); err != nil {
		return
	}
	s.view.SetRowTransitioning(id, true)
	s.persist(ctx)
}

// SettleRemove takes the row off screen and refreshes the empty indicator.
func (s *Synchronizer) SettleRemove(id string) {
	s.removeFromOrder(id)
	s.view.RemoveRow(id)
	s.view.SetEmptyIndicator(s.repo.Len() == 0)
}

// ClearDone unchecks every task, re-lays out the whole list, and persists
// exactly once. Many rows move at the same time, so incremental insertion
// points are pointless here.
func (s *Synchronizer) ClearDone(ctx context.Context) {
	s.repo.ClearAllDone()
	for _, id := range s.order {
		s.view.SetRowDone(id, false)
	}
	s.relayout()
	s.persist(ctx)
}

// SaveFailures reports how many saves have been swallowed so far.
func (s *Synchronizer) SaveFailures() uint64 {
	return s.saveFailures
}

func (s *Synchronizer) relayout() {
	sorted := s.repo.List()
	ordering.Sort(sorted, s.mode)
	s.order = s.order[:0]
	for i, t := range sorted {
		s.order = append(s.order, t.ID)
		s.view.MoveRow(t.ID, i)
	}
}

// visible resolves the laid-out ids back to current tasks. Ids whose task is
// gone (a remove waiting on its settle) are skipped.
func (s *Synchronizer) visible() []model.Task {
	out := make([]model.Task, 0, len(s.order))
	for _, id := range s.order {
		if task, ok := s.repo.Get(id); ok {
			out = append(out, task)
		}
	}
	return out
}

// physicalIndex translates an insertion index among live tasks into an
// index in the laid-out order, which may still hold rows whose remove has
// not settled. Insertion lands just before the idx-th live entry, so every
// pending-remove row keeps its slot and live rows stay comparator-ordered.
func (s *Synchronizer) physicalIndex(idx int) int {
	live := 0
	for i, id := range s.order {
		if _, ok := s.repo.Get(id); !ok {
			continue
		}
		if live == idx {
			return i
		}
		live++
	}
	return len(s.order)
}

func (s *Synchronizer) insertAt(id string, idx int) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(s.order) {
		idx = len(s.order)
	}
	s.order = append(s.order, "")
	copy(s.order[idx+1:], s.order[idx:])
	s.order[idx] = id
}

func (s *Synchronizer) removeFromOrder(id string) {
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// persist saves the full collection, best-effort. A failed write must never
// block interaction; it is only counted for the status line.
func (s *Synchronizer) persist(ctx context.Context) {
	if err := s.store.SaveTasks(ctx, s.repo.List()); err != nil {
		s.saveFailures++
	}
}
