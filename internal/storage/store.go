package storage

import (
	"context"
	"errors"

	"tidytask/internal/model"
)

// ErrNotFound reports an absent slot, which is the normal first-run state.
var ErrNotFound = errors.New("storage: not found")

const (
	tasksSlot = "tasks"
	prefsSlot = "prefs"
)

// Store persists the task collection and the preferences record as two
// independent slots in a durable key-value store.
//
// A missing slot surfaces as ErrNotFound so the caller can seed defaults. A
// present but undecodable slot is treated as holding nothing usable: task
// loads return an empty collection and preference loads return defaults,
// without an error either way. Saves overwrite the whole slot; callers treat
// save failures as best-effort.
type Store interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	LoadPrefs(ctx context.Context) (model.Preferences, error)
	SavePrefs(ctx context.Context, prefs model.Preferences) error
	Close() error
}
