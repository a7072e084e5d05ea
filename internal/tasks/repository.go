package tasks

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"tidytask/internal/model"
)

var (
	ErrEmptyText     = errors.New("tasks: empty text")
	ErrDuplicateText = errors.New("tasks: duplicate text")
	ErrNotFound      = errors.New("tasks: task not found")
)

// Repository owns the canonical in-memory task collection. It never touches
// persistence or the screen; callers coordinate both after each mutation.
// Every mutator leaves the collection duplicate-free before returning, since
// the next event-loop callback may observe it immediately.
type Repository struct {
	tasks       []model.Task
	now         func() time.Time
	newID       func() string
	lastCreated int64
}

type Option func(*Repository)

// WithClock injects the timestamp source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDGenerator injects the id source. Used by tests.
func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

func NewRepository(seed []model.Task, opts ...Option) *Repository {
	r := &Repository{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tasks = make([]model.Task, len(seed))
	copy(r.tasks, seed)
	for _, t := range r.tasks {
		if t.CreatedAt > r.lastCreated {
			r.lastCreated = t.CreatedAt
		}
	}
	return r
}

// Add validates and inserts a new task. The text is stored in normalized
// form; rejected submissions leave the collection untouched.
func (r *Repository) Add(text string) (model.Task, error) {
	norm := model.Normalize(text)
	if norm == "" {
		return model.Task{}, ErrEmptyText
	}
	for _, t := range r.tasks {
		if model.Normalize(t.Text) == norm {
			return model.Task{}, ErrDuplicateText
		}
	}

	created := r.now().UnixMilli()
	if created <= r.lastCreated {
		created = r.lastCreated + 1
	}
	r.lastCreated = created

	task := model.Task{
		ID:        r.newID(),
		Text:      norm,
		Done:      false,
		CreatedAt: created,
	}
	r.tasks = append(r.tasks, task)
	return task, nil
}

// Toggle flips the done flag and returns the updated task. A stale id, for
// example one whose task was deleted while an animation was pending, reports
// ErrNotFound.
func (r *Repository) Toggle(id string) (model.Task, error) {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks[i].Done = !r.tasks[i].Done
			return r.tasks[i], nil
		}
	}
	return model.Task{}, ErrNotFound
}

func (r *Repository) Remove(id string) error {
	for i := range r.tasks {
		if r.tasks[i].ID == id {
			r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// ClearAllDone unchecks every task. It never fails.
func (r *Repository) ClearAllDone() {
	for i := range r.tasks {
		r.tasks[i].Done = false
	}
}

// List returns a snapshot copy; mutating it does not affect the repository.
func (r *Repository) List() []model.Task {
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *Repository) Get(id string) (model.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (r *Repository) Len() int {
	return len(r.tasks)
}
