// Package ordering decides where tasks belong on screen. The comparator is a
// total order so that incremental insertion and full resorts agree.
package ordering

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"tidytask/internal/model"
)

// The app targets a single Russian locale; collation is hard-coded to match.
func newCollator() *collate.Collator {
	return collate.New(language.Russian, collate.Loose)
}

// Compare reports the relative order of a and b under mode: negative when a
// comes first. Tasks that are not done always precede done ones regardless
// of mode. Within a group, added order compares creation time and alpha
// order compares collated normalized text; both fall back to further keys so
// no two distinct tasks ever compare equal.
func Compare(a, b model.Task, mode model.SortMode) int {
	if a.Done != b.Done {
		if a.Done {
			return 1
		}
		return -1
	}

	if mode == model.SortAlpha {
		if c := newCollator().CompareString(model.Normalize(a.Text), model.Normalize(b.Text)); c != 0 {
			return c
		}
	}
	if a.CreatedAt != b.CreatedAt {
		if a.CreatedAt < b.CreatedAt {
			return -1
		}
		return 1
	}
	return strings.Compare(a.ID, b.ID)
}

// Sort orders tasks in place under mode.
func Sort(tasks []model.Task, mode model.SortMode) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Compare(tasks[i], tasks[j], mode) < 0
	})
}

// PositionFor returns the index at which task belongs in snapshot so the
// total order is preserved. Entries carrying the task's own id are skipped,
// so callers may pass the currently rendered order unchanged.
func PositionFor(task model.Task, snapshot []model.Task, mode model.SortMode) int {
	idx := 0
	for _, other := range snapshot {
		if other.ID == task.ID {
			continue
		}
		if Compare(task, other, mode) < 0 {
			return idx
		}
		idx++
	}
	return idx
}
