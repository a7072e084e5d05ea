package storage

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"tidytask/internal/model"
)

// decodeTaskRecords parses a persisted tasks payload, tolerating damage.
// A payload that is not a task array yields an empty collection. Within a
// parseable array, entries without text are dropped, a missing id is
// regenerated, and a missing creation timestamp is filled so relative order
// is preserved.
func decodeTaskRecords(raw []byte) []model.Task {
	var records []model.Task
	if err := json.Unmarshal(raw, &records); err != nil {
		return []model.Task{}
	}

	out := make([]model.Task, 0, len(records))
	var last int64
	for _, rec := range records {
		if strings.TrimSpace(rec.Text) == "" {
			continue
		}
		if strings.TrimSpace(rec.ID) == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt <= 0 {
			rec.CreatedAt = last + 1
		}
		if rec.CreatedAt > last {
			last = rec.CreatedAt
		}
		out = append(out, rec)
	}
	return out
}

// decodePrefs parses a persisted preferences payload. Anything undecodable
// or out of range collapses to defaults.
func decodePrefs(raw []byte) model.Preferences {
	var prefs model.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return model.DefaultPreferences()
	}
	return prefs.Normalized()
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []model.Task{}
	}
	return json.Marshal(tasks)
}
