package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"tidytask/internal/model"
)

const (
	tasksFileName = "tasks.json"
	prefsFileName = "prefs.json"
)

// FileStore keeps each slot in its own JSON file under a state directory.
// Writes go through a temporary file and an atomic rename so a crash cannot
// leave a half-written slot behind.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) LoadTasks(_ context.Context) ([]model.Task, error) {
	raw, err := s.readSlotFile(tasksFileName)
	if err != nil {
		return nil, err
	}
	return decodeTaskRecords(raw), nil
}

func (s *FileStore) SaveTasks(_ context.Context, tasks []model.Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return s.writeSlotFile(tasksFileName, raw)
}

func (s *FileStore) LoadPrefs(_ context.Context) (model.Preferences, error) {
	raw, err := s.readSlotFile(prefsFileName)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.DefaultPreferences(), err
	}
	return decodePrefs(raw), nil
}

func (s *FileStore) SavePrefs(_ context.Context, prefs model.Preferences) error {
	raw, err := json.Marshal(prefs.Normalized())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	return s.writeSlotFile(prefsFileName, raw)
}

func (s *FileStore) readSlotFile(name string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return raw, nil
}

func (s *FileStore) writeSlotFile(name string, raw []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	return os.Rename(tmpName, path)
}
