package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"tidytask/internal/model"
)

// SQLiteStore keeps both slots in a single-table key-value schema.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if err := MigrateUp(db); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadTasks(ctx context.Context) ([]model.Task, error) {
	raw, err := s.readSlot(ctx, tasksSlot)
	if err != nil {
		return nil, err
	}
	return decodeTaskRecords(raw), nil
}

func (s *SQLiteStore) SaveTasks(ctx context.Context, tasks []model.Task) error {
	raw, err := encodeTasks(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	return s.writeSlot(ctx, tasksSlot, raw)
}

func (s *SQLiteStore) LoadPrefs(ctx context.Context) (model.Preferences, error) {
	raw, err := s.readSlot(ctx, prefsSlot)
	if errors.Is(err, ErrNotFound) {
		return model.DefaultPreferences(), nil
	}
	if err != nil {
		return model.DefaultPreferences(), err
	}
	return decodePrefs(raw), nil
}

func (s *SQLiteStore) SavePrefs(ctx context.Context, prefs model.Preferences) error {
	raw, err := json.Marshal(prefs.Normalized())
	if err != nil {
		return fmt.Errorf("encode prefs: %w", err)
	}
	return s.writeSlot(ctx, prefsSlot, raw)
}

func (s *SQLiteStore) readSlot(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLiteStore) writeSlot(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}
