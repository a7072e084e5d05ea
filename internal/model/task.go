package model

import (
	"errors"
	"strings"
)

type SortMode string

const (
	SortAdded SortMode = "added"
	SortAlpha SortMode = "alpha"
)

func (m SortMode) IsValid() bool {
	switch m {
	case SortAdded, SortAlpha:
		return true
	default:
		return false
	}
}

// ThemeMode is the user-selected theme policy. Light and dark are explicit;
// system and time resolve to a concrete Theme when applied.
type ThemeMode string

const (
	ThemeLight  ThemeMode = "light"
	ThemeDark   ThemeMode = "dark"
	ThemeSystem ThemeMode = "system"
	ThemeTime   ThemeMode = "time"
)

func (m ThemeMode) IsValid() bool {
	switch m {
	case ThemeLight, ThemeDark, ThemeSystem, ThemeTime:
		return true
	default:
		return false
	}
}

// Theme is a resolved appearance, never a policy.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Task is one to-do entry. Text holds the normalized storage form; use
// DisplayForm when presenting it. CreatedAt is unix milliseconds and is
// strictly increasing in creation order within a session.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Done      bool   `json:"done"`
	CreatedAt int64  `json:"createdAt"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Text) == "" {
		return errors.New("model: task text is required")
	}
	if t.CreatedAt <= 0 {
		return errors.New("model: task createdAt is required")
	}
	return nil
}
