// Package prefs owns the persisted settings record and theme resolution.
package prefs

import (
	"context"
	"time"

	"github.com/charmbracelet/lipgloss"

	"tidytask/internal/model"
	"tidytask/internal/storage"
)

// Controller holds the in-memory preferences and keeps the persisted copy in
// step. Invalid inputs are ignored, the prior value stays. The wall clock
// and the OS dark-mode signal are injected so resolution is testable.
type Controller struct {
	prefs      model.Preferences
	store      storage.Store
	now        func() time.Time
	systemDark func() bool
	onTheme    func(model.Theme)
	onSort     func(model.SortMode)

	saveFailures uint64
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithSystemDarkSignal(isDark func() bool) Option {
	return func(c *Controller) { c.systemDark = isDark }
}

// WithThemeEffect registers the callback fired after a theme change.
func WithThemeEffect(fn func(model.Theme)) Option {
	return func(c *Controller) { c.onTheme = fn }
}

// WithSortEffect registers the callback fired after a sort mode change,
// typically the full resort.
func WithSortEffect(fn func(model.SortMode)) Option {
	return func(c *Controller) { c.onSort = fn }
}

func NewController(initial model.Preferences, store storage.Store, opts ...Option) *Controller {
	c := &Controller{
		prefs:      initial.Normalized(),
		store:      store,
		now:        time.Now,
		systemDark: lipgloss.HasDarkBackground,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Current() model.Preferences {
	return c.prefs
}

// SetTheme validates, updates, persists best-effort, and fires the theme
// effect. An invalid mode is ignored and keeps the prior value.
func (c *Controller) SetTheme(ctx context.Context, mode model.ThemeMode) {
	if !mode.IsValid() {
		return
	}
	c.prefs.Theme = mode
	c.persist(ctx)
	if c.onTheme != nil {
		c.onTheme(c.ResolvedTheme())
	}
}

// SetSortMode validates, updates, persists best-effort, and fires the resort
// effect.
func (c *Controller) SetSortMode(ctx context.Context, mode model.SortMode) {
	if !mode.IsValid() {
		return
	}
	c.prefs.Sort = mode
	c.persist(ctx)
	if c.onSort != nil {
		c.onSort(mode)
	}
}

// ResolvedTheme applies the current theme policy against the injected clock
// and system signal.
func (c *Controller) ResolvedTheme() model.Theme {
	return ResolveTheme(c.prefs.Theme, c.now(), c.systemDark())
}

// SaveFailures reports how many preference saves have been swallowed.
func (c *Controller) SaveFailures() uint64 {
	return c.saveFailures
}

func (c *Controller) persist(ctx context.Context) {
	if err := c.store.SavePrefs(ctx, c.prefs); err != nil {
		c.saveFailures++
	}
}

// ResolveTheme maps a theme policy to a concrete appearance. Explicit modes
// return themselves, system follows the injected dark-mode signal, and time
// is dark during the local evening and night: hour 21 through 6.
func ResolveTheme(mode model.ThemeMode, now time.Time, systemDark bool) model.Theme {
	switch mode {
	case model.ThemeLight:
		return model.Light
	case model.ThemeDark:
		return model.Dark
	case model.ThemeSystem:
		if systemDark {
			return model.Dark
		}
		return model.Light
	default:
		h := now.Hour()
		if h >= 21 || h < 7 {
			return model.Dark
		}
		return model.Light
	}
}
