// Package preferences holds explicit, injected user preferences with a
// load-at-init and save-on-change lifecycle.
package preferences

import (
	"context"
	"log/slog"
	"sync"
)

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences is the durable preference set.
type Preferences struct {
	Theme string `json:"theme"`
}

// Defaults returns the preferences used when nothing is stored yet.
func Defaults() Preferences {
	return Preferences{Theme: ThemeLight}
}

// Store persists one preference set.
type Store interface {
	Load(ctx context.Context) (Preferences, error)
	Save(ctx context.Context, prefs Preferences) error
}

// Manager owns the in-memory preference value. It loads once at
// construction and writes through to the store on every change; a
// failed load falls back to defaults (logged, not fatal).
type Manager struct {
	store Store

	mu    sync.Mutex
	prefs Preferences
}

func NewManager(ctx context.Context, store Store) *Manager {
	m := &Manager{
		store: store,
		prefs: Defaults(),
	}

	prefs, err := store.Load(ctx)
	if err != nil {
		slog.WarnContext(ctx, "failed to load preferences, using defaults",
			slog.String("error", err.Error()))

		return m
	}

	if prefs.Theme != "" {
		m.prefs = prefs
	}

	return m
}

func (m *Manager) Theme() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.prefs.Theme
}

// Preferences returns a copy of the current preference set.
func (m *Manager) Preferences() Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.prefs
}

// SetTheme updates the theme and writes the preference set through to
// the store. The in-memory value changes even when the save fails, so
// the session keeps the chosen theme and only durability is lost.
func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	m.mu.Lock()
	m.prefs.Theme = theme
	prefs := m.prefs
	m.mu.Unlock()

	return m.store.Save(ctx, prefs)
}
