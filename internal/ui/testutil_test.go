package ui

import (
	"testing"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// uiTestNow keeps due-date rendering deterministic across environments.
var uiTestNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

// setupTest prepares the test environment for deterministic rendering.
// It disables colors to ensure consistent output across environments.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage creates a Storage instance with a temporary directory
// and a fixed clock.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	store.SetNowFunc(func() time.Time { return uiTestNow })
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// loadInto pushes the current storage contents into a task pane the way
// the app would, via the async load messages.
func loadInto(t *testing.T, store *storage.Storage, pane *TaskPane) {
	t.Helper()
	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	categories, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}
	pane.Update(categoriesLoadedMsg{categories: categories})
	pane.Update(tasksLoadedMsg{tasks: tasks})
}
