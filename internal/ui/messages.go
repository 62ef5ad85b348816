// Package ui provides terminal user interface components for the taskdeck app.
// This file defines message types for async I/O operations using the Bubble Tea
// command pattern. All storage operations should return these messages to keep
// the event loop non-blocking.
package ui

import (
	"taskdeck/internal/storage"
)

// =============================================================================
// Task Messages
// =============================================================================

// tasksLoadedMsg is sent when tasks are loaded from storage.
type tasksLoadedMsg struct {
	tasks []storage.Task
	err   error
}

// taskAddedMsg is sent when a new task is created.
type taskAddedMsg struct {
	task *storage.Task
	err  error
}

// taskUpdatedMsg is sent when an existing task is edited.
type taskUpdatedMsg struct {
	id  string
	err error
}

// taskToggledMsg is sent when a task's completion status flips.
type taskToggledMsg struct {
	task *storage.Task
	err  error
}

// taskDeletedMsg is sent when a task is removed.
type taskDeletedMsg struct {
	id  string
	err error
}

// taskMovedMsg is sent when a task is manually reordered.
type taskMovedMsg struct {
	err error
}

// =============================================================================
// Category Messages
// =============================================================================

// categoriesLoadedMsg is sent when categories are loaded from storage.
type categoriesLoadedMsg struct {
	categories []storage.Category
	err        error
}

// categoryAddedMsg is sent when a new category is created.
type categoryAddedMsg struct {
	category *storage.Category
	err      error
}

// categoryUpdatedMsg is sent when a category is renamed or recolored.
type categoryUpdatedMsg struct {
	id  string
	err error
}

// categoryDeletedMsg is sent when a category is removed.
type categoryDeletedMsg struct {
	id  string
	err error
}

// =============================================================================
// Export Messages
// =============================================================================

// exportDoneMsg is sent when an export file has been written.
type exportDoneMsg struct {
	path  string
	count int
	err   error
}
