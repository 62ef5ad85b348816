// Package ui provides terminal user interface components for the taskdeck app.
// This file contains tea.Cmd factories that wrap storage operations. These
// commands run I/O operations asynchronously to keep the Bubble Tea event
// loop responsive. Each command returns a corresponding message type defined
// in messages.go.
package ui

import (
	"fmt"

	"taskdeck/internal/export"
	"taskdeck/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Task Commands
// =============================================================================

// loadTasksCmd returns a command that loads all tasks from storage.
func loadTasksCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.LoadTasks()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// addTaskCmd returns a command that creates a new task.
func addTaskCmd(store *storage.Storage, title, description, category, dueDate string) tea.Cmd {
	return func() tea.Msg {
		task, err := store.AddTask(title, description, category, dueDate, storage.StatusPending)
		return taskAddedMsg{task: task, err: err}
	}
}

// updateTaskCmd returns a command that applies edits to an existing task.
func updateTaskCmd(store *storage.Storage, id string, updated storage.Task) tea.Cmd {
	return func() tea.Msg {
		err := store.UpdateTask(id, updated)
		return taskUpdatedMsg{id: id, err: err}
	}
}

// toggleTaskCmd returns a command that flips a task's completion status.
func toggleTaskCmd(store *storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		task, err := store.ToggleTask(id)
		return taskToggledMsg{task: task, err: err}
	}
}

// deleteTaskCmd returns a command that removes a task.
func deleteTaskCmd(store *storage.Storage, id string) tea.Cmd {
	return func() tea.Msg {
		err := store.DeleteTask(id)
		return taskDeletedMsg{id: id, err: err}
	}
}

// moveTaskCmd returns a command that drops the dragged task at the target
// task's position and renumbers the manual order.
func moveTaskCmd(store *storage.Storage, draggedID, targetID string) tea.Cmd {
	return func() tea.Msg {
		err := store.MoveTask(draggedID, targetID)
		return taskMovedMsg{err: err}
	}
}

// =============================================================================
// Category Commands
// =============================================================================

// loadCategoriesCmd returns a command that loads all categories from storage.
func loadCategoriesCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		categories, err := store.LoadCategories()
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// addCategoryCmd returns a command that creates a new category.
func addCategoryCmd(store *storage.Storage, title, color string) tea.Cmd {
	return func() tea.Msg {
		category, err := store.AddCategory(title, color)
		return categoryAddedMsg{category: category, err: err}
	}
}

// updateCategoryCmd returns a command that renames or recolors a category.
// Renames repoint every task that referenced the old title.
func updateCategoryCmd(store *storage.Storage, id, title, color string) tea.Cmd {
	return func() tea.Msg {
		err := store.UpdateCategory(id, title, color)
		return categoryUpdatedMsg{id: id, err: err}
	}
}

// deleteCategoryCmd returns a command that removes a category. Deletion is
// refused while any task still references the category.
func deleteCategoryCmd(store *storage.Storage, id, title string) tea.Cmd {
	return func() tea.Msg {
		count, err := store.TasksUsingCategory(title)
		if err != nil {
			return categoryDeletedMsg{id: id, err: err}
		}
		if count > 0 {
			return categoryDeletedMsg{id: id, err: fmt.Errorf("%d tasks still use %q", count, title)}
		}
		err = store.DeleteCategory(id)
		return categoryDeletedMsg{id: id, err: err}
	}
}

// =============================================================================
// Export Commands
// =============================================================================

// exportFileCmd returns a command that writes all tasks to the given path.
// The extension picks the format: .xlsx for a workbook, anything else CSV.
func exportFileCmd(store *storage.Storage, path string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := store.LoadTasks()
		if err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		if err := export.WriteFile(path, tasks); err != nil {
			return exportDoneMsg{path: path, err: err}
		}
		return exportDoneMsg{path: path, count: len(tasks)}
	}
}
