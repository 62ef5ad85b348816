// Package storage persists the task and category collections as two JSON
// slots in a local data directory. All writes are whole-collection
// replaces: load the full array, mutate in memory, store the full array.
package storage

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"taskdeck/internal/fsutil"
)

const (
	tasksFile      = "todos.json"
	categoriesFile = "categories.json"

	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600

	maxTitleLen       = 100
	maxDescriptionLen = 500
	minCategoryLen    = 2
	maxCategoryLen    = 50
)

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Storage handles all file I/O for tasks and categories.
type Storage struct {
	dataDir string
	onSave  func(filename string) // triggered after each successful write
	now     func() time.Time      // injectable clock for deterministic tests
}

// New creates a Storage instance rooted at dataDir, creating the directory
// and seeding default files on first run.
func New(dataDir string) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now}

	if err := s.initFiles(); err != nil {
		return nil, err
	}
	return s, nil
}

// SetNowFunc overrides the clock used by time-dependent operations.
// Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// SetOnSave registers a callback invoked after each successful file save.
// The UI uses it to refresh views after out-of-band writes such as imports.
func (s *Storage) SetOnSave(fn func(filename string)) {
	s.onSave = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

// initFiles creates the default JSON slots if they don't exist. A missing
// tasks slot becomes an empty list; a missing categories slot is seeded
// with the three default categories.
func (s *Storage) initFiles() error {
	if !fileExists(s.path(tasksFile)) {
		if err := s.SaveTasks([]Task{}); err != nil {
			return err
		}
	}
	if !fileExists(s.path(categoriesFile)) {
		if err := s.SaveCategories(DefaultCategories()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

func newID(prefix string) (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(b[:])), nil
}

func (s *Storage) writeJSONAtomic(filename string, v any) error {
	path := s.path(filename)
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", filename, err)
	}

	// Keep a best-effort backup before overwriting.
	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}

	if s.onSave != nil {
		s.onSave(filename)
	}
	return nil
}

func (s *Storage) loadJSONWithRecovery(filename string, v any) error {
	path := s.path(filename)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.writeJSONAtomic(filename, v)
		}
		return fmt.Errorf("read %s: %w", filename, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorruptJSON(filename, v, fmt.Errorf("%s is empty", filename))
	}

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}
	return s.recoverCorruptJSON(filename, v, fmt.Errorf("parse %s: %w", filename, err))
}

func (s *Storage) recoverCorruptJSON(filename string, v any, cause error) error {
	path := s.path(filename)

	// Try backup first.
	bakData, bakErr := os.ReadFile(path + ".bak")
	if bakErr == nil && len(bytes.TrimSpace(bakData)) > 0 {
		if err := json.Unmarshal(bakData, v); err == nil {
			corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
			_ = os.Rename(path, corruptPath)
			_ = s.writeJSONAtomic(filename, v)
			return fmt.Errorf("%s (recovered from %s.bak)", cause.Error(), filename)
		}
	}

	// No usable backup: preserve the broken file (best effort) and reset.
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, time.Now().Format("20060102-150405"))
	_ = os.Rename(path, corruptPath)
	_ = s.writeJSONAtomic(filename, v)
	return fmt.Errorf("%s (reset to defaults; original moved to %s)", cause.Error(), corruptPath)
}

// ============================================================================
// Tasks
// ============================================================================

// LoadTasks reads the full task collection from disk.
func (s *Storage) LoadTasks() ([]Task, error) {
	tasks := []Task{}
	err := s.loadJSONWithRecovery(tasksFile, &tasks)
	return tasks, err
}

// SaveTasks writes the full task collection to disk.
func (s *Storage) SaveTasks(tasks []Task) error {
	return s.writeJSONAtomic(tasksFile, tasks)
}

// AddTask creates a new task and appends it to the collection. Order
// continues from the current maximum so new tasks land at the end of the
// manual ordering.
func (s *Storage) AddTask(title, description, category, dueDate string, status Status) (*Task, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	category = strings.TrimSpace(category)

	if err := validateTaskFields(title, description, category, dueDate); err != nil {
		return nil, err
	}
	if status != StatusCompleted {
		status = StatusPending
	}

	tasks, err := s.LoadTasks()
	if err != nil {
		return nil, err
	}

	id, err := newID("t")
	if err != nil {
		return nil, err
	}

	task := Task{
		ID:          id,
		Title:       title,
		Description: description,
		Category:    category,
		DueDate:     dueDate,
		Status:      status,
		CreatedAt:   s.Now(),
		Order:       maxOrder(tasks) + 1,
	}
	if status == StatusCompleted {
		now := s.Now()
		task.CompletedAt = &now
	}

	tasks = append(tasks, task)
	if err := s.SaveTasks(tasks); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask replaces the stored fields of the task with the given ID.
// Identity and creation timestamp are preserved.
func (s *Storage) UpdateTask(id string, updated Task) error {
	updated.Title = strings.TrimSpace(updated.Title)
	updated.Description = strings.TrimSpace(updated.Description)
	updated.Category = strings.TrimSpace(updated.Category)

	if err := validateTaskFields(updated.Title, updated.Description, updated.Category, updated.DueDate); err != nil {
		return err
	}

	tasks, err := s.LoadTasks()
	if err != nil {
		return err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			updated.ID = tasks[i].ID
			updated.CreatedAt = tasks[i].CreatedAt
			if updated.Order == 0 {
				updated.Order = tasks[i].Order
			}
			tasks[i] = updated
			return s.SaveTasks(tasks)
		}
	}
	return fmt.Errorf("task not found: %s", id)
}

// ToggleTask flips a task between pending and completed, stamping or
// clearing CompletedAt accordingly.
func (s *Storage) ToggleTask(id string) (*Task, error) {
	tasks, err := s.LoadTasks()
	if err != nil {
		return nil, err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			if tasks[i].Status == StatusCompleted {
				tasks[i].Status = StatusPending
				tasks[i].CompletedAt = nil
			} else {
				tasks[i].Status = StatusCompleted
				now := s.Now()
				tasks[i].CompletedAt = &now
			}
			if err := s.SaveTasks(tasks); err != nil {
				return nil, err
			}
			t := tasks[i]
			return &t, nil
		}
	}
	return nil, fmt.Errorf("task not found: %s", id)
}

// DeleteTask removes a task from the collection.
func (s *Storage) DeleteTask(id string) error {
	tasks, err := s.LoadTasks()
	if err != nil {
		return err
	}

	for i := range tasks {
		if tasks[i].ID == id {
			tasks = append(tasks[:i], tasks[i+1:]...)
			return s.SaveTasks(tasks)
		}
	}
	return fmt.Errorf("task not found: %s", id)
}

// MoveTask splices the dragged task to the target task's position and
// renumbers Order over the whole collection, matching the manual
// drag-reorder semantics.
func (s *Storage) MoveTask(draggedID, targetID string) error {
	tasks, err := s.LoadTasks()
	if err != nil {
		return err
	}

	draggedIdx, targetIdx := -1, -1
	for i := range tasks {
		switch tasks[i].ID {
		case draggedID:
			draggedIdx = i
		case targetID:
			targetIdx = i
		}
	}
	if draggedIdx == -1 {
		return fmt.Errorf("task not found: %s", draggedID)
	}
	if targetIdx == -1 {
		return fmt.Errorf("task not found: %s", targetID)
	}

	dragged := tasks[draggedIdx]
	tasks = append(tasks[:draggedIdx], tasks[draggedIdx+1:]...)
	tasks = append(tasks[:targetIdx], append([]Task{dragged}, tasks[targetIdx:]...)...)

	for i := range tasks {
		tasks[i].Order = i + 1
	}
	return s.SaveTasks(tasks)
}

// ImportTasks appends already-validated tasks to the collection, assigning
// fresh IDs, creation timestamps, and order values continuing from the
// current maximum. It returns the stored copies.
func (s *Storage) ImportTasks(incoming []Task) ([]Task, error) {
	tasks, err := s.LoadTasks()
	if err != nil {
		return nil, err
	}

	next := maxOrder(tasks)
	added := make([]Task, 0, len(incoming))
	for _, t := range incoming {
		id, err := newID("t")
		if err != nil {
			return nil, err
		}
		next++
		t.ID = id
		t.CreatedAt = s.Now()
		t.Order = next
		tasks = append(tasks, t)
		added = append(added, t)
	}

	if err := s.SaveTasks(tasks); err != nil {
		return nil, err
	}
	return added, nil
}

func maxOrder(tasks []Task) int {
	m := 0
	for _, t := range tasks {
		if t.Order > m {
			m = t.Order
		}
	}
	return m
}

// validateTaskFields enforces the storage-level constraints. The stricter
// form rules (minimum title length, due date not in the past, category
// membership) belong to the bulkimport validators used by the form and
// import pipeline.
func validateTaskFields(title, description, category, dueDate string) error {
	if title == "" {
		return fmt.Errorf("task title is required")
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("task title too long (max %d)", maxTitleLen)
	}
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("task description too long (max %d)", maxDescriptionLen)
	}
	if category == "" {
		return fmt.Errorf("task category is required")
	}
	if _, err := time.Parse(DueDateLayout, dueDate); err != nil {
		return fmt.Errorf("invalid due date %q: expected YYYY-MM-DD", dueDate)
	}
	return nil
}

// ============================================================================
// Categories
// ============================================================================

// LoadCategories reads the full category collection from disk.
func (s *Storage) LoadCategories() ([]Category, error) {
	categories := []Category{}
	err := s.loadJSONWithRecovery(categoriesFile, &categories)
	return categories, err
}

// SaveCategories writes the full category collection to disk.
func (s *Storage) SaveCategories(categories []Category) error {
	return s.writeJSONAtomic(categoriesFile, categories)
}

// CategoryTitles returns the set of current category titles, used by the
// import pipeline for membership checks.
func (s *Storage) CategoryTitles() (map[string]struct{}, error) {
	categories, err := s.LoadCategories()
	if err != nil {
		return nil, err
	}
	titles := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		titles[c.Title] = struct{}{}
	}
	return titles, nil
}

// AddCategory creates a new category. Titles must be unique, compared
// case-insensitively.
func (s *Storage) AddCategory(title, color string) (*Category, error) {
	title = strings.TrimSpace(title)
	color = strings.TrimSpace(color)

	if err := validateCategoryFields(title, color); err != nil {
		return nil, err
	}

	categories, err := s.LoadCategories()
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if strings.EqualFold(c.Title, title) {
			return nil, fmt.Errorf("category already exists: %s", c.Title)
		}
	}

	id, err := newID("cat")
	if err != nil {
		return nil, err
	}

	category := Category{ID: id, Title: title, Color: color}
	categories = append(categories, category)
	if err := s.SaveCategories(categories); err != nil {
		return nil, err
	}
	return &category, nil
}

// UpdateCategory renames and/or recolors a category. Tasks referencing the
// old title are repointed so the soft reference stays intact.
func (s *Storage) UpdateCategory(id, title, color string) error {
	title = strings.TrimSpace(title)
	color = strings.TrimSpace(color)

	if err := validateCategoryFields(title, color); err != nil {
		return err
	}

	categories, err := s.LoadCategories()
	if err != nil {
		return err
	}

	idx := -1
	for i, c := range categories {
		if c.ID == id {
			idx = i
			continue
		}
		if strings.EqualFold(c.Title, title) {
			return fmt.Errorf("category already exists: %s", c.Title)
		}
	}
	if idx == -1 {
		return fmt.Errorf("category not found: %s", id)
	}

	oldTitle := categories[idx].Title
	categories[idx].Title = title
	categories[idx].Color = color
	if err := s.SaveCategories(categories); err != nil {
		return err
	}

	if oldTitle == title {
		return nil
	}
	tasks, err := s.LoadTasks()
	if err != nil {
		return err
	}
	changed := false
	for i := range tasks {
		if tasks[i].Category == oldTitle {
			tasks[i].Category = title
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.SaveTasks(tasks)
}

// DeleteCategory removes a category. The referenced-by-tasks guard is
// deliberately not enforced here: callers (UI and CLI) check
// TasksUsingCategory first, mirroring the collaborator-level guard.
func (s *Storage) DeleteCategory(id string) error {
	categories, err := s.LoadCategories()
	if err != nil {
		return err
	}

	for i := range categories {
		if categories[i].ID == id {
			categories = append(categories[:i], categories[i+1:]...)
			return s.SaveCategories(categories)
		}
	}
	return fmt.Errorf("category not found: %s", id)
}

// TasksUsingCategory counts tasks whose category field equals the given
// title (exact match, as stored).
func (s *Storage) TasksUsingCategory(title string) (int, error) {
	tasks, err := s.LoadTasks()
	if err != nil {
		return 0, err
	}
	count := 0
	for _, t := range tasks {
		if t.Category == title {
			count++
		}
	}
	return count, nil
}

func validateCategoryFields(title, color string) error {
	if title == "" {
		return fmt.Errorf("category name is required")
	}
	if len(title) < minCategoryLen {
		return fmt.Errorf("category name too short (min %d)", minCategoryLen)
	}
	if len(title) > maxCategoryLen {
		return fmt.Errorf("category name too long (max %d)", maxCategoryLen)
	}
	if !hexColorRe.MatchString(color) {
		return fmt.Errorf("invalid color %q: expected #RRGGBB", color)
	}
	return nil
}
