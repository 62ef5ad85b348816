package ui

import (
	"os"
	"strings"
	"testing"

	"taskdeck/internal/query"
	"taskdeck/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTaskPaneView_Empty(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)

	output := pane.View()
	if !strings.Contains(output, "No tasks yet") {
		t.Errorf("empty pane should show the empty hint, got:\n%s", output)
	}
}

func TestTaskPaneView_WithTasks(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Buy groceries", "", "Personal", "2026-01-20", storage.StatusPending)
	store.AddTask("Write tests", "", "Work", "2026-01-21", storage.StatusPending)
	store.AddTask("Review PR", "", "Work", "2026-01-22", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	output := pane.View()
	for _, want := range []string{"Buy groceries", "Write tests", "Review PR", "3 tasks"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTaskPane_CompletedBucket(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	task, _ := store.AddTask("Done already", "", "Work", "2026-01-10", storage.StatusPending)
	store.AddTask("Still pending", "", "Work", "2026-01-20", storage.StatusPending)
	store.ToggleTask(task.ID)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	// Pending bucket by default
	output := pane.View()
	if strings.Contains(output, "Done already") {
		t.Errorf("pending view should hide completed tasks:\n%s", output)
	}
	if !strings.Contains(output, "Still pending") {
		t.Errorf("pending view should show pending tasks:\n%s", output)
	}

	// Flip to the completed bucket
	pane.qry.Completed = true
	pane.refresh()

	output = pane.View()
	if !strings.Contains(output, "Done already") {
		t.Errorf("completed view should show completed tasks:\n%s", output)
	}
	if strings.Contains(output, "Still pending") {
		t.Errorf("completed view should hide pending tasks:\n%s", output)
	}
}

func TestTaskPane_SearchFiltersLive(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Groceries run", "milk and eggs", "Personal", "2026-01-20", storage.StatusPending)
	store.AddTask("Tax return", "", "Work", "2026-01-21", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	pane.qry.Search = "milk"
	pane.refresh()

	if got := len(pane.page.Items); got != 1 {
		t.Fatalf("search for description text matched %d tasks, want 1", got)
	}
	if pane.page.Items[0].Title != "Groceries run" {
		t.Errorf("search matched %q, want Groceries run", pane.page.Items[0].Title)
	}
}

func TestTaskPane_Pagination(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	for i := 0; i < 15; i++ {
		store.AddTask("Task "+string(rune('a'+i)), "", "Work", "2026-01-20", storage.StatusPending)
	}

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 30)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	if pane.page.TotalPages != 2 {
		t.Fatalf("TotalPages = %d, want 2", pane.page.TotalPages)
	}
	if len(pane.page.Items) != query.DefaultPageSize {
		t.Errorf("page 1 has %d items, want %d", len(pane.page.Items), query.DefaultPageSize)
	}

	pane.pageNum = 2
	pane.refresh()
	if len(pane.page.Items) != 5 {
		t.Errorf("page 2 has %d items, want 5", len(pane.page.Items))
	}

	output := pane.View()
	if !strings.Contains(output, "page 2/2") {
		t.Errorf("page indicator missing:\n%s", output)
	}
}

func TestTaskPane_SetPageSize(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	for i := 0; i < 6; i++ {
		store.AddTask("Task "+string(rune('a'+i)), "", "Work", "2026-01-20", storage.StatusPending)
	}

	pane := NewTaskPane(store, styles)
	pane.SetPageSize(5)
	loadInto(t, store, pane)

	if pane.page.TotalPages != 2 {
		t.Errorf("TotalPages with page size 5 = %d, want 2", pane.page.TotalPages)
	}
}

func TestTaskPane_CategoryFilterCycle(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Work thing", "", "Work", "2026-01-20", storage.StatusPending)
	store.AddTask("Home thing", "", "Personal", "2026-01-21", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	if len(pane.page.Items) != 2 {
		t.Fatalf("unfiltered page has %d items, want 2", len(pane.page.Items))
	}

	// First cycle step selects the first seeded category (Work)
	pane.cycleCategoryFilter()
	if got := len(pane.page.Items); got != 1 {
		t.Fatalf("Work filter matched %d tasks, want 1", got)
	}
	if pane.page.Items[0].Category != "Work" {
		t.Errorf("filtered task category = %q, want Work", pane.page.Items[0].Category)
	}

	// Cycling past the last category returns to all
	pane.cycleCategoryFilter() // Personal
	pane.cycleCategoryFilter() // Urgent
	pane.cycleCategoryFilter() // all
	if pane.filterIdx != -1 {
		t.Errorf("filterIdx after full cycle = %d, want -1", pane.filterIdx)
	}
	if len(pane.page.Items) != 2 {
		t.Errorf("page after full cycle has %d items, want 2", len(pane.page.Items))
	}
}

func TestTaskPane_MoveDisabledWhileFiltering(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("First", "", "Work", "2026-01-20", storage.StatusPending)
	store.AddTask("Second", "", "Work", "2026-01-21", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	pane.cursor = 1
	pane.qry.Search = "s"
	pane.refresh()

	if cmd := pane.moveCurrent(-1); cmd != nil {
		t.Error("moveCurrent should return nil while a filter is active")
	}

	pane.qry.Search = ""
	pane.cursor = 1
	pane.refresh()

	if cmd := pane.moveCurrent(-1); cmd == nil {
		t.Error("moveCurrent should return a command on the plain pending list")
	}
}

func TestTaskPane_MoveDisabledInCompletedBucket(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	a, _ := store.AddTask("First", "", "Work", "2026-01-20", storage.StatusPending)
	b, _ := store.AddTask("Second", "", "Work", "2026-01-21", storage.StatusPending)
	store.ToggleTask(a.ID)
	store.ToggleTask(b.ID)

	pane := NewTaskPane(store, styles)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	pane.qry.Completed = true
	pane.cursor = 1
	pane.refresh()

	if cmd := pane.moveCurrent(-1); cmd != nil {
		t.Error("moveCurrent should be disabled in the completed bucket")
	}
}

func TestTaskPane_Stats(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewTaskPane(store, styles)

	// Empty initially
	done, total := pane.Stats()
	if done != 0 || total != 0 {
		t.Errorf("Stats() = (%d, %d), want (0, 0)", done, total)
	}

	task, _ := store.AddTask("Task 1", "", "Work", "2026-01-20", storage.StatusPending)
	store.AddTask("Task 2", "", "Work", "2026-01-21", storage.StatusPending)
	store.ToggleTask(task.ID)
	loadInto(t, store, pane)

	done, total = pane.Stats()
	if done != 1 || total != 2 {
		t.Errorf("Stats() = (%d, %d), want (1, 2)", done, total)
	}
}

func TestTaskPane_OpenFormPrefillsEdit(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Fix the roof", "before winter", "Personal", "2026-02-01", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	task := pane.Current()
	if task == nil {
		t.Fatal("expected a task under the cursor")
	}
	pane.openForm(task)

	if !pane.IsEditing() {
		t.Fatal("openForm should enter edit mode")
	}
	if got := pane.formInputs[formTitle].Value(); got != "Fix the roof" {
		t.Errorf("title field = %q", got)
	}
	if got := pane.formInputs[formDescription].Value(); got != "before winter" {
		t.Errorf("description field = %q", got)
	}
	if got := pane.formInputs[formCategory].Value(); got != "Personal" {
		t.Errorf("category field = %q", got)
	}
	if got := pane.formInputs[formDueDate].Value(); got != "2026-02-01" {
		t.Errorf("due date field = %q", got)
	}
}

func TestTaskPane_OpenFormBlankAddDefaults(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewTaskPane(store, styles)
	loadInto(t, store, pane)
	pane.openForm(nil)

	// Category defaults to the first seeded category, due date to today
	if got := pane.formInputs[formCategory].Value(); got != "Work" {
		t.Errorf("default category = %q, want Work", got)
	}
	if got := pane.formInputs[formDueDate].Value(); got != "2026-01-15" {
		t.Errorf("default due date = %q, want 2026-01-15", got)
	}
}

func TestTaskPane_ExportKeyWritesCSV(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Keep me", "", "Work", "2026-01-20", storage.StatusPending)
	store.AddTask("Me too", "", "Personal", "2026-01-21", storage.StatusPending)

	pane := NewTaskPane(store, styles)
	pane.SetFocused(true)
	loadInto(t, store, pane)

	cmd := pane.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'E'}})
	if cmd == nil {
		t.Fatal("expected an export command")
	}

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldWD) })
	msg, ok := cmd().(exportDoneMsg)
	if !ok || msg.err != nil {
		t.Fatalf("export failed: %#v", msg)
	}
	if msg.count != 2 {
		t.Errorf("exported %d tasks, want 2", msg.count)
	}
	// Filename follows the fixed clock
	if msg.path != "tasks-2026-01-15.csv" {
		t.Errorf("export path = %q", msg.path)
	}
	if _, err := os.Stat(msg.path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestFormatDueDate(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()
	pane := NewTaskPane(store, styles)

	// Relative to the fixed clock 2026-01-15
	tests := []struct {
		name    string
		dueDate string
		status  storage.Status
		want    string
	}{
		{"overdue", "2026-01-14", storage.StatusPending, "!"},
		{"today", "2026-01-15", storage.StatusPending, "T"},
		{"tomorrow", "2026-01-16", storage.StatusPending, "+1"},
		{"3 days", "2026-01-18", storage.StatusPending, "3d"},
		{"2 weeks", "2026-01-29", storage.StatusPending, "2w"},
		{"over month", "2026-03-01", storage.StatusPending, ">1m"},
		{"malformed", "01/15/2026", storage.StatusPending, ""},
		{"completed renders nothing", "2026-01-14", storage.StatusCompleted, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := storage.Task{DueDate: tt.dueDate, Status: tt.status}
			got := pane.formatDueDate(task)
			if got != tt.want {
				t.Errorf("formatDueDate(%s) = %q, want %q", tt.dueDate, got, tt.want)
			}
		})
	}
}
