package ui

import (
	"strings"
	"testing"

	"taskdeck/internal/storage"
)

func loadCategoryPane(t *testing.T, store *storage.Storage, pane *CategoryPane) {
	t.Helper()
	categories, err := store.LoadCategories()
	if err != nil {
		t.Fatalf("LoadCategories failed: %v", err)
	}
	tasks, err := store.LoadTasks()
	if err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	pane.Update(categoriesLoadedMsg{categories: categories})
	pane.Update(tasksLoadedMsg{tasks: tasks})
}

func TestCategoryPaneView_Defaults(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewCategoryPane(store, styles)
	pane.SetSize(40, 20)
	pane.SetFocused(true)
	loadCategoryPane(t, store, pane)

	output := pane.View()
	for _, want := range []string{"Work", "Personal", "Urgent", "3 categories"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestCategoryPane_TaskCounts(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("One", "", "Work", "2026-01-20", storage.StatusPending)
	store.AddTask("Two", "", "Work", "2026-01-21", storage.StatusPending)
	store.AddTask("Three", "", "Personal", "2026-01-22", storage.StatusPending)

	pane := NewCategoryPane(store, styles)
	pane.SetSize(40, 20)
	loadCategoryPane(t, store, pane)

	if got := pane.taskCounts["Work"]; got != 2 {
		t.Errorf("Work count = %d, want 2", got)
	}
	if got := pane.taskCounts["Personal"]; got != 1 {
		t.Errorf("Personal count = %d, want 1", got)
	}
	if got := pane.taskCounts["Urgent"]; got != 0 {
		t.Errorf("Urgent count = %d, want 0", got)
	}
}

func TestCategoryPane_DeleteGuard(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Uses work", "", "Work", "2026-01-20", storage.StatusPending)

	pane := NewCategoryPane(store, styles)
	pane.SetFocused(true)
	loadCategoryPane(t, store, pane)

	// Cursor starts on Work, which is in use
	cmd := pane.DeleteCurrentCmd()
	if cmd == nil {
		t.Fatal("expected a delete command")
	}
	msg, ok := cmd().(categoryDeletedMsg)
	if !ok {
		t.Fatalf("unexpected message type %T", cmd())
	}
	if msg.err == nil {
		t.Fatal("expected delete to be refused while category is in use")
	}
	if !strings.Contains(msg.err.Error(), "1 tasks still use") {
		t.Errorf("guard error = %q", msg.err)
	}

	categories, _ := store.LoadCategories()
	if len(categories) != 3 {
		t.Errorf("category deleted despite guard, %d left", len(categories))
	}

	// An unused category deletes cleanly
	pane.cursor = 2 // Urgent
	msg, _ = pane.DeleteCurrentCmd()().(categoryDeletedMsg)
	if msg.err != nil {
		t.Fatalf("deleting unused category failed: %v", msg.err)
	}
	categories, _ = store.LoadCategories()
	if len(categories) != 2 {
		t.Errorf("expected 2 categories after delete, got %d", len(categories))
	}
}

func TestCategoryPane_SubmitFormAdd(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewCategoryPane(store, styles)
	pane.SetFocused(true)
	loadCategoryPane(t, store, pane)

	pane.openForm(nil)
	pane.formInputs[catFormTitle].SetValue("Errands")
	pane.formInputs[catFormColor].SetValue("#f59e0b")
	pane.formFocus = catFormFieldCount - 1

	cmd := pane.submitForm()
	if cmd == nil {
		t.Fatal("expected an add command")
	}
	msg, ok := cmd().(categoryAddedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("add failed: %#v", msg)
	}
	if msg.category.Title != "Errands" || msg.category.Color != "#f59e0b" {
		t.Errorf("added category = %+v", msg.category)
	}

	categories, _ := store.LoadCategories()
	if len(categories) != 4 {
		t.Errorf("expected 4 categories, got %d", len(categories))
	}
}

func TestCategoryPane_SubmitFormEditRepointsTasks(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	store.AddTask("Repointed", "", "Work", "2026-01-20", storage.StatusPending)

	pane := NewCategoryPane(store, styles)
	pane.SetFocused(true)
	loadCategoryPane(t, store, pane)

	work := pane.Current()
	if work == nil || work.Title != "Work" {
		t.Fatalf("expected cursor on Work, got %+v", work)
	}

	pane.openForm(work)
	pane.formInputs[catFormTitle].SetValue("Office")
	pane.formFocus = catFormFieldCount - 1

	cmd := pane.submitForm()
	msg, ok := cmd().(categoryUpdatedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("update failed: %#v", msg)
	}

	tasks, _ := store.LoadTasks()
	if tasks[0].Category != "Office" {
		t.Errorf("task category = %q, want Office", tasks[0].Category)
	}
}

func TestCategoryPane_CancelFormKeepsState(t *testing.T) {
	setupTest(t)
	store := createTestStorage(t)
	styles := createTestStyles()

	pane := NewCategoryPane(store, styles)
	loadCategoryPane(t, store, pane)

	pane.openForm(nil)
	if !pane.IsEditing() {
		t.Fatal("expected edit mode after openForm")
	}
	pane.closeForm()
	if pane.IsEditing() {
		t.Error("expected edit mode cleared after close")
	}

	categories, _ := store.LoadCategories()
	if len(categories) != 3 {
		t.Errorf("cancel should not change categories, got %d", len(categories))
	}
}
