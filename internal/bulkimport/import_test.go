package bulkimport

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/storage"
)

func newTestStore(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	store.SetNowFunc(func() time.Time { return testNow })
	return store
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		filename string
		want     Kind
	}{
		{"tasks.csv", KindCSV},
		{"TASKS.CSV", KindCSV},
		{"tasks.xlsx", KindExcel},
		{"tasks.xls", KindExcel},
		{"/some/dir/tasks-2026-01-15.csv", KindCSV},
		{"tasks.txt", KindUnsupported},
		{"tasks", KindUnsupported},
		{"tasks.csv.pdf", KindUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.filename))
		})
	}
}

func TestValidationErrorRendering(t *testing.T) {
	t.Run("few errors listed in full", func(t *testing.T) {
		err := &ValidationError{Errors: []string{"Row 1: a", "Row 2: b"}}
		assert.Equal(t, "Validation errors:\nRow 1: a\nRow 2: b", err.Error())
	})
	t.Run("overflow collapsed to a count", func(t *testing.T) {
		err := &ValidationError{Errors: []string{
			"Row 1: a", "Row 2: b", "Row 3: c", "Row 4: d", "Row 5: e",
		}}
		got := err.Error()
		assert.Contains(t, got, "Row 3: c")
		assert.NotContains(t, got, "Row 4: d")
		assert.Contains(t, got, "...and 2 more errors")
	})
}

func TestImportFileUnsupportedType(t *testing.T) {
	imp := NewImporter(newTestStore(t))
	_, err := imp.ImportFile("tasks.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestImportEmptyFile(t *testing.T) {
	imp := NewImporter(newTestStore(t))

	_, err := imp.Import(strings.NewReader(""), KindCSV)
	assert.ErrorIs(t, err, ErrNoTasks)

	_, err = imp.Import(strings.NewReader("title,category,dueDate\n"), KindCSV)
	assert.ErrorIs(t, err, ErrNoTasks)
}

func TestImportAbortsOnAnyValidationError(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)

	// One good row, one bad row: nothing may be merged.
	input := "title,category,dueDate\n" +
		"Good task,Work,2026-02-01\n" +
		"Bad task,Nope,2026-02-01\n"

	_, err := imp.Import(strings.NewReader(input), KindCSV)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, `Row 2: Category "Nope" does not exist`, verr.Errors[0])

	tasks, err := store.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestImportMergesWithOrderContinuation(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddTask("Existing task", "", "Work", "2026-02-01", storage.StatusPending)
	require.NoError(t, err)

	var notified int
	imp := NewImporter(store)
	imp.OnImported = func(count int) { notified = count }

	input := "title,description,category,dueDate,status,completedAt\n" +
		"Buy milk,2 liters,Personal,2026-02-01,pending,\n" +
		"Ship release,,Work,2026-03-01,completed,2026-01-10 09:30:00\n"

	res, err := imp.Import(strings.NewReader(input), KindCSV)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 2, notified)

	tasks, err := store.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	milk := tasks[1]
	assert.Equal(t, "Buy milk", milk.Title)
	assert.NotEmpty(t, milk.ID)
	assert.Equal(t, 2, milk.Order)
	assert.True(t, milk.CreatedAt.Equal(testNow))

	release := tasks[2]
	assert.Equal(t, 3, release.Order)
	assert.Equal(t, storage.StatusCompleted, release.Status)
	require.NotNil(t, release.CompletedAt)
	assert.Equal(t, "2026-01-10T09:30:00Z", release.CompletedAt.UTC().Format(time.RFC3339))
}

func TestImportExcelWorkbook(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)

	data := buildWorkbook(t, [][]any{
		{"title", "category", "dueDate", "status"},
		{"Ship release", "Work", "2026-03-01", "pending"},
	})

	res, err := imp.Import(bytes.NewReader(data), KindExcel)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)

	tasks, err := store.LoadTasks()
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Ship release", tasks[0].Title)
}

func TestPreviewDoesNotMerge(t *testing.T) {
	store := newTestStore(t)
	imp := NewImporter(store)

	input := "title,category,dueDate\n" +
		"Good task,Work,2026-02-01\n" +
		"Bad task,Nope,2026-02-01\n"

	valid, errs, err := imp.Preview(strings.NewReader(input), KindCSV)
	require.NoError(t, err)
	assert.Len(t, valid, 1)
	assert.Len(t, errs, 1)

	tasks, err := store.LoadTasks()
	require.NoError(t, err)
	assert.Empty(t, tasks)
}
