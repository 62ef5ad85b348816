// Package export writes the task collection to CSV and Excel files in the
// same column layout the bulk import pipeline reads, so an exported file
// can be imported back without edits.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"taskdeck/internal/storage"
)

// SheetName is the single worksheet written to Excel exports.
const SheetName = "Tasks"

// ErrNoTasks is returned when there is nothing to export; no file is
// created in that case.
var ErrNoTasks = errors.New("No tasks to export.")

// csvHeader matches the import column names exactly.
var csvHeader = []string{"title", "description", "category", "dueDate", "status", "completedAt"}

// excelHeader uses human-readable column titles in the same order.
var excelHeader = []string{"Title", "Description", "Category", "Due Date", "Status", "Completed At"}

// CSVFilename returns the conventional export filename for the given day.
func CSVFilename(now time.Time) string {
	return fmt.Sprintf("tasks-%s.csv", now.UTC().Format("2006-01-02"))
}

// ExcelFilename returns the conventional export filename for the given day.
func ExcelFilename(now time.Time) string {
	return fmt.Sprintf("tasks-%s.xlsx", now.UTC().Format("2006-01-02"))
}

// WriteCSV writes tasks as CSV. The free-text fields (title, description,
// category) are always quoted with inner quotes doubled; the date and
// status columns are machine-generated and written bare.
func WriteCSV(w io.Writer, tasks []storage.Task) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	for _, task := range tasks {
		b.WriteByte('\n')
		b.WriteString(strings.Join([]string{
			quoteField(task.Title),
			quoteField(task.Description),
			quoteField(task.Category),
			task.DueDate,
			string(task.Status),
			completedAtString(task),
		}, ","))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteExcel writes tasks as a single-sheet workbook.
func WriteExcel(w io.Writer, tasks []storage.Task) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}

	header := make([]any, len(excelHeader))
	for i, h := range excelHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}

	for i, task := range tasks {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			task.Title,
			task.Description,
			task.Category,
			task.DueDate,
			string(task.Status),
			completedAtString(task),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// WriteFile exports tasks to path, choosing the format from the
// extension: .csv for CSV, .xlsx for Excel.
func WriteFile(path string, tasks []storage.Task) error {
	if len(tasks) == 0 {
		return ErrNoTasks
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	var werr error
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		werr = WriteExcel(file, tasks)
	} else {
		werr = WriteCSV(file, tasks)
	}

	cerr := file.Close()
	if werr != nil {
		os.Remove(path)
		return werr
	}
	return cerr
}

// quoteField wraps a free-text value in double quotes, doubling any quotes
// it contains.
func quoteField(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func completedAtString(task storage.Task) string {
	if task.CompletedAt == nil {
		return ""
	}
	return task.CompletedAt.UTC().Format(time.RFC3339)
}
