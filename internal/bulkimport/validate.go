package bulkimport

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"taskdeck/internal/storage"
)

// ParsedTask is one raw record from an imported file, keyed by the header
// columns title, description, category, dueDate, status, completedAt.
type ParsedTask struct {
	Title       string
	Description string
	Category    string
	DueDate     string
	Status      string
	CompletedAt string
}

// ValidatedTask is a ParsedTask that passed every field validator, carrying
// the normalized forms alongside the original fields.
type ValidatedTask struct {
	ParsedTask
	DueDateISO     string         // day-precision ISO date
	ParsedStatus   storage.Status // pending or completed
	CompletedAtISO string         // ISO instant, empty when absent
}

// Task converts a validated row into a storage Task. ID, CreatedAt and
// Order are left for storage to assign at merge time.
func (v ValidatedTask) Task() storage.Task {
	t := storage.Task{
		Title:       strings.TrimSpace(v.Title),
		Description: strings.TrimSpace(v.Description),
		Category:    strings.TrimSpace(v.Category),
		DueDate:     v.DueDateISO,
		Status:      v.ParsedStatus,
	}
	if v.CompletedAtISO != "" {
		if at, err := time.Parse(time.RFC3339, v.CompletedAtISO); err == nil {
			t.CompletedAt = &at
		}
	}
	return t
}

// ValidateTitle checks the title field: required after trimming, between 3
// and 100 characters.
func ValidateTitle(title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return fmt.Errorf("Title is required")
	}
	if utf8.RuneCountInString(trimmed) < 3 {
		return fmt.Errorf("Title must be at least 3 characters")
	}
	if utf8.RuneCountInString(trimmed) > 100 {
		return fmt.Errorf("Title must not exceed 100 characters")
	}
	return nil
}

// ValidateDescription checks the optional description field.
func ValidateDescription(description string) error {
	if description == "" {
		return nil
	}
	if utf8.RuneCountInString(description) > 500 {
		return fmt.Errorf("Description must not exceed 500 characters")
	}
	return nil
}

// ValidateCategory checks that the trimmed category is a member of the
// current category-title set. The membership test is exact and
// case-sensitive: the soft reference stores the title as-is.
func ValidateCategory(category string, titles map[string]struct{}) error {
	trimmed := strings.TrimSpace(category)
	if trimmed == "" {
		return fmt.Errorf("Category is required")
	}
	if _, ok := titles[trimmed]; !ok {
		return fmt.Errorf("Category %q does not exist", trimmed)
	}
	return nil
}

// ValidateDueDate parses the raw due date and rejects dates before today.
// now supplies "today" so callers can inject a clock.
func ValidateDueDate(raw string, now time.Time) (time.Time, error) {
	parsed, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, err
	}
	if startOfDay(parsed).Before(startOfDay(now)) {
		return time.Time{}, fmt.Errorf("Due date must be today or later")
	}
	return parsed, nil
}

// ParseStatus normalizes the raw status field. Any case-insensitive
// spelling of "completed" maps to completed; everything else, including
// empty or garbage input, maps to pending. It never fails.
func ParseStatus(raw string) storage.Status {
	if strings.EqualFold(strings.TrimSpace(raw), string(storage.StatusCompleted)) {
		return storage.StatusCompleted
	}
	return storage.StatusPending
}

// ValidateCompletedAt normalizes the completedAt field to an ISO instant.
// It is only consulted when the status resolved to completed and a value
// is present; otherwise it returns empty with no error.
func ValidateCompletedAt(raw string, status storage.Status) (string, error) {
	if status != storage.StatusCompleted || strings.TrimSpace(raw) == "" {
		return "", nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return "", fmt.Errorf("Invalid completedAt date format")
	}
	return parsed.UTC().Format(time.RFC3339), nil
}

// ValidateTasks runs every field validator over every row. Validators do
// not short-circuit: a row failing on several fields produces one combined
// error message listing all of them, and contributes nothing to valid.
// Rows are reported 1-based; order is preserved in both outputs.
func ValidateTasks(rows []ParsedTask, titles map[string]struct{}, now time.Time) (valid []ValidatedTask, errs []string) {
	for i, row := range rows {
		var rowErrs []string
		var dueDate time.Time

		if err := ValidateTitle(row.Title); err != nil {
			rowErrs = append(rowErrs, err.Error())
		}
		if err := ValidateDescription(row.Description); err != nil {
			rowErrs = append(rowErrs, err.Error())
		}
		if err := ValidateCategory(row.Category, titles); err != nil {
			rowErrs = append(rowErrs, err.Error())
		}
		if parsed, err := ValidateDueDate(row.DueDate, now); err != nil {
			rowErrs = append(rowErrs, err.Error())
		} else {
			dueDate = parsed
		}

		status := ParseStatus(row.Status)
		completedAt, err := ValidateCompletedAt(row.CompletedAt, status)
		if err != nil {
			rowErrs = append(rowErrs, err.Error())
		}

		if len(rowErrs) > 0 {
			errs = append(errs, fmt.Sprintf("Row %d: %s", i+1, strings.Join(rowErrs, ", ")))
			continue
		}

		valid = append(valid, ValidatedTask{
			ParsedTask:     row,
			DueDateISO:     startOfDay(dueDate).Format(storage.DueDateLayout),
			ParsedStatus:   status,
			CompletedAtISO: completedAt,
		})
	}
	return valid, errs
}
