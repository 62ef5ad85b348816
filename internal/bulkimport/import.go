package bulkimport

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskdeck/internal/storage"
)

// Kind identifies the file format of an import source, resolved once at
// the boundary and matched exhaustively.
type Kind int

const (
	KindUnsupported Kind = iota
	KindCSV
	KindExcel
)

// DetectKind classifies an import file by its extension.
func DetectKind(filename string) Kind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return KindCSV
	case ".xlsx", ".xls":
		return KindExcel
	default:
		return KindUnsupported
	}
}

// Orchestrator-level errors.
var (
	ErrUnsupportedFileType = errors.New("Invalid file type. Please upload CSV or Excel file.")
	ErrNoTasks             = errors.New("No tasks found in the file.")
)

// maxReportedErrors caps how many row errors a ValidationError renders
// before collapsing the rest into a count.
const maxReportedErrors = 3

// ValidationError aggregates the per-row messages of a rejected import.
// Any validation error aborts the entire import: no rows are merged.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	shown := e.Errors
	remainder := ""
	if len(shown) > maxReportedErrors {
		remainder = fmt.Sprintf("\n...and %d more errors", len(shown)-maxReportedErrors)
		shown = shown[:maxReportedErrors]
	}
	return "Validation errors:\n" + strings.Join(shown, "\n") + remainder
}

// Result summarizes a successful import.
type Result struct {
	Imported int
}

// Importer runs the full import flow: parse, validate, merge, persist.
// OnImported, when set, is invoked synchronously after a successful merge
// so the owning view can refresh.
type Importer struct {
	store      *storage.Storage
	OnImported func(count int)
}

// NewImporter creates an Importer backed by the given storage.
func NewImporter(store *storage.Storage) *Importer {
	return &Importer{store: store}
}

// ImportFile imports tasks from the file at path, dispatching on the
// detected file kind.
func (imp *Importer) ImportFile(path string) (*Result, error) {
	kind := DetectKind(path)
	if kind == KindUnsupported {
		return nil, ErrUnsupportedFileType
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return imp.Import(file, kind)
}

// Import parses the reader as the given kind, validates every row against
// the live category set, and on full success merges the tasks into
// storage. Validation failures abort the whole import and are returned as
// a *ValidationError.
func (imp *Importer) Import(reader io.Reader, kind Kind) (*Result, error) {
	rows, err := parseByKind(reader, kind)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoTasks
	}

	titles, err := imp.store.CategoryTitles()
	if err != nil {
		return nil, err
	}

	valid, errs := ValidateTasks(rows, titles, imp.store.Now())
	if len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	tasks := make([]storage.Task, 0, len(valid))
	for _, v := range valid {
		tasks = append(tasks, v.Task())
	}

	added, err := imp.store.ImportTasks(tasks)
	if err != nil {
		return nil, err
	}

	if imp.OnImported != nil {
		imp.OnImported(len(added))
	}
	return &Result{Imported: len(added)}, nil
}

// Preview parses and validates without merging, for dry runs.
func (imp *Importer) Preview(reader io.Reader, kind Kind) ([]ValidatedTask, []string, error) {
	rows, err := parseByKind(reader, kind)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoTasks
	}

	titles, err := imp.store.CategoryTitles()
	if err != nil {
		return nil, nil, err
	}

	valid, errs := ValidateTasks(rows, titles, imp.store.Now())
	return valid, errs, nil
}

func parseByKind(reader io.Reader, kind Kind) ([]ParsedTask, error) {
	switch kind {
	case KindCSV:
		return ParseCSV(reader)
	case KindExcel:
		return ParseExcel(reader)
	default:
		return nil, ErrUnsupportedFileType
	}
}
