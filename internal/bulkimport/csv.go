package bulkimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Import file header columns. The header row drives the field mapping, so
// column order in the file does not matter.
const (
	colTitle       = "title"
	colDescription = "description"
	colCategory    = "category"
	colDueDate     = "dueDate"
	colStatus      = "status"
	colCompletedAt = "completedAt"
)

// ParseCSV reads an uploaded CSV file into raw task records keyed by the
// header row. Rows with missing trailing fields yield empty strings; all
// content problems are left to the validation pipeline.
func ParseCSV(reader io.Reader) ([]ParsedTask, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.LazyQuotes = true
	csvReader.TrimLeadingSpace = true
	csvReader.ReuseRecord = true

	header, err := csvReader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CSV parsing failed: %w", err)
	}

	colIndex := headerIndex(header)

	var tasks []ParsedTask
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV parsing failed: %w", err)
		}
		if len(record) == 0 {
			continue
		}
		tasks = append(tasks, recordToTask(record, colIndex))
	}

	return tasks, nil
}

// headerIndex maps column names to positions, stripping a UTF-8 BOM from
// the first cell (common in spreadsheet-produced exports).
func headerIndex(header []string) map[string]int {
	colIndex := make(map[string]int, len(header))
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff")
		}
		colIndex[strings.TrimSpace(col)] = i
	}
	return colIndex
}

func recordToTask(record []string, colIndex map[string]int) ParsedTask {
	return ParsedTask{
		Title:       fieldAt(record, colIndex, colTitle),
		Description: fieldAt(record, colIndex, colDescription),
		Category:    fieldAt(record, colIndex, colCategory),
		DueDate:     fieldAt(record, colIndex, colDueDate),
		Status:      fieldAt(record, colIndex, colStatus),
		CompletedAt: fieldAt(record, colIndex, colCompletedAt),
	}
}

func fieldAt(record []string, colIndex map[string]int, name string) string {
	idx, ok := colIndex[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return record[idx]
}
