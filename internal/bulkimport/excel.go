package bulkimport

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel serial day numbers count from 1899-12-30; 25569 days later is the
// Unix epoch.
const (
	excelEpochOffsetDays = 25569
	secondsPerDay        = 86400
)

// ParseExcel reads the first sheet of an uploaded workbook into raw task
// records keyed by the header row. Date fields stored as serial day
// numbers are converted to ISO form: day precision for dueDate, second
// precision for completedAt.
func ParseExcel(reader io.Reader) ([]ParsedTask, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("Excel parsing failed: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("Excel parsing failed: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("Excel parsing failed: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	colIndex := headerIndex(rows[0])

	var tasks []ParsedTask
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		task := recordToTask(row, colIndex)
		if serial, ok := asSerialNumber(task.DueDate); ok {
			task.DueDate = serialToTime(serial).Format("2006-01-02")
		}
		if serial, ok := asSerialNumber(task.CompletedAt); ok {
			task.CompletedAt = serialToTime(serial).Format("2006-01-02T15:04:05")
		}
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// asSerialNumber reports whether a cell value is a bare number, which for
// date columns means an Excel serial day count rather than a date string.
func asSerialNumber(value string) (float64, bool) {
	if value == "" {
		return 0, false
	}
	serial, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, false
	}
	return serial, true
}

// serialToTime converts an Excel serial day number to a UTC instant. The
// fractional day component carries the time of day, rounded to the second.
func serialToTime(serial float64) time.Time {
	secs := (serial - excelEpochOffsetDays) * secondsPerDay
	return time.Unix(int64(math.Round(secs)), 0).UTC()
}
