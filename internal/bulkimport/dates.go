// Package bulkimport implements the bulk import pipeline: parsing CSV and
// Excel files into raw task records, validating and normalizing every row,
// and merging the accepted rows into storage.
package bulkimport

import (
	"errors"
	"strings"
	"time"
)

// Sentinel errors for date parsing. The messages double as the user-facing
// validation text, so they are full sentences.
var (
	ErrDueDateRequired   = errors.New("Due date is required")
	ErrInvalidDateFormat = errors.New("Invalid date format")
)

// dateLayouts are tried in exactly this order. Several layouts are
// ambiguous with each other (02-01-2006 vs 01-02-2006 both match
// "03-04-2026"); the first match wins. This mirrors legacy behavior and
// the order must not be rearranged.
var dateLayouts = []string{
	"02-01-2006",
	"01-02-2006",
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006 15:04",
	"01-02-2006 15:04",
	"2006-01-02 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006/01/02 15:04",
	"02-01-2006 15:04:05",
	"01-02-2006 15:04:05",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04:05",
	"01/02/2006 15:04:05",
	"2006/01/02 15:04:05",
}

// nativeLayouts are the locale-free fallback tried after the explicit
// layouts, covering ISO instants such as exported completedAt values.
var nativeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDate parses a raw date string from an imported file. An empty or
// whitespace-only input yields ErrDueDateRequired; an unparseable one
// yields ErrInvalidDateFormat. All values are interpreted in UTC.
func ParseDate(raw string) (time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return time.Time{}, ErrDueDateRequired
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	for _, layout := range nativeLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDateFormat
}

// startOfDay truncates an instant to UTC midnight.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
