// Package calendar builds a month grid of tasks keyed by due date, with
// category and status filters for the calendar view.
package calendar

import (
	"time"

	"taskdeck/internal/storage"
)

// FallbackColor is used for tasks whose category no longer exists.
const FallbackColor = "#6b7280"

// Filter narrows which tasks appear on the grid. Empty sets mean no
// filtering on that axis.
type Filter struct {
	Categories map[string]struct{}
	Statuses   map[storage.Status]struct{}
}

func (f Filter) matches(t storage.Task) bool {
	if len(f.Categories) > 0 {
		if _, ok := f.Categories[t.Category]; !ok {
			return false
		}
	}
	if len(f.Statuses) > 0 {
		if _, ok := f.Statuses[t.Status]; !ok {
			return false
		}
	}
	return true
}

// Day is one cell of the month grid.
type Day struct {
	Date    time.Time // midnight UTC
	InMonth bool      // false for leading/trailing cells of adjacent months
	Tasks   []storage.Task
}

// Month is a full grid of Sunday-started weeks covering one month.
type Month struct {
	Year  int
	Month time.Month
	Weeks [][7]Day
}

// FirstOfMonth normalizes an anchor date to midnight UTC on the first of
// its month.
func FirstOfMonth(anchor time.Time) time.Time {
	y, m, _ := anchor.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// PrevMonth returns the first day of the month before the anchor's month.
func PrevMonth(anchor time.Time) time.Time {
	return FirstOfMonth(anchor).AddDate(0, -1, 0)
}

// NextMonth returns the first day of the month after the anchor's month.
func NextMonth(anchor time.Time) time.Time {
	return FirstOfMonth(anchor).AddDate(0, 1, 0)
}

// Build lays out the anchor's month as Sunday-started weeks and places
// each filtered task on its due date. Tasks with unparsable due dates are
// skipped. Cell task order follows the input slice.
func Build(anchor time.Time, tasks []storage.Task, filter Filter) Month {
	first := FirstOfMonth(anchor)
	y, m, _ := first.Date()

	byDay := make(map[string][]storage.Task)
	for _, t := range tasks {
		if !filter.matches(t) {
			continue
		}
		if t.DueTime().IsZero() {
			continue
		}
		byDay[t.DueDate] = append(byDay[t.DueDate], t)
	}

	// Walk back to the Sunday on or before the 1st, then fill whole weeks
	// until the month is covered.
	cursor := first.AddDate(0, 0, -int(first.Weekday()))
	nextMonth := first.AddDate(0, 1, 0)

	var weeks [][7]Day
	for cursor.Before(nextMonth) {
		var week [7]Day
		for i := 0; i < 7; i++ {
			week[i] = Day{
				Date:    cursor,
				InMonth: cursor.Month() == m,
				Tasks:   byDay[cursor.Format(storage.DueDateLayout)],
			}
			cursor = cursor.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}

	return Month{Year: y, Month: m, Weeks: weeks}
}

// CategoryColor resolves the display color for a category title, falling
// back to FallbackColor when the category is missing.
func CategoryColor(categories []storage.Category, title string) string {
	for _, c := range categories {
		if c.Title == title {
			return c.Color
		}
	}
	return FallbackColor
}
