// Package query implements the task list view pipeline: status and
// category filtering, free-text search, due-date sorting, and pagination.
// It operates on in-memory slices and never touches storage.
package query

import (
	"sort"
	"strings"
	"time"

	"taskdeck/internal/storage"
)

// SortOrder selects the explicit due-date sort. SortNone falls back to the
// default ordering of the current status bucket.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAsc
	SortDesc
)

// DefaultPageSize is the number of tasks per page when nothing else is
// configured.
const DefaultPageSize = 10

// Query describes one rendering of the task list.
type Query struct {
	Completed  bool                // completed bucket instead of pending
	Categories map[string]struct{} // empty means all categories
	Search     string              // case-insensitive, title and description
	Sort       SortOrder
}

// IsFiltering reports whether any filter beyond the status bucket is
// active. Manual reordering is disabled while filtering, since the visible
// positions no longer match the stored order.
func (q Query) IsFiltering() bool {
	return q.Search != "" || len(q.Categories) > 0 || q.Sort != SortNone
}

// Apply filters and sorts tasks according to the query, returning a new
// slice. The default ordering is manual order for pending tasks (missing
// order sorts last) and most recently completed first for completed tasks.
func Apply(tasks []storage.Task, q Query) []storage.Task {
	search := strings.ToLower(q.Search)

	out := make([]storage.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Done() != q.Completed {
			continue
		}
		if len(q.Categories) > 0 {
			if _, ok := q.Categories[t.Category]; !ok {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Title), search) &&
			!strings.Contains(strings.ToLower(t.Description), search) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]

		if q.Sort != SortNone {
			da := sortDate(a, q.Completed)
			db := sortDate(b, q.Completed)
			if q.Sort == SortAsc {
				return da.Before(db)
			}
			return db.Before(da)
		}

		if q.Completed {
			return completedAt(a).After(completedAt(b))
		}
		return manualOrder(a) < manualOrder(b)
	})

	return out
}

// sortDate is the explicit-sort key: the due date for pending tasks, and
// the completion instant (falling back to the due date) for completed ones.
func sortDate(t storage.Task, completed bool) time.Time {
	if completed && t.CompletedAt != nil {
		return *t.CompletedAt
	}
	return t.DueTime()
}

func completedAt(t storage.Task) time.Time {
	if t.CompletedAt == nil {
		return time.Time{}
	}
	return *t.CompletedAt
}

// manualOrder sorts tasks without an assigned order after everything else.
func manualOrder(t storage.Task) int {
	if t.Order == 0 {
		return int(^uint(0) >> 1)
	}
	return t.Order
}

// Page is one page of a task list.
type Page struct {
	Items      []storage.Task
	Number     int // 1-based, clamped into range
	TotalPages int
	Total      int // tasks across all pages
}

// Paginate slices tasks into the requested page. The page number is
// clamped into the valid range; a non-positive perPage falls back to
// DefaultPageSize.
func Paginate(tasks []storage.Task, page, perPage int) Page {
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	total := len(tasks)
	totalPages := (total + perPage - 1) / perPage

	if page < 1 {
		page = 1
	}
	if totalPages > 0 && page > totalPages {
		page = totalPages
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      tasks[start:end],
		Number:     page,
		TotalPages: totalPages,
		Total:      total,
	}
}
