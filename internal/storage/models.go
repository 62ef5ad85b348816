package storage

import "time"

// Status represents a task's completion state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Task represents a single todo item. DueDate is a calendar date in
// YYYY-MM-DD form; Category is the title of a Category (a soft reference,
// not enforced at this layer).
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	DueDate     string     `json:"dueDate"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	Order       int        `json:"order,omitempty"`
}

// Category is a named, colored grouping label assignable to tasks.
// Titles are unique (case-insensitive); Color is a 6-digit hex string.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Color string `json:"color"`
}

// DefaultCategories seeds a fresh data directory.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Title: "Work", Color: "#3b82f6"},
		{ID: "2", Title: "Personal", Color: "#8b5cf6"},
		{ID: "3", Title: "Urgent", Color: "#ef4444"},
	}
}

// DueDateLayout is the storage form of Task.DueDate.
const DueDateLayout = "2006-01-02"

// DueTime returns the task's due date as a UTC midnight instant.
// The zero time is returned for a malformed due date.
func (t Task) DueTime() time.Time {
	d, err := time.Parse(DueDateLayout, t.DueDate)
	if err != nil {
		return time.Time{}
	}
	return d
}

// Done reports whether the task is completed.
func (t Task) Done() bool {
	return t.Status == StatusCompleted
}
