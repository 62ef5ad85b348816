// Package ui provides terminal user interface components for the taskdeck app.
package ui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/calendar"
	"taskdeck/internal/config"
	"taskdeck/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// statusFilter cycles all -> pending -> completed.
type statusFilter int

const (
	statusAll statusFilter = iota
	statusPendingOnly
	statusCompletedOnly
)

// CalendarPane renders a month grid of tasks keyed by due date.
type CalendarPane struct {
	anchor     time.Time
	tasks      []storage.Task
	categories []storage.Category
	month      calendar.Month
	filterIdx  int // -1 means all categories
	status     statusFilter
	focused    bool
	width      int
	height     int

	storage *storage.Storage
	styles  *Styles

	// Key bindings
	keys CalendarKeyMap
}

// NewCalendarPane creates a new calendar pane anchored on the current month.
func NewCalendarPane(store *storage.Storage, styles *Styles) *CalendarPane {
	return NewCalendarPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewCalendarPaneWithKeys creates a new calendar pane with custom key bindings.
func NewCalendarPaneWithKeys(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig) *CalendarPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	p := &CalendarPane{
		anchor:    calendar.FirstOfMonth(store.Now()),
		filterIdx: -1,
		storage:   store,
		styles:    styles,
		keys:      NewCalendarKeyMap(keyCfg),
	}
	p.rebuild()
	return p
}

// SetSize sets the pane dimensions.
func (p *CalendarPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *CalendarPane) SetFocused(focused bool) {
	p.focused = focused
}

// rebuild recomputes the month grid from the current anchor and filters.
func (p *CalendarPane) rebuild() {
	var filter calendar.Filter
	if p.filterIdx >= 0 && p.filterIdx < len(p.categories) {
		filter.Categories = map[string]struct{}{p.categories[p.filterIdx].Title: {}}
	}
	switch p.status {
	case statusPendingOnly:
		filter.Statuses = map[storage.Status]struct{}{storage.StatusPending: {}}
	case statusCompletedOnly:
		filter.Statuses = map[storage.Status]struct{}{storage.StatusCompleted: {}}
	}
	p.month = calendar.Build(p.anchor, p.tasks, filter)
}

// Update handles messages for the calendar pane.
func (p *CalendarPane) Update(msg tea.Msg) tea.Cmd {
	// Handle async messages first
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.tasks != nil {
			p.tasks = msg.tasks
			p.rebuild()
		}
		return nil

	case categoriesLoadedMsg:
		if msg.categories != nil {
			p.categories = msg.categories
			if p.filterIdx >= len(p.categories) {
				p.filterIdx = -1
			}
			p.rebuild()
		}
		return nil
	}

	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.PrevMonth):
			p.anchor = calendar.PrevMonth(p.anchor)
			p.rebuild()

		case key.Matches(msg, p.keys.NextMonth):
			p.anchor = calendar.NextMonth(p.anchor)
			p.rebuild()

		case key.Matches(msg, p.keys.Today):
			p.anchor = calendar.FirstOfMonth(p.storage.Now())
			p.rebuild()

		case key.Matches(msg, p.keys.Filter):
			p.filterIdx++
			if p.filterIdx >= len(p.categories) {
				p.filterIdx = -1
			}
			p.rebuild()

		case key.Matches(msg, p.keys.Status):
			p.status = (p.status + 1) % 3
			p.rebuild()
		}
	}

	return nil
}

// View renders the calendar pane.
func (p *CalendarPane) View() string {
	var b strings.Builder

	header := fmt.Sprintf("‹ %s %d ›", p.month.Month, p.month.Year)
	b.WriteString(p.styles.PaneTitleStyle.Render("▦ CALENDAR  " + header))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	b.WriteString(p.renderFilterLine())
	b.WriteString("\n")

	cellWidth := (p.width - 6) / 7
	if cellWidth < 4 {
		cellWidth = 4
	}
	if cellWidth > 8 {
		cellWidth = 8
	}

	// Weekday header, Sunday first
	names := []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	b.WriteString("  ")
	for _, n := range names {
		b.WriteString(p.styles.CalendarHeaderStyle.Render(padCell(n, cellWidth)))
	}
	b.WriteString("\n")

	today := p.storage.Now().Format(storage.DueDateLayout)
	for _, week := range p.month.Weeks {
		b.WriteString("  ")
		for _, day := range week {
			b.WriteString(p.renderDayCell(day, cellWidth, today))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(p.renderMonthSummary())
	b.WriteString("\n")

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}

	return style.Width(p.width).Height(p.height).Render(content)
}

// renderDayCell renders one grid cell: the day number plus a task count.
func (p *CalendarPane) renderDayCell(day calendar.Day, cellWidth int, today string) string {
	label := fmt.Sprintf("%2d", day.Date.Day())
	if n := len(day.Tasks); n > 0 {
		label += p.styles.CalendarCountStyle.Render(fmt.Sprintf("·%d", n))
	}

	var styled string
	switch {
	case day.Date.Format(storage.DueDateLayout) == today:
		styled = p.styles.CalendarTodayStyle.Render(label)
	case !day.InMonth:
		styled = p.styles.CalendarOutsideStyle.Render(label)
	default:
		styled = p.styles.CalendarDayStyle.Render(label)
	}

	pad := cellWidth - lipgloss.Width(styled)
	if pad < 1 {
		pad = 1
	}
	return styled + strings.Repeat(" ", pad)
}

func (p *CalendarPane) renderFilterLine() string {
	var parts []string
	if p.filterIdx >= 0 && p.filterIdx < len(p.categories) {
		c := p.categories[p.filterIdx]
		parts = append(parts, p.styles.CategorySwatch(c.Color)+" "+c.Title)
	}
	switch p.status {
	case statusPendingOnly:
		parts = append(parts, "pending only")
	case statusCompletedOnly:
		parts = append(parts, "completed only")
	}
	if len(parts) == 0 {
		return "  " + p.styles.StatLabelStyle.Render("all tasks")
	}
	return "  " + p.styles.FilterActiveStyle.Render(strings.Join(parts, " · "))
}

// renderMonthSummary lists the busiest days of the visible month.
func (p *CalendarPane) renderMonthSummary() string {
	total := 0
	for _, week := range p.month.Weeks {
		for _, day := range week {
			if day.InMonth {
				total += len(day.Tasks)
			}
		}
	}
	if total == 0 {
		return "  " + p.styles.StatLabelStyle.Render("No tasks due this month")
	}

	var b strings.Builder
	b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d tasks due this month", total)))

	// Show up to three upcoming in-month days with their tasks
	shown := 0
	for _, week := range p.month.Weeks {
		for _, day := range week {
			if !day.InMonth || len(day.Tasks) == 0 || shown >= 3 {
				continue
			}
			b.WriteString("\n  ")
			b.WriteString(p.styles.DateStyle.Render(day.Date.Format("Jan 2")))
			b.WriteString(" ")
			titles := make([]string, 0, len(day.Tasks))
			for _, t := range day.Tasks {
				swatch := p.styles.CategorySwatch(calendar.CategoryColor(p.categories, t.Category))
				titles = append(titles, swatch+" "+runewidth.Truncate(t.Title, 20, ".."))
			}
			b.WriteString(strings.Join(titles, "  "))
			shown++
		}
	}
	return b.String()
}

func padCell(s string, width int) string {
	pad := width - runewidth.StringWidth(s)
	if pad < 1 {
		pad = 1
	}
	return s + strings.Repeat(" ", pad)
}
