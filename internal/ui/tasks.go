// Package ui provides terminal user interface components for the taskdeck app.
package ui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/export"
	"taskdeck/internal/query"
	"taskdeck/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// taskFormField indexes the inputs of the add/edit form.
const (
	formTitle = iota
	formDescription
	formCategory
	formDueDate
	formFieldCount
)

// TaskPane handles the task list display and interactions: filtering,
// search, sorting, pagination, and the add/edit form.
type TaskPane struct {
	tasks      []storage.Task
	categories []storage.Category
	page       query.Page
	qry        query.Query
	pageNum    int
	pageSize   int
	filterIdx  int // -1 means all categories
	cursor     int
	focused    bool
	width      int
	height     int

	searching   bool
	searchInput textinput.Model

	editing    bool
	editID     string // empty while adding
	editTask   storage.Task
	formInputs [formFieldCount]textinput.Model
	formFocus  int

	storage *storage.Storage
	styles  *Styles

	// Key bindings
	keys      TaskKeyMap
	inputKeys InputKeyMap
}

// NewTaskPane creates a new task pane.
func NewTaskPane(store *storage.Storage, styles *Styles) *TaskPane {
	return NewTaskPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewTaskPaneWithKeys creates a new task pane with custom key bindings.
func NewTaskPaneWithKeys(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig) *TaskPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	si := textinput.New()
	si.Placeholder = "Search tasks"
	si.CharLimit = 100
	si.Width = 40

	p := &TaskPane{
		tasks:       []storage.Task{},
		pageNum:     1,
		pageSize:    query.DefaultPageSize,
		filterIdx:   -1,
		focused:     true,
		searchInput: si,
		storage:     store,
		styles:      styles,
		keys:        NewTaskKeyMap(keyCfg),
		inputKeys:   NewInputKeyMap(keyCfg),
	}

	labels := [formFieldCount]string{"Buy groceries", "Optional notes", "Work", "2026-01-31"}
	for i := range p.formInputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = 500
		ti.Width = 40
		p.formInputs[i] = ti
	}
	p.formInputs[formTitle].CharLimit = 100

	return p
}

// LoadTasksCmd returns a command that loads tasks asynchronously.
func (p *TaskPane) LoadTasksCmd() tea.Cmd {
	return loadTasksCmd(p.storage)
}

// SetPageSize overrides the number of tasks shown per page.
func (p *TaskPane) SetPageSize(n int) {
	if n > 0 {
		p.pageSize = n
		p.refresh()
	}
}

// SetCategories updates the category list used by the filter cycle and the
// category column of the task list.
func (p *TaskPane) SetCategories(categories []storage.Category) {
	p.categories = categories
	if p.filterIdx >= len(categories) {
		p.filterIdx = -1
		p.qry.Categories = nil
		p.refresh()
	}
}

// setTasks replaces the task list and re-derives the visible page.
func (p *TaskPane) setTasks(tasks []storage.Task) {
	p.tasks = tasks
	p.refresh()
}

// refresh re-runs the query pipeline and clamps the cursor to the page.
func (p *TaskPane) refresh() {
	filtered := query.Apply(p.tasks, p.qry)
	p.page = query.Paginate(filtered, p.pageNum, p.pageSize)
	p.pageNum = p.page.Number
	if p.cursor >= len(p.page.Items) {
		p.cursor = max(0, len(p.page.Items)-1)
	}
}

// SetSize sets the pane dimensions.
func (p *TaskPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.searchInput.Width = max(10, width-8)
	for i := range p.formInputs {
		p.formInputs[i].Width = max(10, width-20)
	}
}

// SetFocused sets whether this pane is focused.
func (p *TaskPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TaskPane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether the add/edit form is open.
func (p *TaskPane) IsEditing() bool {
	return p.editing
}

// IsSearching returns whether the search input is active.
func (p *TaskPane) IsSearching() bool {
	return p.searching
}

// InInputMode reports whether keystrokes should go to a text input.
func (p *TaskPane) InInputMode() bool {
	return p.editing || p.searching
}

// Current returns the task under the cursor, or nil when the page is empty.
func (p *TaskPane) Current() *storage.Task {
	if p.cursor < 0 || p.cursor >= len(p.page.Items) {
		return nil
	}
	t := p.page.Items[p.cursor]
	return &t
}

// Update handles messages for the task pane.
func (p *TaskPane) Update(msg tea.Msg) tea.Cmd {
	// Handle async messages first
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.tasks != nil {
			p.setTasks(msg.tasks)
		}
		return nil

	case categoriesLoadedMsg:
		if msg.categories != nil {
			p.SetCategories(msg.categories)
		}
		return nil

	case taskAddedMsg, taskUpdatedMsg, taskToggledMsg, taskDeletedMsg, taskMovedMsg:
		// Reload to refresh task state
		return p.LoadTasksCmd()
	}

	if p.searching {
		return p.updateSearch(msg)
	}
	if p.editing {
		return p.updateForm(msg)
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.page.Items) > 0 {
				p.cursor = min(p.cursor+1, len(p.page.Items)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.page.Items) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.page.Items) > 0 {
				p.cursor = len(p.page.Items) - 1
			}

		case key.Matches(msg, p.keys.NextPage):
			if p.pageNum < p.page.TotalPages {
				p.pageNum++
				p.cursor = 0
				p.refresh()
			}

		case key.Matches(msg, p.keys.PrevPage):
			if p.pageNum > 1 {
				p.pageNum--
				p.cursor = 0
				p.refresh()
			}

		case key.Matches(msg, p.keys.Add):
			p.openForm(nil)
			return textinput.Blink

		case key.Matches(msg, p.keys.Edit):
			if t := p.Current(); t != nil {
				p.openForm(t)
				return textinput.Blink
			}

		case key.Matches(msg, p.keys.Toggle):
			if t := p.Current(); t != nil {
				return toggleTaskCmd(p.storage, t.ID)
			}

		case key.Matches(msg, p.keys.Delete):
			return p.DeleteCurrentCmd()

		case key.Matches(msg, p.keys.MoveUp):
			return p.moveCurrent(-1)

		case key.Matches(msg, p.keys.MoveDown):
			return p.moveCurrent(+1)

		case key.Matches(msg, p.keys.Search):
			p.searching = true
			p.searchInput.SetValue(p.qry.Search)
			p.searchInput.Focus()
			return textinput.Blink

		case key.Matches(msg, p.keys.CycleSort):
			p.qry.Sort = (p.qry.Sort + 1) % 3
			p.pageNum = 1
			p.cursor = 0
			p.refresh()

		case key.Matches(msg, p.keys.Filter):
			p.cycleCategoryFilter()

		case key.Matches(msg, p.keys.Completed):
			p.qry.Completed = !p.qry.Completed
			p.pageNum = 1
			p.cursor = 0
			p.refresh()

		case key.Matches(msg, p.keys.Export):
			return exportFileCmd(p.storage, export.CSVFilename(p.storage.Now()))
		}
	}

	return nil
}

// DeleteCurrentCmd returns a command deleting the task under the cursor, or
// nil when nothing is selected. The app wraps this in a confirmation dialog
// when confirm_deletions is enabled.
func (p *TaskPane) DeleteCurrentCmd() tea.Cmd {
	t := p.Current()
	if t == nil {
		return nil
	}
	return deleteTaskCmd(p.storage, t.ID)
}

// moveCurrent swaps the task under the cursor with its page neighbor.
// Manual reordering only applies to the plain pending list; it is disabled
// while any search, category filter, or explicit sort is active.
func (p *TaskPane) moveCurrent(delta int) tea.Cmd {
	if p.qry.IsFiltering() || p.qry.Completed {
		return nil
	}
	target := p.cursor + delta
	if p.cursor < 0 || p.cursor >= len(p.page.Items) || target < 0 || target >= len(p.page.Items) {
		return nil
	}
	dragged := p.page.Items[p.cursor]
	other := p.page.Items[target]
	p.cursor = target
	return moveTaskCmd(p.storage, dragged.ID, other.ID)
}

// cycleCategoryFilter steps all -> cat1 -> cat2 -> ... -> all.
func (p *TaskPane) cycleCategoryFilter() {
	p.filterIdx++
	if p.filterIdx >= len(p.categories) {
		p.filterIdx = -1
	}
	if p.filterIdx == -1 {
		p.qry.Categories = nil
	} else {
		p.qry.Categories = map[string]struct{}{p.categories[p.filterIdx].Title: {}}
	}
	p.pageNum = 1
	p.cursor = 0
	p.refresh()
}

// updateSearch routes keystrokes to the search input. The filter applies
// live on every edit.
func (p *TaskPane) updateSearch(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			p.searching = false
			p.searchInput.Blur()
			return nil

		case key.Matches(msg, p.inputKeys.Cancel):
			p.searching = false
			p.searchInput.Reset()
			p.searchInput.Blur()
			p.qry.Search = ""
			p.pageNum = 1
			p.cursor = 0
			p.refresh()
			return nil
		}
	}

	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(msg)
	if p.qry.Search != p.searchInput.Value() {
		p.qry.Search = p.searchInput.Value()
		p.pageNum = 1
		p.cursor = 0
		p.refresh()
	}
	return cmd
}

// openForm prepares the add/edit form. A nil task opens a blank add form.
func (p *TaskPane) openForm(t *storage.Task) {
	p.editing = true
	p.formFocus = formTitle

	if t == nil {
		p.editID = ""
		p.editTask = storage.Task{}
		for i := range p.formInputs {
			p.formInputs[i].Reset()
		}
		if len(p.categories) > 0 {
			p.formInputs[formCategory].SetValue(p.categories[0].Title)
		}
		p.formInputs[formDueDate].SetValue(p.storage.Now().Format(storage.DueDateLayout))
	} else {
		p.editID = t.ID
		p.editTask = *t
		p.formInputs[formTitle].SetValue(t.Title)
		p.formInputs[formDescription].SetValue(t.Description)
		p.formInputs[formCategory].SetValue(t.Category)
		p.formInputs[formDueDate].SetValue(t.DueDate)
	}

	for i := range p.formInputs {
		p.formInputs[i].Blur()
	}
	p.formInputs[formTitle].Focus()
}

// updateForm routes keystrokes to the form. Enter advances to the next
// field and submits from the last one; esc cancels.
func (p *TaskPane) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			if p.formFocus < formFieldCount-1 {
				p.formInputs[p.formFocus].Blur()
				p.formFocus++
				p.formInputs[p.formFocus].Focus()
				return textinput.Blink
			}
			return p.submitForm()

		case key.Matches(msg, p.inputKeys.Cancel):
			p.closeForm()
			return nil
		}
	}

	var cmd tea.Cmd
	p.formInputs[p.formFocus], cmd = p.formInputs[p.formFocus].Update(msg)
	return cmd
}

func (p *TaskPane) closeForm() {
	p.editing = false
	p.editID = ""
	for i := range p.formInputs {
		p.formInputs[i].Reset()
		p.formInputs[i].Blur()
	}
}

func (p *TaskPane) submitForm() tea.Cmd {
	title := strings.TrimSpace(p.formInputs[formTitle].Value())
	description := strings.TrimSpace(p.formInputs[formDescription].Value())
	category := strings.TrimSpace(p.formInputs[formCategory].Value())
	dueDate := strings.TrimSpace(p.formInputs[formDueDate].Value())

	editID := p.editID
	edited := p.editTask
	p.closeForm()

	if title == "" {
		return nil
	}

	if editID == "" {
		return addTaskCmd(p.storage, title, description, category, dueDate)
	}

	edited.Title = title
	edited.Description = description
	edited.Category = category
	edited.DueDate = dueDate
	return updateTaskCmd(p.storage, editID, edited)
}

// handleMouse processes mouse events for the task pane.
func (p *TaskPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.page.Items) == 0 {
		return nil
	}

	// Content starts after title (1) + separator (1) + filter line (1)
	const headerRows = 3

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
		return nil

	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.page.Items)-1)
		return nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return nil
		}

		taskRow := msg.Y - headerRows
		if taskRow < 0 || taskRow >= len(p.page.Items) {
			return nil
		}
		p.cursor = taskRow

		// Checkbox area is the first few columns
		if msg.X < 5 {
			task := p.page.Items[taskRow]
			return toggleTaskCmd(p.storage, task.ID)
		}
	}

	return nil
}

// View renders the task pane.
func (p *TaskPane) View() string {
	var b strings.Builder

	title := "☰ TASKS"
	if p.qry.Completed {
		title = "☰ TASKS · completed"
	}
	b.WriteString(p.styles.PaneTitleStyle.Render(title))
	b.WriteString("\n")

	// Separator
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	b.WriteString(p.renderFilterLine())
	b.WriteString("\n")

	if p.editing {
		b.WriteString(p.renderForm())
	} else if len(p.page.Items) == 0 {
		empty := "  No tasks yet. Press 'a' to add one."
		if p.qry.IsFiltering() || p.qry.Completed {
			empty = "  Nothing matches the current filters."
		}
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render(empty))
		b.WriteString("\n")
	} else {
		for i, task := range p.page.Items {
			b.WriteString(p.renderTaskLine(task, i == p.cursor))
			b.WriteString("\n")
		}

		// Stats and page indicator
		b.WriteString("\n")
		stats := fmt.Sprintf("%d tasks", p.page.Total)
		if p.page.TotalPages > 1 {
			stats += fmt.Sprintf(" · page %d/%d", p.page.Number, p.page.TotalPages)
		}
		b.WriteString("  " + p.styles.StatLabelStyle.Render(stats))
		b.WriteString("\n")
	}

	// Search input
	if p.searching {
		b.WriteString("\n")
		prompt := p.styles.InputPromptStyle.Render("/ ")
		b.WriteString(prompt + p.searchInput.View())
		b.WriteString("\n")
	}

	// Apply pane style
	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}

	return style.Width(p.width).Height(p.height).Render(content)
}

// renderFilterLine shows the active search, category filter, and sort.
func (p *TaskPane) renderFilterLine() string {
	var parts []string
	if p.qry.Search != "" {
		parts = append(parts, fmt.Sprintf("search %q", p.qry.Search))
	}
	if p.filterIdx >= 0 && p.filterIdx < len(p.categories) {
		parts = append(parts, "category "+p.categories[p.filterIdx].Title)
	}
	switch p.qry.Sort {
	case query.SortAsc:
		parts = append(parts, "due ↑")
	case query.SortDesc:
		parts = append(parts, "due ↓")
	}
	if len(parts) == 0 {
		return "  " + p.styles.StatLabelStyle.Render("no filters")
	}
	return "  " + p.styles.FilterActiveStyle.Render(strings.Join(parts, " · "))
}

// renderTaskLine renders one row of the visible page.
func (p *TaskPane) renderTaskLine(task storage.Task, selected bool) string {
	var checkbox string
	if task.Done() {
		checkbox = p.styles.TaskCheckboxDone
	} else {
		checkbox = p.styles.TaskCheckboxPending
	}

	swatch := p.styles.CategorySwatch(p.categoryColor(task.Category))
	dueIndicator := p.formatDueDate(task)
	dueWidth := lipgloss.Width(dueIndicator)

	// Layout: [space][checkbox][space][swatch][space][text][pad][due]
	fixedWidth := 7
	if dueWidth > 0 {
		fixedWidth += dueWidth + 1
	}
	availableTextWidth := p.width - 4 - fixedWidth
	if availableTextWidth < 5 {
		availableTextWidth = 5
	}

	taskText := runewidth.Truncate(task.Title, availableTextWidth, "..")
	taskTextWidth := runewidth.StringWidth(taskText)

	if selected && p.focused && !p.editing {
		textPart := fmt.Sprintf("%s %s %s", checkbox, swatch, taskText)
		if dueWidth > 0 {
			padding := availableTextWidth - taskTextWidth
			if padding < 1 {
				padding = 1
			}
			textPart += strings.Repeat(" ", padding) + dueIndicator
		}
		return p.styles.TaskSelectedStyle.Render(" " + textPart + " ")
	}

	var styledText string
	if task.Done() {
		styledText = p.styles.TaskDoneStyle.Render(taskText)
	} else {
		styledText = p.styles.TaskPendingStyle.Render(taskText)
	}

	textPart := fmt.Sprintf(" %s %s %s", checkbox, swatch, styledText)
	if dueWidth > 0 {
		padding := availableTextWidth - taskTextWidth
		if padding < 1 {
			padding = 1
		}
		textPart += strings.Repeat(" ", padding) + dueIndicator
	}
	return textPart
}

// renderForm renders the add/edit form fields.
func (p *TaskPane) renderForm() string {
	labels := [formFieldCount]string{"Title", "Description", "Category", "Due date"}

	var b strings.Builder
	header := "Add task"
	if p.editID != "" {
		header = "Edit task"
	}
	b.WriteString("  " + p.styles.InputPromptStyle.Render(header))
	b.WriteString("\n\n")
	for i := range p.formInputs {
		marker := "  "
		if i == p.formFocus {
			marker = p.styles.InputPromptStyle.Render("> ")
		}
		b.WriteString("  " + marker + p.styles.InputLabelStyle.Render(labels[i]) + p.formInputs[i].View())
		b.WriteString("\n")
	}
	return b.String()
}

// categoryColor resolves the swatch color for a task's category.
func (p *TaskPane) categoryColor(title string) string {
	for _, c := range p.categories {
		if c.Title == title {
			return c.Color
		}
	}
	return "#6b7280"
}

// Stats returns task statistics across the full list, ignoring filters.
func (p *TaskPane) Stats() (done, total int) {
	for _, task := range p.tasks {
		if task.Done() {
			done++
		}
	}
	return done, len(p.tasks)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// formatDueDate returns a compact, styled due date indicator relative to
// the storage clock: "!" (overdue), "T" (today), "+1" (tomorrow),
// "3d" (days), "2w" (weeks), ">1m" (over a month). Completed tasks and
// malformed dates render nothing.
func (p *TaskPane) formatDueDate(task storage.Task) string {
	if task.Done() {
		return ""
	}
	due := task.DueTime()
	if due.IsZero() {
		return ""
	}

	now := p.storage.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	days := int(due.Sub(today).Hours() / 24)

	switch {
	case days < 0:
		return p.styles.DueDateOverdueStyle.Render("!")
	case days == 0:
		return p.styles.DueDateTodayStyle.Render("T")
	case days == 1:
		return p.styles.DueDateFutureStyle.Render("+1")
	case days <= 7:
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dd", days))
	case days <= 30:
		weeks := days / 7
		return p.styles.DueDateFutureStyle.Render(fmt.Sprintf("%dw", weeks))
	default:
		return p.styles.DueDateFutureStyle.Render(">1m")
	}
}
