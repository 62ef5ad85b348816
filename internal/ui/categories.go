// Package ui provides terminal user interface components for the taskdeck app.
package ui

import (
	"fmt"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	catFormTitle = iota
	catFormColor
	catFormFieldCount
)

// CategoryPane manages the category list: add, rename, recolor, delete.
type CategoryPane struct {
	categories []storage.Category
	taskCounts map[string]int
	cursor     int
	focused    bool
	width      int
	height     int

	editing    bool
	editID     string // empty while adding
	formInputs [catFormFieldCount]textinput.Model
	formFocus  int

	storage *storage.Storage
	styles  *Styles

	// Key bindings
	keys      CategoryKeyMap
	inputKeys InputKeyMap
}

// NewCategoryPane creates a new category pane.
func NewCategoryPane(store *storage.Storage, styles *Styles) *CategoryPane {
	return NewCategoryPaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewCategoryPaneWithKeys creates a new category pane with custom key bindings.
func NewCategoryPaneWithKeys(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig) *CategoryPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}

	p := &CategoryPane{
		categories: []storage.Category{},
		taskCounts: map[string]int{},
		storage:    store,
		styles:     styles,
		keys:       NewCategoryKeyMap(keyCfg),
		inputKeys:  NewInputKeyMap(keyCfg),
	}

	placeholders := [catFormFieldCount]string{"Errands", "#f59e0b"}
	for i := range p.formInputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 50
		ti.Width = 30
		p.formInputs[i] = ti
	}
	p.formInputs[catFormColor].CharLimit = 7

	return p
}

// LoadCategoriesCmd returns a command that loads categories asynchronously.
func (p *CategoryPane) LoadCategoriesCmd() tea.Cmd {
	return loadCategoriesCmd(p.storage)
}

// Categories returns the current category list.
func (p *CategoryPane) Categories() []storage.Category {
	return p.categories
}

func (p *CategoryPane) setCategories(categories []storage.Category) {
	p.categories = categories
	if p.cursor >= len(p.categories) {
		p.cursor = max(0, len(p.categories)-1)
	}
}

// setTaskCounts recomputes per-category usage from the full task list.
func (p *CategoryPane) setTaskCounts(tasks []storage.Task) {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Category]++
	}
	p.taskCounts = counts
}

// SetSize sets the pane dimensions.
func (p *CategoryPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	for i := range p.formInputs {
		p.formInputs[i].Width = max(10, width-20)
	}
}

// SetFocused sets whether this pane is focused.
func (p *CategoryPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsEditing returns whether the add/edit form is open.
func (p *CategoryPane) IsEditing() bool {
	return p.editing
}

// InInputMode reports whether keystrokes should go to a text input.
func (p *CategoryPane) InInputMode() bool {
	return p.editing
}

// Current returns the category under the cursor, or nil when empty.
func (p *CategoryPane) Current() *storage.Category {
	if p.cursor < 0 || p.cursor >= len(p.categories) {
		return nil
	}
	c := p.categories[p.cursor]
	return &c
}

// DeleteCurrentCmd returns a command deleting the category under the
// cursor. The command itself refuses to delete a category still in use.
func (p *CategoryPane) DeleteCurrentCmd() tea.Cmd {
	c := p.Current()
	if c == nil {
		return nil
	}
	return deleteCategoryCmd(p.storage, c.ID, c.Title)
}

// Update handles messages for the category pane.
func (p *CategoryPane) Update(msg tea.Msg) tea.Cmd {
	// Handle async messages first
	switch msg := msg.(type) {
	case categoriesLoadedMsg:
		if msg.categories != nil {
			p.setCategories(msg.categories)
		}
		return nil

	case tasksLoadedMsg:
		if msg.tasks != nil {
			p.setTaskCounts(msg.tasks)
		}
		return nil

	case categoryAddedMsg, categoryUpdatedMsg, categoryDeletedMsg:
		// Renames repoint tasks, so reload both slots
		return tea.Batch(p.LoadCategoriesCmd(), loadTasksCmd(p.storage))
	}

	if p.editing {
		return p.updateForm(msg)
	}

	// Normal mode
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, p.keys.Down):
			if len(p.categories) > 0 {
				p.cursor = min(p.cursor+1, len(p.categories)-1)
			}

		case key.Matches(msg, p.keys.Up):
			if len(p.categories) > 0 {
				p.cursor = max(p.cursor-1, 0)
			}

		case key.Matches(msg, p.keys.Top):
			p.cursor = 0

		case key.Matches(msg, p.keys.Bottom):
			if len(p.categories) > 0 {
				p.cursor = len(p.categories) - 1
			}

		case key.Matches(msg, p.keys.Add):
			p.openForm(nil)
			return textinput.Blink

		case key.Matches(msg, p.keys.Edit):
			if c := p.Current(); c != nil {
				p.openForm(c)
				return textinput.Blink
			}

		case key.Matches(msg, p.keys.Delete):
			return p.DeleteCurrentCmd()
		}
	}

	return nil
}

// openForm prepares the add/edit form. A nil category opens a blank form.
func (p *CategoryPane) openForm(c *storage.Category) {
	p.editing = true
	p.formFocus = catFormTitle

	if c == nil {
		p.editID = ""
		for i := range p.formInputs {
			p.formInputs[i].Reset()
		}
	} else {
		p.editID = c.ID
		p.formInputs[catFormTitle].SetValue(c.Title)
		p.formInputs[catFormColor].SetValue(c.Color)
	}

	for i := range p.formInputs {
		p.formInputs[i].Blur()
	}
	p.formInputs[catFormTitle].Focus()
}

func (p *CategoryPane) updateForm(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.inputKeys.Confirm):
			if p.formFocus < catFormFieldCount-1 {
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

func (p *CategoryPane) closeForm() {
	p.editing = false
	p.editID = ""
	for i := range p.formInputs {
		p.formInputs[i].Reset()
		p.formInputs[i].Blur()
	}
}

func (p *CategoryPane) submitForm() tea.Cmd {
	title := strings.TrimSpace(p.formInputs[catFormTitle].Value())
	color := strings.TrimSpace(p.formInputs[catFormColor].Value())

	editID := p.editID
	p.closeForm()

	if title == "" {
		return nil
	}

	if editID == "" {
		return addCategoryCmd(p.storage, title, color)
	}
	return updateCategoryCmd(p.storage, editID, title, color)
}

// View renders the category pane.
func (p *CategoryPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("◆ CATEGORIES"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorMuted).Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n")

	if p.editing {
		b.WriteString(p.renderForm())
	} else if len(p.categories) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  No categories. Press 'a' to add one."))
		b.WriteString("\n")
	} else {
		for i, c := range p.categories {
			b.WriteString(p.renderCategoryLine(c, i == p.cursor))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%d categories", len(p.categories))))
		b.WriteString("\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}

	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *CategoryPane) renderCategoryLine(c storage.Category, selected bool) string {
	swatch := p.styles.CategorySwatch(c.Color)
	count := p.styles.CategoryCountStyle.Render(fmt.Sprintf("%d tasks", p.taskCounts[c.Title]))
	countWidth := lipgloss.Width(count)

	availableTextWidth := p.width - 4 - 3 - countWidth - 1
	if availableTextWidth < 5 {
		availableTextWidth = 5
	}

	title := runewidth.Truncate(c.Title, availableTextWidth, "..")
	titleWidth := runewidth.StringWidth(title)
	padding := availableTextWidth - titleWidth
	if padding < 1 {
		padding = 1
	}

	if selected && p.focused && !p.editing {
		line := fmt.Sprintf("%s %s%s%s", swatch, title, strings.Repeat(" ", padding), count)
		return p.styles.TaskSelectedStyle.Render(" " + line + " ")
	}

	return fmt.Sprintf(" %s %s%s%s", swatch, p.styles.CategoryTitleStyle.Render(title), strings.Repeat(" ", padding), count)
}

func (p *CategoryPane) renderForm() string {
	labels := [catFormFieldCount]string{"Name", "Color"}

	var b strings.Builder
	header := "Add category"
	if p.editID != "" {
		header = "Edit category"
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
