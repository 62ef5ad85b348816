// Package ui provides terminal user interface components for the taskdeck app.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"fmt"
	"strings"
	"time"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneTasks PaneID = iota
	PaneCategories
	PaneCalendar
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	PageSize              int
}

// App is the main application model that coordinates all panes.
type App struct {
	storage      *storage.Storage
	styles       *Styles
	config       *AppConfig
	taskPane     *TaskPane
	categoryPane *CategoryPane
	calendarPane *CalendarPane
	helpOverlay  *HelpOverlay
	confirmDel   *confirmDeleteState
	activePane   PaneID
	layoutMode   LayoutMode
	showHelp     bool
	showWelcome  bool
	width        int
	height       int
	status       string
	statusErr    bool
	statusUntil  time.Time
	quitting     bool

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	tasksPaneStart      int
	tasksPaneEnd        int
	categoriesPaneStart int
	categoriesPaneEnd   int
	calendarPaneStart   int
	calendarPaneEnd     int
	contentTop          int // Y coordinate where content starts
}

type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *storage.Storage, styles *Styles, cfg *AppConfig) *App {
	// Use default config if nil
	if cfg == nil {
		cfg = &AppConfig{
			Keys:                  &config.KeysConfig{},
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: 80,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	// Create panes with config-aware key bindings
	taskPane := NewTaskPaneWithKeys(store, styles, cfg.Keys)
	categoryPane := NewCategoryPaneWithKeys(store, styles, cfg.Keys)
	calendarPane := NewCalendarPaneWithKeys(store, styles, cfg.Keys)
	helpOverlay := NewHelpOverlay(styles)

	if cfg.PageSize > 0 {
		taskPane.SetPageSize(cfg.PageSize)
	}

	// Determine if we should show welcome screen
	showWelcome := cfg.ShowOnboarding && isFirstRun(store)

	app := &App{
		storage:      store,
		styles:       styles,
		config:       cfg,
		taskPane:     taskPane,
		categoryPane: categoryPane,
		calendarPane: calendarPane,
		helpOverlay:  helpOverlay,
		activePane:   PaneTasks,
		showHelp:     false,
		showWelcome:  showWelcome,
		keys:         NewGlobalKeyMap(cfg.Keys),
		helpKeys:     DefaultHelpKeyMap(),
	}

	// Set initial focus
	taskPane.SetFocused(true)
	categoryPane.SetFocused(false)
	calendarPane.SetFocused(false)

	return app
}

// isFirstRun checks if this appears to be the first time running the app.
// We detect this by checking if the task list is empty.
func isFirstRun(store *storage.Storage) bool {
	tasks, err := store.LoadTasks()
	if err != nil {
		return false
	}
	return len(tasks) == 0
}

// tickMsg is sent periodically for time updates.
type tickMsg time.Time

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init initializes the app and loads all data asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadTasksCmd(a.storage),
		loadCategoriesCmd(a.storage),
	)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Route async messages to all panes first (before key handling).
	// This ensures storage operation results are processed regardless
	// of which pane is active. Task and category lists feed every pane.
	switch msg := msg.(type) {
	case tasksLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Tasks: "+msg.err.Error(), true)
		}
		return a, a.broadcast(msg)

	case categoriesLoadedMsg:
		if msg.err != nil {
			a.SetStatus("Categories: "+msg.err.Error(), true)
		}
		return a, a.broadcast(msg)

	case taskAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add task: "+msg.err.Error(), true)
		} else if msg.task != nil {
			a.SetStatus("Added: "+truncateText(msg.task.Title, 40), false)
		}
		cmd := a.taskPane.Update(msg)
		return a, cmd

	case taskUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Edit task: "+msg.err.Error(), true)
		}
		cmd := a.taskPane.Update(msg)
		return a, cmd

	case taskToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle task: "+msg.err.Error(), true)
		}
		cmd := a.taskPane.Update(msg)
		return a, cmd

	case taskDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete task: "+msg.err.Error(), true)
		}
		cmd := a.taskPane.Update(msg)
		return a, cmd

	case taskMovedMsg:
		if msg.err != nil {
			a.SetStatus("Move task: "+msg.err.Error(), true)
		}
		cmd := a.taskPane.Update(msg)
		return a, cmd

	case categoryAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add category: "+msg.err.Error(), true)
		}
		cmd := a.categoryPane.Update(msg)
		return a, cmd

	case categoryUpdatedMsg:
		if msg.err != nil {
			a.SetStatus("Edit category: "+msg.err.Error(), true)
		}
		cmd := a.categoryPane.Update(msg)
		return a, cmd

	case categoryDeletedMsg:
		if msg.err != nil {
			a.SetStatus("Delete category: "+msg.err.Error(), true)
		}
		cmd := a.categoryPane.Update(msg)
		return a, cmd

	case exportDoneMsg:
		if msg.err != nil {
			a.SetStatus("Export: "+msg.err.Error(), true)
		} else {
			a.SetStatus(fmt.Sprintf("Exported %d tasks to %s", msg.count, msg.path), false)
		}
		return a, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.showWelcome {
			a.showWelcome = false
			return a, nil
		}

		if a.confirmDel != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirmDel.cmd
				a.confirmDel = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
				return a, nil
			}
			return a, nil
		}

		// Check if any pane is in input mode
		inInputMode := a.taskPane.InInputMode() || a.categoryPane.InInputMode()

		if !inInputMode {
			// Confirm deletions (tasks/categories) if enabled.
			if a.config.ConfirmDeletions {
				switch a.activePane {
				case PaneTasks:
					if key.Matches(msg, a.taskPane.keys.Delete) {
						task := a.taskPane.Current()
						if task == nil {
							a.SetStatus("No task selected", true)
							return a, nil
						}
						a.confirmDel = &confirmDeleteState{
							title: "Delete task?",
							body:  truncateText(task.Title, 60),
							cmd:   deleteTaskCmd(a.storage, task.ID),
						}
						return a, nil
					}
				case PaneCategories:
					if key.Matches(msg, a.categoryPane.keys.Delete) {
						category := a.categoryPane.Current()
						if category == nil {
							a.SetStatus("No category selected", true)
							return a, nil
						}
						a.confirmDel = &confirmDeleteState{
							title: "Delete category?",
							body:  truncateText(category.Title, 60),
							cmd:   deleteCategoryCmd(a.storage, category.ID, category.Title),
						}
						return a, nil
					}
				}
			}

			// Global keys only when not in input mode
			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextView):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.View1):
				a.setActivePane(PaneTasks)
				return a, nil

			case key.Matches(msg, a.keys.View2):
				a.setActivePane(PaneCategories)
				return a, nil

			case key.Matches(msg, a.keys.View3):
				a.setActivePane(PaneCalendar)
				return a, nil
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		if a.showWelcome {
			if msg.Action == tea.MouseActionPress {
				a.showWelcome = false
			}
			return a, nil
		}

		if a.confirmDel != nil {
			if msg.Action == tea.MouseActionPress {
				a.confirmDel = nil
				a.SetStatus("Canceled", false)
			}
			return a, nil
		}

		// Any click closes help
		if a.showHelp {
			if msg.Action == tea.MouseActionPress {
				a.showHelp = false
			}
			return a, nil
		}

		// Handle mouse events
		switch msg.Action {
		case tea.MouseActionPress:
			// In narrow mode, check for tab bar clicks
			if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
				tabWidth := a.width / 3
				if msg.X < tabWidth {
					a.setActivePane(PaneTasks)
				} else if msg.X < tabWidth*2 {
					a.setActivePane(PaneCategories)
				} else {
					a.setActivePane(PaneCalendar)
				}
				return a, nil
			}

			// Determine which pane was clicked (in wide mode)
			clickedPane := a.paneAtPosition(msg.X)
			if clickedPane >= 0 && clickedPane != a.activePane {
				a.setActivePane(clickedPane)
			}

			// Forward click to active pane with adjusted coordinates
			if msg.Y >= a.contentTop {
				localMsg := msg
				localMsg.Y = msg.Y - a.contentTop
				// Adjust X for non-tasks panes in wide mode
				if a.layoutMode == LayoutWide {
					switch a.activePane {
					case PaneCategories:
						localMsg.X = msg.X - a.categoriesPaneStart
					case PaneCalendar:
						localMsg.X = msg.X - a.calendarPaneStart
					}
				}

				switch a.activePane {
				case PaneTasks:
					cmd := a.taskPane.Update(localMsg)
					return a, cmd
				case PaneCategories:
					cmd := a.categoryPane.Update(localMsg)
					return a, cmd
				case PaneCalendar:
					cmd := a.calendarPane.Update(localMsg)
					return a, cmd
				}
			}
		}

		// Handle scroll wheel
		if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
			localMsg := msg
			localMsg.Y = msg.Y - a.contentTop

			switch a.activePane {
			case PaneTasks:
				cmd := a.taskPane.Update(localMsg)
				return a, cmd
			case PaneCategories:
				cmd := a.categoryPane.Update(localMsg)
				return a, cmd
			}
		}

		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		return a, tickCmd()
	}

	// Forward to active pane (only if help is not shown)
	if !a.showHelp {
		switch a.activePane {
		case PaneTasks:
			cmd := a.taskPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case PaneCategories:
			cmd := a.categoryPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		case PaneCalendar:
			cmd := a.calendarPane.Update(msg)
			if cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return a, tea.Batch(cmds...)
}

// broadcast forwards a shared data message to every pane.
func (a *App) broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	if cmd := a.taskPane.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.categoryPane.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := a.calendarPane.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// switchPane cycles through panes.
func (a *App) switchPane() {
	switch a.activePane {
	case PaneTasks:
		a.setActivePane(PaneCategories)
	case PaneCategories:
		a.setActivePane(PaneCalendar)
	case PaneCalendar:
		a.setActivePane(PaneTasks)
	}
}

// setActivePane sets the active pane and updates focus states.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.taskPane.SetFocused(pane == PaneTasks)
	a.categoryPane.SetFocused(pane == PaneCategories)
	a.calendarPane.SetFocused(pane == PaneCalendar)
}

// paneAtPosition returns which pane is at the given X coordinate.
// Returns -1 if no pane is at that position.
func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		// In narrow mode, return the active pane
		return a.activePane
	}

	if x >= a.tasksPaneStart && x < a.tasksPaneEnd {
		return PaneTasks
	}
	if x >= a.categoriesPaneStart && x < a.categoriesPaneEnd {
		return PaneCategories
	}
	if x >= a.calendarPaneStart && x < a.calendarPaneEnd {
		return PaneCalendar
	}
	return -1
}

// updateLayout recalculates pane sizes based on terminal dimensions.
func (a *App) updateLayout() {
	// Leave room for title bar (2) and help bar (1)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	// Content starts after title bar (1 line title + 1 line space)
	a.contentTop = 1

	// Update help overlay size
	a.helpOverlay.SetSize(a.width, a.height)

	totalWidth := a.width - 4

	// Determine layout mode based on configured threshold
	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80 // Default threshold
	}

	if a.width < threshold {
		// Narrow mode: single focused pane with tab bar
		a.layoutMode = LayoutNarrow

		// In narrow mode, leave room for tab bar (1 line)
		narrowHeight := contentHeight - 1
		if narrowHeight < 8 {
			narrowHeight = 8
		}

		// Give full width to all panes (only focused one will be shown)
		paneWidth := totalWidth
		if paneWidth < 20 {
			paneWidth = 20
		}

		a.taskPane.SetSize(paneWidth, narrowHeight)
		a.categoryPane.SetSize(paneWidth, narrowHeight)
		a.calendarPane.SetSize(paneWidth, narrowHeight)

		// In narrow mode, all panes occupy the same space
		a.tasksPaneStart = 0
		a.tasksPaneEnd = a.width
		a.categoriesPaneStart = 0
		a.categoriesPaneEnd = a.width
		a.calendarPaneStart = 0
		a.calendarPaneEnd = a.width
		// Content starts after tab bar in narrow mode
		a.contentTop = 2
	} else {
		// Wide mode: three panes side-by-side
		a.layoutMode = LayoutWide

		var tasksWidth, categoriesWidth, calendarWidth int
		if totalWidth < 120 {
			// Medium: tasks get the most room
			tasksWidth = (totalWidth * 40) / 100
			categoriesWidth = (totalWidth * 24) / 100
			calendarWidth = totalWidth - tasksWidth - categoriesWidth - 2
		} else {
			// Wide: comfortable three-column with max widths
			tasksWidth = min((totalWidth*40)/100, 60)
			categoriesWidth = min((totalWidth*22)/100, 36)
			calendarWidth = min(totalWidth-tasksWidth-categoriesWidth-2, 60)
		}

		a.taskPane.SetSize(tasksWidth, contentHeight)
		a.categoryPane.SetSize(categoriesWidth, contentHeight)
		a.calendarPane.SetSize(calendarWidth, contentHeight)

		// Calculate pane positions (with 1 space gaps between panes)
		a.tasksPaneStart = 0
		a.tasksPaneEnd = tasksWidth
		a.categoriesPaneStart = tasksWidth + 1
		a.categoriesPaneEnd = a.categoriesPaneStart + categoriesWidth
		a.calendarPaneStart = a.categoriesPaneEnd + 1
		a.calendarPaneEnd = a.calendarPaneStart + calendarWidth
	}
}

// View renders the entire app.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.showWelcome {
		return a.renderWelcome()
	}

	if a.confirmDel != nil {
		return a.renderConfirmDelete()
	}

	// Show help overlay if active
	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	// Title bar
	titleBar := a.renderTitleBar()
	b.WriteString(titleBar)
	b.WriteString("\n")

	// Main content - switch based on layout mode
	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	// Help bar
	helpBar := a.renderHelpBar()
	b.WriteString(helpBar)

	return b.String()
}

func (a *App) renderWelcome() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorPrimary).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	mutedStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Welcome to taskdeck"))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render("Tab switches views. ? opens help.\n"))
	b.WriteString(bodyStyle.Render("Add your first task with 'a'.\n"))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press any key to continue"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

func (a *App) renderConfirmDelete() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirmDel.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirmDel.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render("[y/enter] delete    [n/esc] cancel"))

	content := overlayStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
}

// renderWideContent renders all three panes side by side.
func (a *App) renderWideContent() string {
	tasksView := a.taskPane.View()
	categoriesView := a.categoryPane.View()
	calendarView := a.calendarPane.View()

	return lipgloss.JoinHorizontal(lipgloss.Top, tasksView, " ", categoriesView, " ", calendarView)
}

// renderNarrowContent renders the focused pane with a tab bar.
func (a *App) renderNarrowContent() string {
	var b strings.Builder

	// Tab bar at top
	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	// Only render the active pane
	switch a.activePane {
	case PaneTasks:
		b.WriteString(a.taskPane.View())
	case PaneCategories:
		b.WriteString(a.categoryPane.View())
	case PaneCalendar:
		b.WriteString(a.calendarPane.View())
	}

	return b.String()
}

// renderPaneTabs renders a tab bar showing available panes.
func (a *App) renderPaneTabs() string {
	// Tab labels
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneTasks, "Tasks"},
		{PaneCategories, "Categories"},
		{PaneCalendar, "Calendar"},
	}

	// Create tab styles
	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activePane {
			// Active tab: highlighted with brackets
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			// Inactive tab: muted
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	// Center the tabs
	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

// renderGoodbye shows a nice exit message with a task summary.
func (a *App) renderGoodbye() string {
	tasksDone, tasksTotal := a.taskPane.Stats()

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  See you later!\n")
	b.WriteString("\n")

	if tasksTotal > 0 {
		pct := (tasksDone * 100) / tasksTotal
		b.WriteString(fmt.Sprintf("  Tasks completed: %d/%d (%d%%)\n", tasksDone, tasksTotal, pct))
		b.WriteString("\n")
	}

	return b.String()
}

// renderTitleBar creates the top title bar with stats and the date.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" taskdeck ")

	// Stats summary
	tasksDone, tasksTotal := a.taskPane.Stats()

	var stats string
	if tasksTotal > 0 {
		stats = a.styles.StatLabelStyle.Render(fmt.Sprintf("Tasks: %d/%d", tasksDone, tasksTotal))
	}

	// Current date/time
	now := time.Now()
	dateStr := now.Format("Mon Jan 2 · 15:04")
	date := a.styles.DateStyle.Render(dateStr)

	// Calculate spacing
	titleWidth := lipgloss.Width(title)
	statsWidth := lipgloss.Width(stats)
	dateWidth := lipgloss.Width(date)

	usedWidth := titleWidth + statsWidth + dateWidth
	spacerWidth := a.width - usedWidth - 4
	if spacerWidth < 2 {
		spacerWidth = 2
	}

	// Build the title bar
	var parts []string
	parts = append(parts, title)

	if stats != "" {
		parts = append(parts, "  "+stats)
	}

	parts = append(parts, strings.Repeat(" ", spacerWidth))
	parts = append(parts, date)

	return strings.Join(parts, "")
}

// renderHelpBar creates the bottom help bar with context-sensitive hints.
func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	// Input mode help
	if a.taskPane.IsEditing() || a.categoryPane.IsEditing() {
		return a.styles.RenderHelp(
			"enter", "next/save",
			"esc", "cancel",
		)
	}

	if a.taskPane.IsSearching() {
		return a.styles.RenderHelp(
			"enter", "keep filter",
			"esc", "clear",
		)
	}

	// Normal mode help based on active pane
	switch a.activePane {
	case PaneTasks:
		return a.styles.RenderHelp(
			"a", "add",
			"d", "done",
			"/", "search",
			"f", "filter",
			"s", "sort",
			"tab", "view",
			"?", "help",
		)
	case PaneCategories:
		return a.styles.RenderHelp(
			"a", "add",
			"e", "edit",
			"x", "del",
			"j/k", "nav",
			"tab", "view",
			"?", "help",
		)
	case PaneCalendar:
		return a.styles.RenderHelp(
			"h/l", "month",
			"t", "today",
			"f", "filter",
			"tab", "view",
			"?", "help",
		)
	}

	return ""
}

// SetStatus sets a status message to display to the user.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens text to fit the given display width.
func truncateText(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}

// Run starts the Bubble Tea program with the given storage backend, styles, and config.
func Run(store *storage.Storage, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)
	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	_, err := p.Run()
	return err
}
