// Package ui provides terminal user interface components for the taskdeck app.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and future customization.
package ui

import (
	"strings"

	"taskdeck/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextView key.Binding
	View1    key.Binding
	View2    key.Binding
	View3    key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp("?", "help"),
		),
		NextView: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextView, "tab")...),
			key.WithHelp("tab", "next view"),
		),
		View1: key.NewBinding(
			key.WithKeys(parseKeys(cfg.View1, "1")...),
			key.WithHelp("1", "tasks"),
		),
		View2: key.NewBinding(
			key.WithKeys(parseKeys(cfg.View2, "2")...),
			key.WithHelp("2", "categories"),
		),
		View3: key.NewBinding(
			key.WithKeys(parseKeys(cfg.View3, "3")...),
			key.WithHelp("3", "calendar"),
		),
	}
}

// =============================================================================
// Navigation Keys (shared by list-based panes)
// =============================================================================

// NavigationKeyMap defines keys for list navigation.
type NavigationKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
}

// DefaultNavigationKeyMap returns the default navigation key bindings.
func DefaultNavigationKeyMap() NavigationKeyMap {
	return NewNavigationKeyMap(&config.KeysConfig{})
}

// NewNavigationKeyMap creates navigation key bindings from config.
func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Up, "k", "up")...),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Down, "j", "down")...),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Top, "g")...),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Bottom, "G")...),
			key.WithHelp("G", "bottom"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Confirm, "enter")...),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// =============================================================================
// Task Pane Keys
// =============================================================================

// TaskKeyMap defines keys for the task pane.
type TaskKeyMap struct {
	Add       key.Binding
	Edit      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Search    key.Binding
	CycleSort key.Binding
	Filter    key.Binding
	Completed key.Binding
	NextPage  key.Binding
	PrevPage  key.Binding
	Export    key.Binding
	NavigationKeyMap
}

// DefaultTaskKeyMap returns the default task pane key bindings.
func DefaultTaskKeyMap() TaskKeyMap {
	return NewTaskKeyMap(&config.KeysConfig{})
}

// NewTaskKeyMap creates task key bindings from config.
func NewTaskKeyMap(cfg *config.KeysConfig) TaskKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TaskKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTask, "a")...),
			key.WithHelp("a", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditTask, "e")...),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ToggleTask, "d", "enter", " ")...),
			key.WithHelp("d/space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteTask, "x")...),
			key.WithHelp("x", "delete"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys(parseKeys(cfg.MoveUp, "K", "shift+up")...),
			key.WithHelp("K", "move up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys(parseKeys(cfg.MoveDown, "J", "shift+down")...),
			key.WithHelp("J", "move down"),
		),
		Search: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Search, "/")...),
			key.WithHelp("/", "search"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys(parseKeys(cfg.CycleSort, "s")...),
			key.WithHelp("s", "sort"),
		),
		Filter: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Filter, "f")...),
			key.WithHelp("f", "filter category"),
		),
		Completed: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Completed, "c")...),
			key.WithHelp("c", "completed"),
		),
		NextPage: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextPage, "l", "right")...),
			key.WithHelp("l/→", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevPage, "h", "left")...),
			key.WithHelp("h/←", "prev page"),
		),
		Export: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Export, "E")...),
			key.WithHelp("E", "export CSV"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Search, k.Down}
}

// FullHelp returns the full help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Search, k.CycleSort, k.Filter, k.Completed},
		{k.MoveUp, k.MoveDown, k.NextPage, k.PrevPage, k.Export},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Category Pane Keys
// =============================================================================

// CategoryKeyMap defines keys for the category pane.
type CategoryKeyMap struct {
	Add    key.Binding
	Edit   key.Binding
	Delete key.Binding
	NavigationKeyMap
}

// DefaultCategoryKeyMap returns the default category pane key bindings.
func DefaultCategoryKeyMap() CategoryKeyMap {
	return NewCategoryKeyMap(&config.KeysConfig{})
}

// NewCategoryKeyMap creates category key bindings from config.
func NewCategoryKeyMap(cfg *config.KeysConfig) CategoryKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CategoryKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.AddTask, "a")...),
			key.WithHelp("a", "add category"),
		),
		Edit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.EditTask, "e")...),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys(parseKeys(cfg.DeleteTask, "x")...),
			key.WithHelp("x", "delete"),
		),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// ShortHelp returns the short help for the category pane (implements help.KeyMap).
func (k CategoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Down}
}

// FullHelp returns the full help for the category pane (implements help.KeyMap).
func (k CategoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Delete},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Calendar Pane Keys
// =============================================================================

// CalendarKeyMap defines keys for the calendar pane.
type CalendarKeyMap struct {
	PrevMonth key.Binding
	NextMonth key.Binding
	Today     key.Binding
	Filter    key.Binding
	Status    key.Binding
}

// DefaultCalendarKeyMap returns the default calendar pane key bindings.
func DefaultCalendarKeyMap() CalendarKeyMap {
	return NewCalendarKeyMap(&config.KeysConfig{})
}

// NewCalendarKeyMap creates calendar key bindings from config.
func NewCalendarKeyMap(cfg *config.KeysConfig) CalendarKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return CalendarKeyMap{
		PrevMonth: key.NewBinding(
			key.WithKeys(parseKeys(cfg.PrevMonth, "h", "left")...),
			key.WithHelp("h/←", "prev month"),
		),
		NextMonth: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextMonth, "l", "right")...),
			key.WithHelp("l/→", "next month"),
		),
		Today: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Today, "t")...),
			key.WithHelp("t", "today"),
		),
		Filter: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Filter, "f")...),
			key.WithHelp("f", "filter category"),
		),
		Status: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Completed, "c")...),
			key.WithHelp("c", "filter status"),
		),
	}
}

// ShortHelp returns the short help for the calendar pane (implements help.KeyMap).
func (k CalendarKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.PrevMonth, k.NextMonth, k.Today, k.Filter}
}

// FullHelp returns the full help for the calendar pane (implements help.KeyMap).
func (k CalendarKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevMonth, k.NextMonth, k.Today},
		{k.Filter, k.Status},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
