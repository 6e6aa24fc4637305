// Package ui provides the interactive terminal interface for todo.txt files.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching and help text generation.
package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// Global Keys (available outside prompts and overlays)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Undo     key.Binding
	Settings key.Binding
	Command  key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next pane"),
		),
		PrevPane: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous pane"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "ctrl+z"),
			key.WithHelp("u", "undo"),
		),
		Settings: key.NewBinding(
			key.WithKeys(","),
			key.WithHelp(",", "settings"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command"),
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
	return NavigationKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text prompts)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}

// =============================================================================
// Task Pane Keys
// =============================================================================

// TaskKeyMap defines keys for the task pane. Upper-case letters (or digits
// in number mode) that are not bound here set the priority directly.
type TaskKeyMap struct {
	Add           key.Binding
	Edit          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	Priority      key.Binding
	ClearPriority key.Binding
	Search        key.Binding
	Sort          key.Binding
	ShowCompleted key.Binding
	ClearFilters  key.Binding
	Overdue       key.Binding
	Yank          key.Binding
	Paste         key.Binding
	NavigationKeyMap
}

// DefaultTaskKeyMap returns the default task pane key bindings.
func DefaultTaskKeyMap() TaskKeyMap {
	return TaskKeyMap{
		Add: key.NewBinding(
			key.WithKeys("a", "n"),
			key.WithHelp("a/n", "add task"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e", "i", "enter"),
			key.WithHelp("e/enter", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "d"),
			key.WithHelp("space", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Priority: key.NewBinding(
			key.WithKeys("#"),
			key.WithHelp("#", "set priority"),
		),
		ClearPriority: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "clear priority"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "cycle sort"),
		),
		ShowCompleted: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "show completed"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c/esc", "clear filters"),
		),
		Overdue: key.NewBinding(
			key.WithKeys("!"),
			key.WithHelp("!", "highlight overdue"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste"),
		),
		NavigationKeyMap: DefaultNavigationKeyMap(),
	}
}

// ShortHelp returns the short help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Edit, k.Delete, k.Search}
}

// FullHelp returns the full help for the task pane (implements help.KeyMap).
func (k TaskKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Edit, k.Toggle, k.Delete},
		{k.Priority, k.ClearPriority, k.Yank, k.Paste},
		{k.Search, k.Sort, k.ShowCompleted, k.ClearFilters, k.Overdue},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Panel Keys (stats and tags)
// =============================================================================

// PanelKeyMap defines keys for the filter panels.
type PanelKeyMap struct {
	Apply key.Binding
	Clear key.Binding
	NavigationKeyMap
}

// DefaultPanelKeyMap returns the default panel key bindings.
func DefaultPanelKeyMap() PanelKeyMap {
	return PanelKeyMap{
		Apply: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "apply filter"),
		),
		Clear: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c/esc", "clear filter"),
		),
		NavigationKeyMap: DefaultNavigationKeyMap(),
	}
}

// ShortHelp returns the short help for a panel (implements help.KeyMap).
func (k PanelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Apply, k.Clear, k.Down}
}

// FullHelp returns the full help for a panel (implements help.KeyMap).
func (k PanelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Apply, k.Clear},
		{k.Up, k.Down, k.Top, k.Bottom},
	}
}

// =============================================================================
// Settings Keys
// =============================================================================

// SettingsKeyMap defines keys for the settings screen.
type SettingsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Close  key.Binding
	Yes    key.Binding
	No     key.Binding
}

// DefaultSettingsKeyMap returns the default settings key bindings.
func DefaultSettingsKeyMap() SettingsKeyMap {
	return SettingsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q", ","),
			key.WithHelp("esc/q", "close"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "convert"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "keep values"),
		),
	}
}

// =============================================================================
// Overlay Keys
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
			key.WithHelp("?/esc", "close"),
		),
	}
}

// ConfirmKeyMap defines keys for the delete confirmation.
type ConfirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// DefaultConfirmKeyMap returns the default confirmation key bindings.
func DefaultConfirmKeyMap() ConfirmKeyMap {
	return ConfirmKeyMap{
		Yes: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y/enter", "delete"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
	}
}
