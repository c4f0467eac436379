// Package keymap defines keybindings for the TUI.
package keymap

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeyMap holds every binding the views react to.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Back key.Binding

	// Up and Down move through lists.
	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// GoSearch and GoHealth jump from the menu.
	GoSearch key.Binding
	GoHealth key.Binding

	// Search submits the query box.
	Search key.Binding

	// PrevQuery and NextQuery walk the query history while typing.
	PrevQuery key.Binding
	NextQuery key.Binding

	// NewSearch clears the results and refocuses the query box.
	NewSearch key.Binding
	Details   key.Binding

	// Refresh reloads provider health.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		GoSearch:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "search")),
		GoHealth:  key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "health")),
		Search:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "search")),
		PrevQuery: key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous query")),
		NextQuery: key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next query")),
		NewSearch: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new search")),
		Details:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	}
}

// ShortHelp is shown when nothing more specific applies.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// MenuHelp returns the bindings of the start screen.
func (k *KeyMap) MenuHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.GoSearch, k.GoHealth, k.Quit}
}

// InputHelp returns the bindings available while typing a query.
func (k *KeyMap) InputHelp() []key.Binding {
	return []key.Binding{k.Search, k.PrevQuery, k.Back}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.NewSearch, k.Up, k.Details, k.Back}
}

// HealthHelp returns keybindings for the health view.
func (k *KeyMap) HealthHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back}
}

// FullHelp groups every binding for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.GoSearch, k.GoHealth, k.Refresh},
		{k.Search, k.PrevQuery, k.NextQuery, k.NewSearch},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

// Pressed reports whether msg triggers binding.
func Pressed(msg tea.KeyMsg, binding key.Binding) bool {
	return key.Matches(msg, binding)
}

// Hints renders bindings as "key: desc" pairs joined by sep.
func Hints(bindings []key.Binding, sep string) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return strings.Join(parts, sep)
}
