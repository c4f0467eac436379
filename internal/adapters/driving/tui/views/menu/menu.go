// Package menu provides the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Item is one menu entry. Key jumps straight to it.
type Item struct {
	Label string
	Hint  string
	Key   key.Binding
	View  messages.ViewType
	Quit  bool
}

// View is the start screen: who is searching, how the providers are doing
// and where to go next.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	items    []Item
	selected int
	width    int
	height   int
	ready    bool

	userID string
	orgID  string
	health *domain.HealthSummary
}

// NewView creates the menu.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	km := keymap.DefaultKeyMap()

	return &View{
		styles: s,
		keys:   km,
		items: []Item{
			{Label: "Search", Hint: "query every connected app at once", Key: km.GoSearch, View: messages.ViewSearch},
			{Label: "Provider Health", Hint: "see which providers are failing", Key: km.GoHealth, View: messages.ViewHealth},
			{Label: "Help", Hint: "key bindings", Key: km.Help, View: messages.ViewHelp},
			{Label: "Quit", Key: km.Quit, Quit: true},
		},
		width:  80,
		height: 24,
	}
}

// WithIdentity sets the user shown in the header.
func (v *View) WithIdentity(userID, orgID string) *View {
	v.userID = userID
	v.orgID = orgID
	return v
}

// SetHealth records the latest provider health for the header.
func (v *View) SetHealth(summary domain.HealthSummary) {
	v.health = &summary
}

// Init implements the view contract; the menu needs no startup work.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles navigation, selection and shortcut keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch {
		case keymap.Pressed(msg, v.keys.Up):
			v.selected = max(v.selected-1, 0)
			return v, nil
		case keymap.Pressed(msg, v.keys.Down):
			v.selected = min(v.selected+1, len(v.items)-1)
			return v, nil
		case keymap.Pressed(msg, v.keys.Select):
			return v, v.choose(v.items[v.selected])
		}
		for i, item := range v.items {
			if keymap.Pressed(msg, item.Key) {
				v.selected = i
				return v, v.choose(item)
			}
		}
	}

	return v, nil
}

func (v *View) choose(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Sercha"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Federated search across your connected apps"))
	b.WriteString("\n")
	if v.userID != "" {
		who := "Signed in as " + v.userID
		if v.orgID != "" {
			who += " (" + v.orgID + ")"
		}
		b.WriteString(v.styles.Muted.Render(who))
		b.WriteString("\n")
	}
	if line := v.healthLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, item := range v.items {
		cursor, style := "  ", v.styles.Normal
		if i == v.selected {
			cursor, style = "> ", v.styles.Subtitle
		}
		b.WriteString(cursor + style.Render(item.Label))
		if item.Hint != "" {
			b.WriteString(v.styles.Muted.Render("  " + item.Hint))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.Hints(v.keys.MenuHelp(), "  ")))

	return b.String()
}

func (v *View) healthLine() string {
	if v.health == nil || len(v.health.Providers) == 0 {
		return ""
	}
	h := v.health
	text := fmt.Sprintf("Providers: %d healthy, %d degraded, %d unhealthy", h.Healthy, h.Degraded, h.Unhealthy)
	return v.styles.Health(h.Overall).Render(text)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}
