// Package health provides the provider health view component for the TUI.
package health

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// View lists the health of every provider searched so far.
type View struct {
	styles        *styles.Styles
	keys          *keymap.KeyMap
	healthService driving.HealthService

	summary  domain.HealthSummary
	loaded   bool
	selected int
	width    int
	height   int
	ready    bool
	err      error
}

// NewView creates a new health view.
func NewView(s *styles.Styles, healthService driving.HealthService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:        s,
		keys:          keymap.DefaultKeyMap(),
		healthService: healthService,
		width:         80,
		height:        24,
	}
}

// Init loads the current health snapshot.
func (v *View) Init() tea.Cmd {
	return v.loadHealth()
}

func (v *View) loadHealth() tea.Cmd {
	return func() tea.Msg {
		if v.healthService == nil {
			return messages.ErrorOccurred{Err: ErrNoHealthService}
		}
		return messages.HealthLoaded{Summary: v.healthService.GetHealthSummary()}
	}
}

// Update handles messages for the health view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.HealthLoaded:
		v.summary = msg.Summary
		v.loaded = true
		v.err = nil
		if v.selected >= len(v.summary.Providers) {
			v.selected = 0
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case keymap.Pressed(msg, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Pressed(msg, v.keys.Down):
		if v.selected < len(v.summary.Providers)-1 {
			v.selected++
		}
	case keymap.Pressed(msg, v.keys.Refresh):
		return v, v.loadHealth()
	case keymap.Pressed(msg, v.keys.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

// View renders the health view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Provider Health"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if !v.loaded {
		b.WriteString(v.styles.Muted.Render("Loading health..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if len(v.summary.Providers) == 0 {
		b.WriteString(v.styles.Muted.Render("No providers have been searched yet."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	s := v.summary
	b.WriteString(v.styles.Normal.Render("Overall: "))
	b.WriteString(v.styles.Health(s.Overall).Render(string(s.Overall)))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  (%d healthy, %d degraded, %d unhealthy)",
		s.Healthy, s.Degraded, s.Unhealthy)))
	b.WriteString("\n\n")

	for i := range s.Providers {
		b.WriteString(v.renderProvider(i, &s.Providers[i]))
		b.WriteString("\n")
	}

	if h := v.SelectedProvider(); h != nil {
		b.WriteString("\n")
		b.WriteString(v.renderSelected(h))
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderProvider(index int, h *domain.IntegrationHealth) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	name := fmt.Sprintf("%s%-18s", indicator, h.Provider.Description())
	if index == v.selected {
		name = v.styles.Selected.Render(name)
	} else {
		name = v.styles.Normal.Render(name)
	}
	return name + " " + v.styles.Health(h.Status).Render(fmt.Sprintf("%-10s", h.Status))
}

func (v *View) renderSelected(h *domain.IntegrationHealth) string {
	lines := []string{
		fmt.Sprintf("Consecutive failures: %d", h.ConsecutiveFailures),
		fmt.Sprintf("Consecutive successes: %d", h.ConsecutiveSuccesses),
	}
	if !h.LastCheckedAt.IsZero() {
		lines = append(lines, "Last checked: "+h.LastCheckedAt.Format(time.RFC3339))
	}
	if !h.LastTransition.IsZero() {
		lines = append(lines, "Status since: "+h.LastTransition.Format(time.RFC3339))
	}
	if h.LastError != "" {
		lines = append(lines, "Last error: "+h.LastError)
	}
	return v.styles.Muted.Render(strings.Join(lines, "\n")) + "\n"
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render(keymap.Hints(v.keys.HealthHelp(), "  "))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Summary returns the last loaded snapshot.
func (v *View) Summary() domain.HealthSummary {
	return v.summary
}

// SelectedIndex returns the currently selected provider index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedProvider returns the selected provider's health, or nil.
func (v *View) SelectedProvider() *domain.IntegrationHealth {
	if v.selected < 0 || v.selected >= len(v.summary.Providers) {
		return nil
	}
	return &v.summary.Providers[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
