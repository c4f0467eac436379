package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func press(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(styles.DefaultStyles())

	require.NotNil(t, view)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
	assert.False(t, view.ready)
}

func TestNewView_NilStyles(t *testing.T) {
	view := NewView(nil)

	assert.NotNil(t, view.styles)
}

func TestView_Items(t *testing.T) {
	items := NewView(nil).Items()

	require.Len(t, items, 4)
	assert.Equal(t, messages.ViewSearch, items[0].View)
	assert.Equal(t, []string{"s"}, items[0].Key.Keys())
	assert.Equal(t, messages.ViewHealth, items[1].View)
	assert.Equal(t, []string{"h"}, items[1].Key.Keys())
	assert.Equal(t, messages.ViewHelp, items[2].View)
	assert.True(t, items[3].Quit)
}

func TestView_Update_WindowSize(t *testing.T) {
	view := NewView(nil)

	view, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Nil(t, cmd)
	assert.True(t, view.ready)
	assert.Equal(t, 100, view.width)
}

func TestView_Update_Navigation(t *testing.T) {
	view := NewView(nil)

	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, view.Selected())

	view, _ = view.Update(press("j"))
	view, _ = view.Update(tea.KeyMsg{Type: tea.KeyDown})
	view, _ = view.Update(press("j"))
	assert.Equal(t, 3, view.Selected())

	view, _ = view.Update(press("j"))
	assert.Equal(t, 3, view.Selected())

	view, _ = view.Update(press("k"))
	assert.Equal(t, 2, view.Selected())
}

func TestView_Update_Enter(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		want     messages.ViewType
	}{
		{"search", 0, messages.ViewSearch},
		{"health", 1, messages.ViewHealth},
		{"help", 2, messages.ViewHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil)
			view.selected = tt.selected

			_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
			require.NotNil(t, cmd)

			assert.Equal(t, messages.ViewChanged{View: tt.want}, cmd())
		})
	}
}

func TestView_Update_Quit(t *testing.T) {
	view := NewView(nil)
	view.selected = 3

	_, cmd := view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = NewView(nil).Update(press("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView_View(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, "Initialising...", view.View())

	view.SetDimensions(80, 24)
	output := view.View()

	assert.Contains(t, output, "Sercha")
	assert.Contains(t, output, "Federated search across your connected apps")
	assert.Contains(t, output, "> Search")
	assert.Contains(t, output, "Provider Health")
	assert.Contains(t, output, "↑/k: up")
	assert.NotContains(t, output, "Signed in")
	assert.NotContains(t, output, "Providers:")
}

func TestView_Shortcuts(t *testing.T) {
	view := NewView(nil)

	view, cmd := view.Update(press("h"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewHealth}, cmd())
	assert.Equal(t, 1, view.Selected())

	_, cmd = view.Update(press("s"))
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewSearch}, cmd())

	_, cmd = view.Update(press("x"))
	assert.Nil(t, cmd)
}

func TestView_IdentityAndHealth(t *testing.T) {
	view := NewView(nil).WithIdentity("alice", "acme")
	view.SetDimensions(100, 30)
	view.SetHealth(domain.HealthSummary{
		Overall:  domain.HealthDegraded,
		Healthy:  2,
		Degraded: 1,
		Providers: []domain.IntegrationHealth{
			{Provider: domain.ProviderGmail}, {Provider: domain.ProviderSlack}, {Provider: domain.ProviderNotion},
		},
	})

	output := view.View()

	assert.Contains(t, output, "Signed in as alice (acme)")
	assert.Contains(t, output, "Providers: 2 healthy, 1 degraded, 0 unhealthy")
}

func TestView_EmptyHealthHidden(t *testing.T) {
	view := NewView(nil)
	view.SetDimensions(100, 30)
	view.SetHealth(domain.HealthSummary{})

	assert.NotContains(t, view.View(), "Providers:")
}
