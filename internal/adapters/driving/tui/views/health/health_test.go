package health

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

type mockHealthService struct {
	summary domain.HealthSummary
	calls   int
}

func (m *mockHealthService) GetHealthSummary() domain.HealthSummary {
	m.calls++
	return m.summary
}

func (m *mockHealthService) GetIntegrationHealth(domain.ProviderID) (domain.IntegrationHealth, bool) {
	return domain.IntegrationHealth{}, false
}

func sampleSummary() domain.HealthSummary {
	checked := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	return domain.HealthSummary{
		Overall:   domain.HealthDegraded,
		Healthy:   1,
		Degraded:  1,
		Unhealthy: 0,
		Providers: []domain.IntegrationHealth{
			{Provider: domain.ProviderGmail, Status: domain.HealthHealthy, ConsecutiveSuccesses: 4, LastCheckedAt: checked},
			{Provider: domain.ProviderSlack, Status: domain.HealthDegraded, ConsecutiveFailures: 3, LastError: "rate_limited"},
		},
	}
}

func loadedView(t *testing.T, svc *mockHealthService) *View {
	t.Helper()
	v := NewView(nil, svc)
	v.SetDimensions(100, 40)
	cmd := v.Init()
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())
	return v
}

func TestView_Init_LoadsSummary(t *testing.T) {
	svc := &mockHealthService{summary: sampleSummary()}

	v := loadedView(t, svc)

	assert.Equal(t, 1, svc.calls)
	assert.Len(t, v.Summary().Providers, 2)
	assert.NoError(t, v.Err())
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)

	v, _ = v.Update(v.Init()())

	assert.ErrorIs(t, v.Err(), ErrNoHealthService)
	assert.Contains(t, v.View(), "Error:")
}

func TestView_View_BeforeLoad(t *testing.T) {
	v := NewView(nil, &mockHealthService{})

	assert.Contains(t, v.View(), "Loading health...")
}

func TestView_View_Empty(t *testing.T) {
	v := loadedView(t, &mockHealthService{})

	assert.Contains(t, v.View(), "No providers have been searched yet.")
}

func TestView_View_ListsProviders(t *testing.T) {
	v := loadedView(t, &mockHealthService{summary: sampleSummary()})

	out := v.View()

	assert.Contains(t, out, "Overall: degraded")
	assert.Contains(t, out, "1 healthy, 1 degraded, 0 unhealthy")
	assert.Contains(t, out, "Gmail")
	assert.Contains(t, out, "Slack")
	assert.Contains(t, out, "Consecutive successes: 4")
	assert.Contains(t, out, "Last checked: 2024-03-01T09:30:00Z")
}

func TestView_Navigation_ShowsSelectedDetail(t *testing.T) {
	v := loadedView(t, &mockHealthService{summary: sampleSummary()})

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.Equal(t, 1, v.SelectedIndex())
	require.NotNil(t, v.SelectedProvider())
	assert.Equal(t, domain.ProviderSlack, v.SelectedProvider().Provider)
	assert.Contains(t, v.View(), "Last error: rate_limited")

	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_Refresh(t *testing.T) {
	svc := &mockHealthService{summary: sampleSummary()}
	v := loadedView(t, svc)
	v.selected = 1
	svc.summary.Providers = svc.summary.Providers[:1]

	v, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	require.NotNil(t, cmd)
	v, _ = v.Update(cmd())

	assert.Equal(t, 2, svc.calls)
	assert.Len(t, v.Summary().Providers, 1)
	assert.Equal(t, 0, v.SelectedIndex())
}

func TestView_EscReturnsToMenu(t *testing.T) {
	v := NewView(nil, &mockHealthService{})

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}
