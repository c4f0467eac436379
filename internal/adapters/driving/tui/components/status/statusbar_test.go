package status

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

func response(results int, ranked bool, failures ...domain.ProviderFailure) *domain.SearchResponse {
	resp := &domain.SearchResponse{
		Success:          true,
		ProcessingTimeMs: 840,
		Query:            domain.QueryMetadata{Ranked: ranked},
		Failures:         failures,
		RequestID:        "req-1",
	}
	for range results {
		resp.Data = append(resp.Data, domain.RankedResult{})
	}
	return resp
}

func wideBar() *Bar {
	bar := NewBar(nil, nil)
	bar.SetWidth(200)
	return bar
}

func TestNewBar(t *testing.T) {
	bar := NewBar(styles.DefaultStyles(), keymap.DefaultKeyMap())

	require.NotNil(t, bar)
	assert.Equal(t, StateReady, bar.State())
	assert.Empty(t, bar.Message())
	assert.Equal(t, Outcome{}, bar.Outcome())
	assert.Equal(t, 80, bar.Width())
}

func TestNewBar_NilDefaults(t *testing.T) {
	bar := NewBar(nil, nil)

	assert.NotNil(t, bar.styles)
	assert.NotNil(t, bar.keymap)
}

func TestOutcomeOf(t *testing.T) {
	resp := response(3, false,
		domain.ProviderFailure{Provider: domain.ProviderSlack, TimedOut: true},
		domain.ProviderFailure{Provider: domain.ProviderNotion},
	)

	o := OutcomeOf(resp)

	assert.Equal(t, Outcome{Results: 3, Elapsed: 840, Fallback: true, Failed: 2, TimedOut: 1, RequestID: "req-1"}, o)
}

func TestOutcomeOf_NoResultsIsNotFallback(t *testing.T) {
	assert.False(t, OutcomeOf(response(0, false)).Fallback)
	assert.False(t, OutcomeOf(response(2, true)).Fallback)
}

func TestBar_View_States(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Bar)
		want  []string
	}{
		{"ready", func(*Bar) {}, []string{"Ready", "enter: search", "previous query"}},
		{"searching", func(b *Bar) { b.SetState(StateSearching) }, []string{"Searching connected providers...", "quit"}},
		{"error without message", func(b *Bar) { b.SetState(StateError) }, []string{"Error"}},
		{"error", func(b *Bar) { b.SetError(errors.New("no providers connected")) }, []string{"Error: no providers connected"}},
		{"help", func(b *Bar) { b.SetState(StateHelp) }, []string{"Help"}},
		{"ranked", func(b *Bar) { b.SetOutcome(response(12, true)) }, []string{"12 results in 840ms", "new search", "details"}},
		{"single", func(b *Bar) { b.SetOutcome(response(1, true)) }, []string{"1 result in"}},
		{"empty", func(b *Bar) { b.SetOutcome(response(0, true)) }, []string{"0 results", "quit"}},
		{"degraded", func(b *Bar) {
			b.SetOutcome(response(4, false, domain.ProviderFailure{TimedOut: true}, domain.ProviderFailure{}))
		}, []string{"4 results", "newest first", "2 unavailable (1 timed out)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := wideBar()
			tt.setup(bar)

			view := bar.View()
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
		})
	}
}

func TestBar_RankedHidesFallback(t *testing.T) {
	bar := wideBar()
	bar.SetOutcome(response(5, true))

	assert.NotContains(t, bar.View(), "newest first")
	assert.NotContains(t, bar.View(), "unavailable")
}

func TestBar_SetOutcomeClearsError(t *testing.T) {
	bar := wideBar()
	bar.SetError(errors.New("boom"))

	bar.SetOutcome(response(2, true))

	assert.Equal(t, StateResults, bar.State())
	assert.Empty(t, bar.Message())
}

func TestBar_Clear(t *testing.T) {
	bar := wideBar()
	bar.SetOutcome(response(2, false, domain.ProviderFailure{}))

	bar.Clear()

	assert.Equal(t, StateReady, bar.State())
	assert.Equal(t, Outcome{}, bar.Outcome())
	assert.Contains(t, bar.View(), "Ready")
}

func TestBar_NarrowWidthStillRenders(t *testing.T) {
	bar := NewBar(nil, nil)
	bar.SetWidth(10)

	assert.NotEmpty(t, bar.View())
}
