// Package styles holds the TUI palette and the lipgloss styles built from it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Theme is a colour palette.
type Theme struct {
	Primary   lipgloss.Color // titles and the selection background
	Secondary lipgloss.Color // subtitles and unknown provider kinds
	Surface   lipgloss.Color // status bar background
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color

	// Kinds colours a result's source line by provider kind.
	Kinds map[domain.ProviderKind]lipgloss.Color
}

// DefaultTheme is a dark palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   "#7C3AED",
		Secondary: "#06B6D4",
		Surface:   "#181825",
		Text:      "#CDD6F4",
		Muted:     "#6C7086",
		Success:   "#A6E3A1",
		Warning:   "#F9E2AF",
		Error:     "#F38BA8",
		Border:    "#45475A",
		Kinds: map[domain.ProviderKind]lipgloss.Color{
			domain.KindMail:           "#F38BA8",
			domain.KindDrive:          "#89B4FA",
			domain.KindCalendar:       "#FAB387",
			domain.KindDocs:           "#CDD6F4",
			domain.KindChat:           "#CBA6F7",
			domain.KindProjectTracker: "#94E2D5",
			domain.KindAccounting:     "#A6E3A1",
			domain.KindConstruction:   "#F9E2AF",
		},
	}
}

// Styles are the lipgloss styles the views render with.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles builds styles for theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return &Styles{
		theme:    theme,
		Title:    fg(theme.Primary).Bold(true),
		Subtitle: fg(theme.Secondary).Bold(true),
		Normal:   fg(theme.Text),
		Muted:    fg(theme.Muted),
		Selected: fg(theme.Text).Background(theme.Primary).Bold(true),
		Error:    fg(theme.Error),
		Success:  fg(theme.Success),
		Warning:  fg(theme.Warning),
		Help:     fg(theme.Muted),
		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		StatusBar: fg(theme.Muted).Background(theme.Surface).Padding(0, 1),
	}
}

// DefaultStyles returns NewStyles(DefaultTheme()).
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

func (s *Styles) Theme() *Theme {
	return s.theme
}

// Health picks the style for a provider health status.
func (s *Styles) Health(status domain.HealthStatus) lipgloss.Style {
	switch status {
	case domain.HealthHealthy:
		return s.Success
	case domain.HealthDegraded:
		return s.Warning
	case domain.HealthUnhealthy:
		return s.Error
	}
	return s.Muted
}

// Source colours a result's source line by the provider's kind.
func (s *Styles) Source(p domain.ProviderID) lipgloss.Style {
	if c, ok := s.theme.Kinds[p.Kind()]; ok {
		return s.Subtitle.Foreground(c)
	}
	return s.Subtitle
}

// Score highlights strong matches and fades weak ones.
func (s *Styles) Score(score float64) lipgloss.Style {
	switch {
	case score >= 0.75:
		return s.Success
	case score >= 0.4:
		return s.Normal
	}
	return s.Muted
}
