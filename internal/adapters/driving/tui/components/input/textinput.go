// Package input provides the query box for the TUI.
package input

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// historySize is how many submitted queries the box remembers.
const historySize = 20

// counterThreshold is how close to the limit a query gets before the
// remaining character count is shown.
const counterThreshold = 50

// SearchInput is a single-line query box with recall of earlier queries.
// Up and down walk the history while the box has focus.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int

	history []string
	cursor  int    // index into history; len(history) means the draft
	draft   string // text typed before walking the history
}

// NewSearchInput creates a focused query box.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Search every connected app..."
	ti.Focus()
	ti.CharLimit = domain.MaxQueryLength
	ti.Width = 50

	return &SearchInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blink.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles history keys and forwards everything else to the text input.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && s.textinput.Focused() {
		switch key.Type {
		case tea.KeyUp:
			s.recall(-1)
			return s, nil
		case tea.KeyDown:
			s.recall(1)
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

func (s *SearchInput) recall(step int) {
	if len(s.history) == 0 {
		return
	}
	if s.cursor == len(s.history) {
		s.draft = s.textinput.Value()
	}
	next := min(max(s.cursor+step, 0), len(s.history))
	if next == s.cursor {
		return
	}
	s.cursor = next
	if s.cursor == len(s.history) {
		s.textinput.SetValue(s.draft)
	} else {
		s.textinput.SetValue(s.history[s.cursor])
	}
	s.textinput.CursorEnd()
}

// Remember records a submitted query. Repeating the latest query is a no-op.
func (s *SearchInput) Remember(query string) {
	if query == "" {
		return
	}
	if n := len(s.history); n == 0 || s.history[n-1] != query {
		s.history = append(s.history, query)
		if len(s.history) > historySize {
			s.history = s.history[len(s.history)-historySize:]
		}
	}
	s.cursor = len(s.history)
	s.draft = ""
}

// History returns remembered queries, oldest first.
func (s *SearchInput) History() []string {
	return s.history
}

// Remaining returns how many more characters the query may take.
func (s *SearchInput) Remaining() int {
	return domain.MaxQueryLength - utf8.RuneCountInString(s.textinput.Value())
}

// View renders the label, the box and, near the limit, a character count.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	box := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	row := lipgloss.JoinHorizontal(lipgloss.Center, label, box)
	if left := s.Remaining(); left <= counterThreshold {
		row += s.styles.Muted.Render(fmt.Sprintf("  %d left", left))
	}
	return row
}

// Value returns the current text.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue replaces the current text.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// Focus gives the box keyboard focus.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes keyboard focus.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused reports whether the box has focus.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the total width including the label.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	s.textinput.Width = max(width-10, 20)
}

// Width returns the total width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the text but keeps the history.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
	s.cursor = len(s.history)
	s.draft = ""
}
