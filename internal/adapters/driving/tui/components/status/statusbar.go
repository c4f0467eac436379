// Package status renders the one-line status bar under the search view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// State is what the search view is doing.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateHelp      State = "help"
	StateResults   State = "results"
)

// Outcome summarises a finished search.
type Outcome struct {
	Results   int
	Elapsed   int64
	Fallback  bool
	Failed    int
	TimedOut  int
	RequestID string
}

// OutcomeOf extracts the summary of resp.
func OutcomeOf(resp *domain.SearchResponse) Outcome {
	o := Outcome{
		Results:   len(resp.Data),
		Elapsed:   resp.ProcessingTimeMs,
		Fallback:  !resp.Query.Ranked && len(resp.Data) > 0,
		Failed:    len(resp.Failures),
		RequestID: resp.RequestID,
	}
	for _, f := range resp.Failures {
		if f.TimedOut {
			o.TimedOut++
		}
	}
	return o
}

// Bar shows the search state on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	state   State
	message string
	outcome Outcome
	width   int
}

// NewBar creates a status bar. Nil arguments use the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (s *Bar) renderLeft() string {
	switch s.state {
	case StateSearching:
		return s.styles.Muted.Render("Searching connected providers...")
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render("Error: " + s.message)
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateResults:
		return s.renderOutcome()
	default:
		return s.styles.Muted.Render("Ready")
	}
}

// renderOutcome reads like "12 results in 840ms · newest first · 2 unavailable (1 timed out)".
func (s *Bar) renderOutcome() string {
	o := s.outcome
	noun := "results"
	if o.Results == 1 {
		noun = "result"
	}
	text := s.styles.Normal.Render(fmt.Sprintf("%d %s", o.Results, noun))
	if o.Elapsed > 0 {
		text += s.styles.Muted.Render(fmt.Sprintf(" in %dms", o.Elapsed))
	}
	if o.Fallback {
		text += s.styles.Muted.Render(" · newest first")
	}
	if o.Failed > 0 {
		failed := fmt.Sprintf(" · %d unavailable", o.Failed)
		if o.TimedOut > 0 {
			failed += fmt.Sprintf(" (%d timed out)", o.TimedOut)
		}
		text += s.styles.Warning.Render(failed)
	}
	return text
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case s.state == StateResults && s.outcome.Results > 0:
		bindings = s.keymap.ResultsHelp()
	case s.state == StateReady:
		bindings = s.keymap.InputHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}
	return s.styles.Muted.Render(keymap.Hints(bindings, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetError switches to the error state with err's message.
func (s *Bar) SetError(err error) {
	s.state = StateError
	s.message = err.Error()
}

// SetMessage sets the error text.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the error text.
func (s *Bar) Message() string {
	return s.message
}

// SetOutcome switches to the results state for resp.
func (s *Bar) SetOutcome(resp *domain.SearchResponse) {
	s.state = StateResults
	s.message = ""
	s.outcome = OutcomeOf(resp)
}

// Outcome returns the last search summary.
func (s *Bar) Outcome() Outcome {
	return s.outcome
}

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the bar width.
func (s *Bar) Width() int {
	return s.width
}

// Clear returns to the ready state and forgets the last outcome.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.outcome = Outcome{}
}
