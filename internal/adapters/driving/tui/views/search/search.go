// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	searchService driving.SearchService
	userID        string
	orgID         string
	ctx           context.Context

	response   *domain.SearchResponse
	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, searchService driving.SearchService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:        s,
		keymap:        km,
		input:         input.NewSearchInput(s),
		list:          list.NewResultList(s),
		statusbar:     status.NewBar(s, km),
		searchService: searchService,
		ctx:           context.Background(),
		width:         80,
		height:        24,
		focusInput:    true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// WithIdentity sets the user and organization searches run as.
func (v *View) WithIdentity(userID, orgID string) *View {
	v.userID = userID
	v.orgID = orgID
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetError(msg.Err)
		return v, nil
	}

	var inputCmd tea.Cmd
	v.input, inputCmd = v.input.Update(msg)
	if inputCmd != nil {
		cmds = append(cmds, inputCmd)
	}

	return v, tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Pressed(msg, v.keymap.Back) {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput && keymap.Pressed(msg, v.keymap.Search) {
		query := strings.TrimSpace(v.input.Value())
		if query == "" {
			return v, nil
		}
		v.input.Remember(query)
		v.statusbar.SetState(status.StateSearching)
		v.focusInput = false
		v.input.Blur()
		return v, v.performSearch(query)
	}

	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Pressed(msg, v.keymap.Details) {
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		selected := *result
		return v, func() tea.Msg {
			return messages.ResultSelected{Result: selected}
		}
	}

	switch {
	case keymap.Pressed(msg, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Pressed(msg, v.keymap.Down):
		v.list.MoveDown()
	case keymap.Pressed(msg, v.keymap.NewSearch):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// performSearch runs the query against the search service.
func (v *View) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if v.searchService == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}

		resp, err := v.searchService.Search(v.ctx, domain.SearchRequest{
			Query:          query,
			UserID:         v.userID,
			OrganizationID: v.orgID,
		})
		return messages.SearchCompleted{Response: resp, Err: err}
	}
}

// handleSearchCompleted processes the search envelope.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetError(msg.Err)
		v.focusInput = true
		v.input.Focus()
		return
	}
	if msg.Response == nil {
		return
	}

	v.err = nil
	v.response = msg.Response
	v.list.SetResults(msg.Response.Data)
	v.statusbar.SetOutcome(msg.Response)

	v.focusInput = false
	v.input.Blur()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Sercha"), "", v.input.View(), ""}
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}
	if line := v.queryLine(); line != "" {
		sections = append(sections, v.styles.Muted.Render(line), "")
	}
	sections = append(sections, v.list.View())
	if failures := v.renderFailures(); failures != "" {
		sections = append(sections, "", failures)
	}
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// queryLine shows the rewritten query and the detected intent, if any.
func (v *View) queryLine() string {
	if v.response == nil {
		return ""
	}
	q := v.response.Query
	var parts []string
	if q.Processed != "" && q.Processed != q.Original {
		parts = append(parts, "Searched for: "+q.Processed)
	}
	if q.Intent != nil && q.Intent.Type != "" {
		intent := q.Intent.Type
		if q.Intent.Category != "" {
			intent += "/" + q.Intent.Category
		}
		parts = append(parts, "intent: "+intent)
	}
	return strings.Join(parts, "  ·  ")
}

// renderFailures lists the providers that did not answer.
func (v *View) renderFailures() string {
	if v.response == nil || len(v.response.Failures) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(v.styles.Warning.Render("Unavailable providers:"))
	for _, f := range v.response.Failures {
		b.WriteString("\n" + v.styles.Muted.Render(fmt.Sprintf("  %s: %s", f.Provider.Description(), f.Class)))
	}
	return b.String()
}

// SetDimensions sizes the view; the list gets what the header, input,
// failures and status bar leave.
func (v *View) SetDimensions(width, height int) {
	v.width, v.height, v.ready = width, height, true
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-12)
	v.statusbar.SetWidth(width)
}

func (v *View) Width() int                           { return v.width }
func (v *View) Height() int                          { return v.height }
func (v *View) Ready() bool                          { return v.ready }
func (v *View) Query() string                        { return v.input.Value() }
func (v *View) SetQuery(query string)                { v.input.SetValue(query) }
func (v *View) Response() *domain.SearchResponse     { return v.response }
func (v *View) Results() []domain.RankedResult       { return v.list.Results() }
func (v *View) SelectedIndex() int                   { return v.list.Selected() }
func (v *View) SelectedResult() *domain.RankedResult { return v.list.SelectedResult() }
func (v *View) Err() error                           { return v.err }
func (v *View) InputFocused() bool                   { return v.focusInput }

// ClearError drops the error and returns the status bar to ready.
func (v *View) ClearError() {
	v.err = nil
	v.statusbar.SetState(status.StateReady)
	v.statusbar.SetMessage("")
}

// Reset returns to an empty input with no results.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.response = nil
	v.err = nil
	v.statusbar.Clear()
}
