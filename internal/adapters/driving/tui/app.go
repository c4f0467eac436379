package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/views/detail"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/views/health"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	menuView   *menu.View
	searchView *search.View
	detailView *detail.View
	healthView *health.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keys:        km,
		menuView:    menu.NewView(s).WithIdentity(ports.UserID, ports.OrganizationID),
		searchView:  search.NewView(s, km, ports.Search).WithIdentity(ports.UserID, ports.OrganizationID),
		detailView:  detail.NewView(s),
		healthView:  health.NewView(s, ports.Health),
		currentView: messages.ViewMenu,
	}, nil
}

// WithContext sets the context searches run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("sercha - Federated Search"),
		a.healthView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateActive(msg)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
		return a, cmd

	case messages.ResultSelected:
		a.detailView.SetResult(msg.Result)
		a.currentView = messages.ViewResultDetail
		return a, nil

	case messages.HealthLoaded:
		a.menuView.SetHealth(msg.Summary)
		a.healthView, cmd = a.healthView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSearch:
			// Returning from a result keeps the results on screen.
			if a.searchView.Response() == nil {
				a.searchView.Reset()
			}
			return a, a.searchView.Init()
		case messages.ViewHealth:
			return a, a.healthView.Init()
		case messages.ViewMenu, messages.ViewHelp, messages.ViewResultDetail:
		}
		return a, nil

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewHealth:
			a.healthView, cmd = a.healthView.Update(msg)
		case messages.ViewMenu, messages.ViewHelp, messages.ViewResultDetail:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.updateActive(msg)
}

// updateActive forwards msg to the active view.
func (a *App) updateActive(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewResultDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewHealth:
		a.healthView, cmd = a.healthView.Update(msg)
	case messages.ViewHelp:
		if km, ok := msg.(tea.KeyMsg); ok && keymap.Pressed(km, a.keys.Back) {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewResultDetail:
		return a.detailView.View()
	case messages.ViewHealth:
		return a.healthView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	case messages.ViewMenu:
		return a.menuView.View()
	default:
		return a.menuView.View()
	}
}

// viewHelp lists the bindings of every view.
func (a *App) viewHelp() string {
	km := a.keys
	sections := []struct {
		title    string
		bindings []key.Binding
	}{
		{"Menu", km.MenuHelp()},
		{"Search", km.InputHelp()},
		{"Results", km.ResultsHelp()},
		{"Provider Health", km.HealthHelp()},
	}

	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n" + a.styles.Subtitle.Render(sec.title+":") + "\n")
		for _, binding := range sec.bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s  %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n" + a.styles.Help.Render("esc: back to menu  ctrl+c: quit"))
	return b.String()
}

// Run starts the program and blocks until it exits. It takes over the
// alternate screen unless inline is set.
func (a *App) Run(inline bool) error {
	opts := []tea.ProgramOption{tea.WithContext(a.ctx)}
	if !inline {
		opts = append(opts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(a, opts...).Run()
	return err
}

// Query returns the current search query.
func (a *App) Query() string {
	return a.searchView.Query()
}

// Results returns the current search results.
func (a *App) Results() []domain.RankedResult {
	return a.searchView.Results()
}

// SelectedIndex returns the currently selected result index.
func (a *App) SelectedIndex() int {
	return a.searchView.SelectedIndex()
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.healthView.SetDimensions(width, height)
}
