// Package detail provides the result detail view component for the TUI.
package detail

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const maxValueLen = 60

// View shows one ranked result in full.
type View struct {
	styles *styles.Styles

	result       *domain.RankedResult
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new result detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetResult sets the result to display.
func (v *View) SetResult(result domain.RankedResult) {
	v.result = &result
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Title, separator, help and padding.
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) maxScrollOffset() int {
	maxOffset := len(v.buildContent()) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.result == nil {
		return nil
	}
	r := v.result

	lines := []string{
		formatField("Title", r.Title),
		formatField("Source", r.Source.Description()),
		formatField("Score", fmt.Sprintf("%.2f (rank %d)", r.Score, r.Rank+1)),
		formatField("ID", r.ID),
	}
	if r.URL != "" {
		lines = append(lines, formatField("URL", r.URL))
	}
	if r.Author != "" {
		lines = append(lines, formatField("Author", r.Author))
	}
	if r.CreatedAt != nil {
		lines = append(lines, formatField("Created", r.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	if len(r.Tags) > 0 {
		lines = append(lines, formatField("Tags", strings.Join(r.Tags, ", ")))
	}

	if len(r.Metadata) > 0 {
		lines = append(lines, "", "Metadata:")
		keys := make([]string, 0, len(r.Metadata))
		for k := range r.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			value := fmt.Sprint(r.Metadata[k])
			if len([]rune(value)) > maxValueLen {
				value = string([]rune(value)[:maxValueLen-3]) + "..."
			}
			lines = append(lines, fmt.Sprintf("  %s: %s", k, value))
		}
	}

	if content := strings.TrimSpace(r.Content); content != "" {
		lines = append(lines, "", "Content:")
		for _, line := range strings.Split(content, "\n") {
			lines = append(lines, "  "+strings.TrimRight(line, " \r\t"))
		}
	}

	return lines
}

func formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// View renders the result detail view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Result"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", max(min(v.width-4, 60), 1)))
	b.WriteString("\n\n")

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No result selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "Metadata:" || line == "Content:":
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		return v.styles.Normal.Render(line)
	case strings.Contains(line, ":"):
		parts := strings.SplitN(line, ":", 2)
		return v.styles.Subtitle.Render(parts[0]+":") + v.styles.Normal.Render(parts[1])
	default:
		return v.styles.Normal.Render(line)
	}
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back to results")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Result returns the displayed result, or nil.
func (v *View) Result() *domain.RankedResult {
	return v.result
}

// ScrollOffset returns the current scroll position.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
