// Package list renders the ranked result list of a search.
package list

import (
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/sercha-federated/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// linesPerResult is title, source and preview.
const linesPerResult = 3

// ResultList is a scrollable list of ranked results with one selected row.
type ResultList struct {
	styles   *styles.Styles
	results  []domain.RankedResult
	selected int
	width    int
	height   int
}

// NewResultList creates an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// Init implements the component contract.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update moves the selection.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch km.String() {
	case "up", "k":
		r.MoveUp()
	case "down", "j":
		r.MoveDown()
	case "pgup":
		r.SetSelected(max(r.selected-r.pageSize(), 0))
	case "pgdown":
		r.SetSelected(min(r.selected+r.pageSize(), len(r.results)-1))
	case "home", "g":
		r.SetSelected(0)
	case "end", "G":
		r.SetSelected(len(r.results) - 1)
	}
	return r, nil
}

func (r *ResultList) pageSize() int {
	return max((r.height-4)/linesPerResult, 1)
}

// window returns the half-open range of results that fit on screen with
// the selection visible.
func (r *ResultList) window() (int, int) {
	size := r.pageSize()
	start := 0
	if r.selected >= size {
		start = r.selected - size + 1
	}
	return start, min(start+size, len(r.results))
}

// View renders the visible results.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	start, end := r.window()
	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	if end-start < len(r.results) {
		header += r.styles.Muted.Render(fmt.Sprintf("  %d-%d", start+1, end))
	}

	lines := make([]string, 0, (end-start)+2)
	lines = append(lines, header, "")
	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, &r.results[i]))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderResult(index int, result *domain.RankedResult) string {
	selected := index == r.selected
	cursor := "  "
	if selected {
		cursor = "> "
	}

	title := result.Title
	if title == "" {
		title = "(Untitled)"
	}
	prefix := fmt.Sprintf("%s%2d. ", cursor, index+1)
	titleWidth := max(r.width-len(prefix)-8, 10)
	title = truncate(title, titleWidth)
	score := fmt.Sprintf("%.2f", result.Score)

	var titleLine string
	if selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", prefix, titleWidth, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", prefix, titleWidth, title)) +
			r.styles.Score(result.Score).Render(score)
	}

	sourceLine := r.styles.Source(result.Source).Render("      " + sourceText(result))

	preview := strings.Join(strings.Fields(result.Content), " ")
	previewLine := r.styles.Muted.Render("      " + truncate(preview, max(r.width-8, 20)))

	return titleLine + "\n" + sourceLine + "\n" + previewLine
}

// sourceText is "Provider · author · date · host", skipping empty parts.
func sourceText(result *domain.RankedResult) string {
	parts := []string{result.Source.Description()}
	if result.Author != "" {
		parts = append(parts, result.Author)
	}
	if result.CreatedAt != nil {
		parts = append(parts, result.CreatedAt.Format("2006-01-02"))
	}
	if u, err := url.Parse(result.URL); err == nil && u.Host != "" {
		parts = append(parts, u.Host)
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the results and selects the first.
func (r *ResultList) SetResults(results []domain.RankedResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []domain.RankedResult {
	return r.results
}

// Selected returns the selected index.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected selects index if it is in range.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the selected result, or nil when the list is empty.
func (r *ResultList) SelectedResult() *domain.RankedResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp selects the previous result.
func (r *ResultList) MoveUp() {
	r.SetSelected(r.selected - 1)
}

// MoveDown selects the next result.
func (r *ResultList) MoveDown() {
	r.SetSelected(r.selected + 1)
}

// SetDimensions sets the size the list renders into.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

func (r *ResultList) Width() int  { return r.width }
func (r *ResultList) Height() int { return r.height }

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty reports whether there are no results.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
