// Package messages holds the tea.Msg types exchanged between TUI views.
package messages

import (
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// ViewType names a screen of the TUI.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewSearch
	ViewHealth
	ViewHelp
	ViewResultDetail
)

var viewNames = map[ViewType]string{
	ViewMenu:         "menu",
	ViewSearch:       "search",
	ViewHealth:       "health",
	ViewHelp:         "help",
	ViewResultDetail: "result_detail",
}

func (v ViewType) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// ViewChanged switches the active screen.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted delivers the envelope of a federated search. Err is set
// only when the search could not run at all; provider failures are listed
// in Response.Failures.
type SearchCompleted struct {
	Response *domain.SearchResponse
	Err      error
}

// ResultSelected opens the detail view for one result.
type ResultSelected struct {
	Result domain.RankedResult
}

// HealthLoaded delivers a provider health snapshot.
type HealthLoaded struct {
	Summary domain.HealthSummary
}

// ErrorOccurred reports an error to the active view's status line.
type ErrorOccurred struct {
	Err error
}

// Quit exits the program.
type Quit struct{}
