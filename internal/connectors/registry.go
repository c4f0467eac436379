package connectors

import (
	"github.com/custodia-labs/sercha-federated/internal/connectors/dropbox"
	"github.com/custodia-labs/sercha-federated/internal/connectors/github"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/calendar"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/drive"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/gmail"
	"github.com/custodia-labs/sercha-federated/internal/connectors/notion"
	"github.com/custodia-labs/sercha-federated/internal/connectors/procore"
	"github.com/custodia-labs/sercha-federated/internal/connectors/quickbooks"
	"github.com/custodia-labs/sercha-federated/internal/connectors/slack"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
	"github.com/custodia-labs/sercha-federated/internal/core/ports/driven"
)

// WebURLResolver rebuilds a browser link from a raw result's fields.
type WebURLResolver func(fields map[string]any) string

// Builders returns the adapter builder for every supported provider.
func Builders() map[domain.ProviderID]driven.AdapterBuilder {
	return map[domain.ProviderID]driven.AdapterBuilder{
		domain.ProviderGmail:          gmail.New,
		domain.ProviderGoogleDrive:    drive.New,
		domain.ProviderGoogleCalendar: calendar.New,
		domain.ProviderDropbox:        dropbox.New,
		domain.ProviderNotion:         notion.New,
		domain.ProviderSlack:          slack.New,
		domain.ProviderGitHub:         github.New,
		domain.ProviderQuickBooks:     quickbooks.New,
		domain.ProviderProcore:        procore.New,
	}
}

// WebURLResolvers returns the link resolver for every supported provider.
func WebURLResolvers() map[domain.ProviderID]WebURLResolver {
	return map[domain.ProviderID]WebURLResolver{
		domain.ProviderGmail:          gmail.ResolveWebURL,
		domain.ProviderGoogleDrive:    drive.ResolveWebURL,
		domain.ProviderGoogleCalendar: calendar.ResolveWebURL,
		domain.ProviderDropbox:        dropbox.ResolveWebURL,
		domain.ProviderNotion:         notion.ResolveWebURL,
		domain.ProviderSlack:          slack.ResolveWebURL,
		domain.ProviderGitHub:         github.ResolveWebURL,
		domain.ProviderQuickBooks:     quickbooks.ResolveWebURL,
		domain.ProviderProcore:        procore.ResolveWebURL,
	}
}
