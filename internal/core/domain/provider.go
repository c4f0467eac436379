package domain

import "sort"

// ProviderID identifies one external service that can be searched.
// The set is closed: every member must have an adapter builder and a
// result projection registered, which is enforced by tests.
type ProviderID string

// Supported providers.
const (
	ProviderGmail          ProviderID = "gmail"
	ProviderGoogleDrive    ProviderID = "google-drive"
	ProviderGoogleCalendar ProviderID = "google-calendar"
	ProviderDropbox        ProviderID = "dropbox"
	ProviderNotion         ProviderID = "notion"
	ProviderSlack          ProviderID = "slack"
	ProviderGitHub         ProviderID = "github"
	ProviderQuickBooks     ProviderID = "quickbooks"
	ProviderProcore        ProviderID = "procore"
)

// ProviderKind groups providers by the kind of data they hold.
type ProviderKind string

// Provider kinds.
const (
	KindMail           ProviderKind = "mail"
	KindDrive          ProviderKind = "drive"
	KindCalendar       ProviderKind = "calendar"
	KindDocs           ProviderKind = "docs"
	KindChat           ProviderKind = "chat"
	KindProjectTracker ProviderKind = "project-tracker"
	KindAccounting     ProviderKind = "accounting"
	KindConstruction   ProviderKind = "construction-management"
)

// AllProviders returns every supported provider in a stable order.
func AllProviders() []ProviderID {
	return []ProviderID{
		ProviderGmail,
		ProviderGoogleDrive,
		ProviderGoogleCalendar,
		ProviderDropbox,
		ProviderNotion,
		ProviderSlack,
		ProviderGitHub,
		ProviderQuickBooks,
		ProviderProcore,
	}
}

// IsValid returns true if the provider is recognised.
func (p ProviderID) IsValid() bool {
	switch p {
	case ProviderGmail, ProviderGoogleDrive, ProviderGoogleCalendar,
		ProviderDropbox, ProviderNotion, ProviderSlack,
		ProviderGitHub, ProviderQuickBooks, ProviderProcore:
		return true
	default:
		return false
	}
}

// Kind returns the data kind held by the provider.
func (p ProviderID) Kind() ProviderKind {
	switch p {
	case ProviderGmail:
		return KindMail
	case ProviderGoogleDrive, ProviderDropbox:
		return KindDrive
	case ProviderGoogleCalendar:
		return KindCalendar
	case ProviderNotion:
		return KindDocs
	case ProviderSlack:
		return KindChat
	case ProviderGitHub:
		return KindProjectTracker
	case ProviderQuickBooks:
		return KindAccounting
	case ProviderProcore:
		return KindConstruction
	default:
		return ""
	}
}

// String returns the string representation.
func (p ProviderID) String() string {
	return string(p)
}

// Description returns a human-readable name for the provider.
func (p ProviderID) Description() string {
	switch p {
	case ProviderGmail:
		return "Gmail"
	case ProviderGoogleDrive:
		return "Google Drive"
	case ProviderGoogleCalendar:
		return "Google Calendar"
	case ProviderDropbox:
		return "Dropbox"
	case ProviderNotion:
		return "Notion"
	case ProviderSlack:
		return "Slack"
	case ProviderGitHub:
		return "GitHub"
	case ProviderQuickBooks:
		return "QuickBooks Online"
	case ProviderProcore:
		return "Procore"
	default:
		return unknownDescription
	}
}

// RequiredMetadata lists the credential metadata keys the provider's
// adapter cannot be constructed without.
func (p ProviderID) RequiredMetadata() []string {
	switch p {
	case ProviderQuickBooks:
		return []string{MetadataRealmID}
	case ProviderProcore:
		return []string{MetadataCompanyID}
	default:
		return nil
	}
}

// ParseProviderID converts a string to a ProviderID.
// Returns ErrUnknownProvider if the value is not in the supported set.
func ParseProviderID(s string) (ProviderID, error) {
	p := ProviderID(s)
	if !p.IsValid() {
		return "", ErrUnknownProvider
	}
	return p, nil
}

// SortProviders sorts ids in place and returns them.
func SortProviders(ids []ProviderID) []ProviderID {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
