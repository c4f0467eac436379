package domain

import (
	"fmt"
	"time"
)

// Metadata keys carried on credential bundles.
const (
	// MetadataRealmID is the QuickBooks company (realm) identifier.
	MetadataRealmID = "realm_id"
	// MetadataCompanyID is the Procore company identifier.
	MetadataCompanyID = "company_id"
	// MetadataTeamID is the Slack workspace identifier.
	MetadataTeamID = "team_id"
	// MetadataAccount is the user's email or login on the provider.
	MetadataAccount = "account"
)

const redacted = "[REDACTED]"

// CredentialBundle stores the secrets needed to call one provider on behalf
// of one user. There is at most one bundle per (UserID, Provider).
//
// Bundles are written by the OAuth callback flow and are read-only to the
// search engine. The secrets are opaque strings and must never be logged;
// String, GoString and Format redact them.
type CredentialBundle struct {
	// UserID owns the bundle.
	UserID string `json:"user_id"`
	// Provider is the service these secrets authenticate against.
	Provider ProviderID `json:"provider"`
	// AccessSecret is the bearer token for API access.
	AccessSecret string `json:"access_secret"`
	// RefreshSecret is used by the OAuth collaborator to mint new access secrets.
	RefreshSecret string `json:"refresh_secret,omitempty"`
	// Metadata holds provider-specific values such as tenant or company ids.
	Metadata map[string]string `json:"metadata,omitempty"`
	// ExpiresAt is when the access secret expires, if known.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	// UpdatedAt is when the bundle was last written.
	UpdatedAt time.Time `json:"updated_at"`
	// Invalid is set by validation when a secret is missing.
	Invalid bool `json:"-"`
}

// HasSecrets returns true if both the access and refresh secrets are present.
func (b CredentialBundle) HasSecrets() bool {
	return b.AccessSecret != "" && b.RefreshSecret != ""
}

// IsExpired returns true if the access secret has a known expiry in the past.
func (b CredentialBundle) IsExpired() bool {
	if b.ExpiresAt == nil || b.ExpiresAt.IsZero() {
		return false
	}
	return time.Now().After(*b.ExpiresAt)
}

// MetadataValue returns a metadata value or the empty string.
func (b CredentialBundle) MetadataValue(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}

// String returns a log-safe description of the bundle.
func (b CredentialBundle) String() string {
	return fmt.Sprintf("CredentialBundle{user=%s provider=%s access=%s refresh=%s invalid=%t}",
		b.UserID, b.Provider, mask(b.AccessSecret), mask(b.RefreshSecret), b.Invalid)
}

// GoString keeps %#v log-safe.
func (b CredentialBundle) GoString() string {
	return b.String()
}

// Format keeps every verb log-safe, including %+v.
func (b CredentialBundle) Format(f fmt.State, _ rune) {
	_, _ = fmt.Fprint(f, b.String())
}

func mask(secret string) string {
	if secret == "" {
		return "<empty>"
	}
	return redacted
}

// CredentialSet is the result of resolving one user's credentials.
type CredentialSet struct {
	// UserID the set was resolved for.
	UserID string
	// Bundles keyed by provider. At most one per provider.
	Bundles map[ProviderID]CredentialBundle
}

// NewCredentialSet creates an empty set for a user.
func NewCredentialSet(userID string) *CredentialSet {
	return &CredentialSet{
		UserID:  userID,
		Bundles: make(map[ProviderID]CredentialBundle),
	}
}

// Get returns the bundle for a provider.
func (s *CredentialSet) Get(p ProviderID) (CredentialBundle, bool) {
	b, ok := s.Bundles[p]
	return b, ok
}

// Providers returns the providers present in the set, sorted.
func (s *CredentialSet) Providers() []ProviderID {
	ids := make([]ProviderID, 0, len(s.Bundles))
	for p := range s.Bundles {
		ids = append(ids, p)
	}
	return SortProviders(ids)
}

// Len returns the number of bundles.
func (s *CredentialSet) Len() int {
	return len(s.Bundles)
}
