package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/custodia-labs/sercha-federated/internal/connectors/rest"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// NewTokenSource wraps a credential bundle for option.WithTokenSource.
func NewTokenSource(b domain.CredentialBundle) oauth2.TokenSource {
	return rest.TokenSource(b)
}

// NewGmailService builds a Gmail client. Passing opts replaces the token
// source entirely, which tests use to point at a fake endpoint.
func NewGmailService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*gmail.Service, error) {
	return gmail.NewService(ctx, clientOptions(ts, opts)...)
}

// NewDriveService builds a Drive client. See NewGmailService for opts.
func NewDriveService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*drive.Service, error) {
	return drive.NewService(ctx, clientOptions(ts, opts)...)
}

// NewCalendarService builds a Calendar client. See NewGmailService for opts.
func NewCalendarService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*calendar.Service, error) {
	return calendar.NewService(ctx, clientOptions(ts, opts)...)
}

func clientOptions(ts oauth2.TokenSource, extra []option.ClientOption) []option.ClientOption {
	if len(extra) > 0 {
		return extra
	}
	return []option.ClientOption{option.WithTokenSource(ts)}
}
