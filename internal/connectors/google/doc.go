// Package google is the plumbing the Gmail, Drive and Calendar adapters
// share: client construction from a credential bundle, per-user rate
// limits and the mapping of googleapi errors onto provider error classes.
//
//	svc, err := google.NewGmailService(ctx, google.NewTokenSource(bundle))
//
// Stored access secrets need the read-only scopes gmail.readonly,
// drive.readonly and calendar.readonly.
package google
