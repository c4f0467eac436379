package normalisers

import (
	"net/mail"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/connectors/google/calendar"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/drive"
	"github.com/custodia-labs/sercha-federated/internal/connectors/google/gmail"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

const noSubject = "(no subject)"

// Gmail projects a Gmail message.
func Gmail(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(gmail.FieldMessageID), gmail.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	n.Title = firstNonEmpty(raw.Text(gmail.FieldSubject), noSubject)
	n.Content = truncate(stripHTML(raw.Text(gmail.FieldSnippet)), MaxContentLength)
	n.Author = senderName(raw.Text(gmail.FieldFrom))
	n.CreatedAt = raw.Time(gmail.FieldInternalDate)
	n.Tags = raw.Strings(gmail.FieldLabels)
	setIf(n.Metadata, "threadId", raw.Text(gmail.FieldThreadID))
	setIf(n.Metadata, "to", raw.Text(gmail.FieldTo))
	return n, nil
}

// senderName returns the display name of a From header, or the address
// when there is none. Unparseable headers are returned as is.
func senderName(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return firstNonEmpty(addr.Name, addr.Address)
}

// Drive projects a Google Drive file.
func Drive(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(drive.FieldFileID), drive.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	kind := raw.Text(drive.FieldKind)
	n.Title = raw.Text(drive.FieldTitle)
	n.Content = truncate(firstNonEmpty(stripHTML(raw.Text(drive.FieldDescription)), kind), MaxContentLength)
	n.Author = raw.Text(drive.FieldOwner)
	n.CreatedAt = raw.Time(drive.FieldCreatedTime)
	if kind != "" {
		n.Tags = []string{kind}
	}
	setIf(n.Metadata, "mimeType", raw.Text(drive.FieldMimeType))
	setIf(n.Metadata, "modifiedTime", raw.Text(drive.FieldModifiedTime))
	return n, nil
}

// Calendar projects a Google Calendar event. The creation time falls back
// to the event start.
func Calendar(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(calendar.FieldEventID), calendar.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	n.Title = firstNonEmpty(raw.Text(calendar.FieldTitle), "(untitled event)")
	n.Content = truncate(stripHTML(raw.Text(calendar.FieldContent)), MaxContentLength)
	n.Author = raw.Text(calendar.FieldOrganiser)
	n.CreatedAt = raw.Time(calendar.FieldCreated)
	if n.CreatedAt == nil {
		n.CreatedAt = raw.Time(calendar.FieldStartTime)
	}
	setIf(n.Metadata, "start", raw.Text(calendar.FieldStartTime))
	setIf(n.Metadata, "end", raw.Text(calendar.FieldEndTime))
	setIf(n.Metadata, "location", raw.Text(calendar.FieldLocation))
	setIf(n.Metadata, "attendees", raw.Strings(calendar.FieldAttendees))
	return n, nil
}
