package gmail

import (
	"strings"

	"google.golang.org/api/gmail/v1"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldMessageID    = "message_id"
	FieldThreadID     = "thread_id"
	FieldSubject      = "subject"
	FieldFrom         = "from"
	FieldTo           = "to"
	FieldSnippet      = "snippet"
	FieldLabels       = "labels"
	FieldInternalDate = "internal_date"
)

// metadataHeaders are the headers requested with Format("metadata").
var metadataHeaders = []string{"Subject", "From", "To"}

// MessageToRawResult converts a Gmail message fetched in metadata format.
func MessageToRawResult(msg *gmail.Message) domain.RawResult {
	return domain.NewRawResult(domain.ProviderGmail).
		Set(FieldMessageID, msg.Id).
		Set(FieldThreadID, msg.ThreadId).
		Set(FieldSubject, headerValue(msg, "Subject")).
		Set(FieldFrom, headerValue(msg, "From")).
		Set(FieldTo, headerValue(msg, "To")).
		Set(FieldSnippet, msg.Snippet).
		Set(FieldLabels, msg.LabelIds).
		Set(FieldInternalDate, msg.InternalDate)
}

// headerValue returns the first header with the given name.
func headerValue(msg *gmail.Message, name string) string {
	if msg.Payload == nil {
		return ""
	}
	for _, h := range msg.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// isSpamOrTrash checks if the message has spam or trash labels.
func isSpamOrTrash(labels []string) bool {
	for _, label := range labels {
		if label == "SPAM" || label == "TRASH" {
			return true
		}
	}
	return false
}
