package normalisers

import (
	"github.com/custodia-labs/sercha-federated/internal/connectors/slack"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Slack projects a Slack message. Message timestamps are only unique
// within a channel, so the native id combines both.
func Slack(raw domain.RawResult) (domain.NormalizedResult, error) {
	var nativeID string
	if ts := raw.Text(slack.FieldTS); ts != "" {
		nativeID = raw.Text(slack.FieldChannelID) + "/" + ts
	}
	n, err := newResult(raw, nativeID, slack.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	channel := raw.Text(slack.FieldChannelName)
	n.Title = "Message"
	if channel != "" {
		n.Title = "Message in #" + channel
		n.Tags = []string{"#" + channel}
	}
	n.Content = truncate(stripSlack(raw.Text(slack.FieldText)), MaxContentLength)
	n.Author = firstNonEmpty(raw.Text(slack.FieldUsername), raw.Text(slack.FieldUserID))
	n.CreatedAt = raw.Time(slack.FieldPostedAt)
	setIf(n.Metadata, "channelId", raw.Text(slack.FieldChannelID))
	return n, nil
}
