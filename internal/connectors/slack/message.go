package slack

import (
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldTS          = "ts"
	FieldText        = "text"
	FieldUserID      = "user_id"
	FieldUsername    = "username"
	FieldChannelID   = "channel_id"
	FieldChannelName = "channel_name"
	FieldPermalink   = "permalink"
	FieldPostedAt    = "posted_at"
	FieldTeamID      = "team_id"
)

type searchResponse struct {
	OK       bool   `json:"ok"`
	Error    string `json:"error"`
	Messages struct {
		Total   int            `json:"total"`
		Matches []messageMatch `json:"matches"`
	} `json:"messages"`
}

type messageMatch struct {
	TS        string `json:"ts"`
	Text      string `json:"text"`
	User      string `json:"user"`
	Username  string `json:"username"`
	Permalink string `json:"permalink"`
	Team      string `json:"team"`
	Channel   struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"channel"`
}

// messageToRawResult converts a search match to a raw result.
func messageToRawResult(m messageMatch) domain.RawResult {
	raw := domain.NewRawResult(domain.ProviderSlack).
		Set(FieldTS, m.TS).
		Set(FieldText, m.Text).
		Set(FieldUserID, m.User).
		Set(FieldUsername, m.Username).
		Set(FieldChannelID, m.Channel.ID).
		Set(FieldChannelName, m.Channel.Name).
		Set(FieldPermalink, m.Permalink).
		Set(FieldTeamID, m.Team)
	if posted, ok := parseTS(m.TS); ok {
		raw = raw.Set(FieldPostedAt, posted)
	}
	return raw
}

// parseTS converts a Slack message timestamp ("1712000000.000100") to a
// time. The fractional part is microseconds and doubles as a sequence.
func parseTS(ts string) (time.Time, bool) {
	secPart, fracPart, _ := strings.Cut(ts, ".")
	sec, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || sec <= 0 {
		return time.Time{}, false
	}
	var usec int64
	if fracPart != "" {
		if usec, err = strconv.ParseInt(fracPart, 10, 64); err != nil {
			return time.Time{}, false
		}
	}
	return time.Unix(sec, usec*int64(time.Microsecond)).UTC(), true
}
