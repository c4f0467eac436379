package slack

import "strings"

// ResolveWebURL returns the message permalink, or the archive link built
// from the channel and timestamp.
func ResolveWebURL(fields map[string]any) string {
	if u, ok := fields[FieldPermalink].(string); ok && u != "" {
		return u
	}
	channel, _ := fields[FieldChannelID].(string)
	ts, _ := fields[FieldTS].(string)
	if channel == "" || ts == "" {
		return ""
	}
	return "https://slack.com/archives/" + channel + "/p" + strings.ReplaceAll(ts, ".", "")
}
