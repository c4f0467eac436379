package gmail

// ResolveWebURL builds the web URL for a message from its raw fields.
// message_id -> https://mail.google.com/mail/u/0/#all/{id}
func ResolveWebURL(fields map[string]any) string {
	if id, ok := fields[FieldMessageID].(string); ok && id != "" {
		return "https://mail.google.com/mail/u/0/#all/" + id
	}
	return ""
}
