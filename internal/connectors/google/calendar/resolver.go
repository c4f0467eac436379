package calendar

// ResolveWebURL returns the event's htmlLink. Calendar web URLs embed an
// encoded event id that cannot be rebuilt from the raw id alone.
func ResolveWebURL(fields map[string]any) string {
	if htmlLink, ok := fields[FieldHTMLLink].(string); ok && htmlLink != "" {
		return htmlLink
	}
	return ""
}
