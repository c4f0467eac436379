package notion

import "strings"

// ResolveWebURL returns the object's url, or the canonical notion.so link
// built from its id.
func ResolveWebURL(fields map[string]any) string {
	if u, ok := fields[FieldURL].(string); ok && u != "" {
		return u
	}
	if id, ok := fields[FieldObjectID].(string); ok && id != "" {
		return "https://www.notion.so/" + strings.ReplaceAll(id, "-", "")
	}
	return ""
}
