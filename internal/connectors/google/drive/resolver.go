package drive

// ResolveWebURL builds the web URL for a file from its raw fields.
// Prefers the webViewLink returned by the API, then falls back to the
// generic viewer URL for the file id.
func ResolveWebURL(fields map[string]any) string {
	if webLink, ok := fields[FieldWebLink].(string); ok && webLink != "" {
		return webLink
	}
	if id, ok := fields[FieldFileID].(string); ok && id != "" {
		return "https://drive.google.com/file/d/" + id + "/view"
	}
	return ""
}
