package dropbox

import (
	"net/url"
	"strings"
)

const webRoot = "https://www.dropbox.com"

// ResolveWebURL links to the file in the Dropbox web app. Results without a
// path fall back to the preview page, which only opens for shared files.
func ResolveWebURL(fields map[string]any) string {
	if p, _ := fields[FieldPath].(string); p != "" {
		return webRoot + "/home/" + url.PathEscape(strings.TrimPrefix(p, "/"))
	}
	if id, _ := fields[FieldFileID].(string); id != "" {
		return webRoot + "/preview/" + strings.TrimPrefix(id, "id:")
	}
	return ""
}
