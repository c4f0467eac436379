package github

import (
	"fmt"
	"strings"
)

// ResolveWebURL returns the item's html_url, or rebuilds it from the
// repository and number.
func ResolveWebURL(fields map[string]any) string {
	if u, ok := fields[FieldHTMLURL].(string); ok && u != "" {
		return u
	}
	repo, _ := fields[FieldRepository].(string)
	number, _ := fields[FieldNumber].(int64)
	if repo == "" || number == 0 || strings.Count(repo, "/") != 1 {
		return ""
	}
	segment := "issues"
	if kind, _ := fields[FieldKind].(string); kind == KindPullRequest {
		segment = "pull"
	}
	return fmt.Sprintf("https://github.com/%s/%s/%d", repo, segment, number)
}
