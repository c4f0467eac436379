package procore

// AppURL is the Procore web app root.
const AppURL = "https://app.procore.com/"

// ResolveWebURL links to the project's home page.
func ResolveWebURL(fields map[string]any) string {
	if id, ok := fields[FieldProjectID].(string); ok && id != "" && id != "0" {
		return AppURL + id + "/project/home"
	}
	return ""
}
