package normalisers

import (
	"html"
	"regexp"
	"strings"
)

// Pre-compiled regular expressions for HTML parsing performance.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

// Pre-compiled regular expressions for markdown stripping.
var (
	codeBlock    = regexp.MustCompile("(?s)```.*?```")
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	mdImages     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	mdLinks      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	mdHeadings   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	mdBlockquote = regexp.MustCompile(`(?m)^>\s*`)
	mdRule       = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	mdList       = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	mdNumbered   = regexp.MustCompile(`(?m)^\s*\d+\.\s+`)
	mdEmphasis   = regexp.MustCompile(`(\*\*|__|\*|~~)`)
)

// stripHTML removes HTML tags and returns readable text, one line per block.
// Plain text passes through with entities decoded.
func stripHTML(content string) string {
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, "")

	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")
	return joinLines(content)
}

// stripMarkdown removes common markdown formatting for plain text content.
// Fenced code is dropped; inline code keeps its text.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = mdImages.ReplaceAllString(content, "")
	content = mdLinks.ReplaceAllString(content, "$1")
	content = mdHeadings.ReplaceAllString(content, "")
	content = mdBlockquote.ReplaceAllString(content, "")
	content = mdRule.ReplaceAllString(content, "")
	content = mdList.ReplaceAllString(content, "")
	content = mdNumbered.ReplaceAllString(content, "")
	content = mdEmphasis.ReplaceAllString(content, "")
	return joinLines(content)
}

// slackMarkup matches <url|label>, <@U123> and <#C123|name> escapes.
var slackMarkup = regexp.MustCompile(`<([^>|]+)(?:\|([^>]+))?>`)

// stripSlack renders Slack message markup as plain text.
func stripSlack(content string) string {
	content = slackMarkup.ReplaceAllStringFunc(content, func(m string) string {
		parts := slackMarkup.FindStringSubmatch(m)
		target, label := parts[1], parts[2]
		switch {
		case label == "":
			return target
		case strings.HasPrefix(target, "#"):
			return "#" + label
		default:
			return label
		}
	})
	return joinLines(html.UnescapeString(content))
}

// joinLines trims every line and drops empty ones.
func joinLines(content string) string {
	lines := strings.Split(content, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
