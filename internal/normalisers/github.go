package normalisers

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-federated/internal/connectors/github"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// GitHub projects an issue or pull request. The content starts with a
// one-line header of author, state and labels, followed by the body as
// plain text.
func GitHub(raw domain.RawResult) (domain.NormalizedResult, error) {
	var nativeID string
	repo := raw.Text(github.FieldRepository)
	number := raw.Text(github.FieldNumber)
	if repo != "" && number != "" && number != "0" {
		nativeID = repo + "#" + number
	}
	n, err := newResult(raw, nativeID, github.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}

	kind := raw.Text(github.FieldKind)
	label := "Issue"
	if kind == github.KindPullRequest {
		label = "PR"
	}
	n.Title = fmt.Sprintf("%s #%s: %s", label, number, raw.Text(github.FieldTitle))
	n.Author = raw.Text(github.FieldAuthor)
	n.CreatedAt = raw.Time(github.FieldCreatedAt)
	n.Tags = raw.Strings(github.FieldLabels)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Author: @%s | State: %s", n.Author, raw.Text(github.FieldState)))
	if len(n.Tags) > 0 {
		sb.WriteString(" | Labels: " + strings.Join(n.Tags, ", "))
	}
	if assignees := raw.Strings(github.FieldAssignees); len(assignees) > 0 {
		sb.WriteString(" | Assignees: @" + strings.Join(assignees, ", @"))
	}
	if body := stripMarkdown(raw.Text(github.FieldBody)); body != "" {
		sb.WriteString("\n" + body)
	}
	n.Content = truncate(sb.String(), MaxContentLength)

	setIf(n.Metadata, "repository", repo)
	setIf(n.Metadata, "state", raw.Text(github.FieldState))
	setIf(n.Metadata, "kind", kind)
	if updated := raw.Time(github.FieldUpdatedAt); updated != nil {
		n.Metadata["updatedAt"] = *updated
	}
	return n, nil
}
