package github

import (
	"strings"

	gh "github.com/google/go-github/v80/github"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldIssueID    = "issue_id"
	FieldNumber     = "number"
	FieldTitle      = "title"
	FieldBody       = "body"
	FieldState      = "state"
	FieldAuthor     = "author"
	FieldRepository = "repository"
	FieldHTMLURL    = "html_url"
	FieldLabels     = "labels"
	FieldAssignees  = "assignees"
	FieldKind       = "kind"
	FieldComments   = "comments"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
)

// Values of FieldKind.
const (
	KindIssue       = "issue"
	KindPullRequest = "pull_request"
)

const repoAPIPrefix = "/repos/"

// IssueToRawResult converts a search hit to a raw result.
func IssueToRawResult(issue *gh.Issue) domain.RawResult {
	kind := KindIssue
	if issue.IsPullRequest() {
		kind = KindPullRequest
	}

	labels := make([]string, 0, len(issue.Labels))
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	assignees := make([]string, 0, len(issue.Assignees))
	for _, assignee := range issue.Assignees {
		assignees = append(assignees, assignee.GetLogin())
	}

	return domain.NewRawResult(domain.ProviderGitHub).
		Set(FieldIssueID, issue.GetID()).
		Set(FieldNumber, int64(issue.GetNumber())).
		Set(FieldTitle, issue.GetTitle()).
		Set(FieldBody, issue.GetBody()).
		Set(FieldState, issue.GetState()).
		Set(FieldAuthor, issue.GetUser().GetLogin()).
		Set(FieldRepository, repositoryName(issue.GetRepositoryURL())).
		Set(FieldHTMLURL, issue.GetHTMLURL()).
		Set(FieldLabels, labels).
		Set(FieldAssignees, assignees).
		Set(FieldKind, kind).
		Set(FieldComments, int64(issue.GetComments())).
		Set(FieldCreatedAt, issue.GetCreatedAt().Time).
		Set(FieldUpdatedAt, issue.GetUpdatedAt().Time)
}

// repositoryName extracts owner/repo from an API repository URL such as
// https://api.github.com/repos/owner/repo.
func repositoryName(apiURL string) string {
	i := strings.Index(apiURL, repoAPIPrefix)
	if i < 0 {
		return ""
	}
	return strings.Trim(apiURL[i+len(repoAPIPrefix):], "/")
}
