package normalisers

import (
	"path"

	"github.com/custodia-labs/sercha-federated/internal/connectors/dropbox"
	"github.com/custodia-labs/sercha-federated/internal/connectors/notion"
	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Dropbox projects a Dropbox file. Dropbox reports no creation time, so
// the server modification time stands in for it.
func Dropbox(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(dropbox.FieldFileID), dropbox.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	p := raw.Text(dropbox.FieldPath)
	n.Title = firstNonEmpty(raw.Text(dropbox.FieldTitle), path.Base(p))
	n.Content = p
	n.CreatedAt = raw.Time(dropbox.FieldModifiedTime)
	setIf(n.Metadata, "mimeType", raw.Text(dropbox.FieldMimeType))
	setIf(n.Metadata, "folder", raw.Text(dropbox.FieldParent))
	if size, ok := raw.Fields[dropbox.FieldSize].(uint64); ok {
		n.Metadata["size"] = size
	}
	return n, nil
}

// Notion projects a Notion page or database.
func Notion(raw domain.RawResult) (domain.NormalizedResult, error) {
	n, err := newResult(raw, raw.Text(notion.FieldObjectID), notion.ResolveWebURL(raw.Fields))
	if err != nil {
		return n, err
	}
	objectType := raw.Text(notion.FieldObjectType)
	n.Title = firstNonEmpty(raw.Text(notion.FieldTitle), "Untitled")
	n.Content = truncate(firstNonEmpty(raw.Text(notion.FieldDescription), objectType), MaxContentLength)
	n.Author = raw.Text(notion.FieldCreatedBy)
	n.CreatedAt = raw.Time(notion.FieldCreatedTime)
	if objectType != "" {
		n.Tags = []string{objectType}
	}
	if edited := raw.Time(notion.FieldLastEditedTime); edited != nil {
		n.Metadata["lastEditedTime"] = *edited
	}
	return n, nil
}
