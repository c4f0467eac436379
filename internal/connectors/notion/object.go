package notion

import (
	"strings"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldObjectID       = "object_id"
	FieldObjectType     = "object_type"
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldURL            = "url"
	FieldCreatedTime    = "created_time"
	FieldLastEditedTime = "last_edited_time"
	FieldCreatedBy      = "created_by"
	FieldParentType     = "parent_type"
)

// PageToRawResult converts a page to a raw result.
func PageToRawResult(page *notionapi.Page) domain.RawResult {
	return domain.NewRawResult(domain.ProviderNotion).
		Set(FieldObjectID, string(page.ID)).
		Set(FieldObjectType, string(notionapi.ObjectTypePage)).
		Set(FieldTitle, pageTitle(page)).
		Set(FieldURL, page.URL).
		Set(FieldCreatedTime, page.CreatedTime).
		Set(FieldLastEditedTime, page.LastEditedTime).
		Set(FieldCreatedBy, userName(page.CreatedBy)).
		Set(FieldParentType, string(page.Parent.Type))
}

// DatabaseToRawResult converts a database to a raw result.
func DatabaseToRawResult(db *notionapi.Database) domain.RawResult {
	return domain.NewRawResult(domain.ProviderNotion).
		Set(FieldObjectID, string(db.ID)).
		Set(FieldObjectType, string(notionapi.ObjectTypeDatabase)).
		Set(FieldTitle, plainText(db.Title)).
		Set(FieldDescription, plainText(db.Description)).
		Set(FieldURL, db.URL).
		Set(FieldCreatedTime, db.CreatedTime).
		Set(FieldLastEditedTime, db.LastEditedTime).
		Set(FieldCreatedBy, userName(db.CreatedBy)).
		Set(FieldParentType, string(db.Parent.Type))
}

// pageTitle returns the text of the page's title property. Every page has
// exactly one, whatever its name.
func pageTitle(page *notionapi.Page) string {
	for _, prop := range page.Properties {
		if tp, ok := prop.(*notionapi.TitleProperty); ok {
			return plainText(tp.Title)
		}
	}
	return ""
}

func plainText(parts []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range parts {
		sb.WriteString(rt.PlainText)
	}
	return strings.TrimSpace(sb.String())
}

// userName returns the user's name. Search responses usually carry only
// the user id.
func userName(u notionapi.User) string {
	if u.Name != "" {
		return u.Name
	}
	return string(u.ID)
}
