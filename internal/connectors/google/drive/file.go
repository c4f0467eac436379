package drive

import (
	"strings"

	"google.golang.org/api/drive/v3"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Google Workspace MIME types.
const (
	MimeTypeGoogleDoc    = "application/vnd.google-apps.document"
	MimeTypeGoogleSheet  = "application/vnd.google-apps.spreadsheet"
	MimeTypeGoogleSlides = "application/vnd.google-apps.presentation"
	MimeTypeFolder       = "application/vnd.google-apps.folder"
)

// Raw result fields produced by this adapter.
const (
	FieldFileID       = "file_id"
	FieldTitle        = "title"
	FieldDescription  = "description"
	FieldMimeType     = "mime_type"
	FieldWebLink      = "web_link"
	FieldCreatedTime  = "created_time"
	FieldModifiedTime = "modified_time"
	FieldOwner        = "owner"
	FieldKind         = "kind"
)

// listFields limits the Files.list payload to what the adapter reads.
const listFields = "files(id,name,description,mimeType,webViewLink,createdTime,modifiedTime,owners(displayName,emailAddress))"

// FileToRawResult converts a Drive file to a raw result.
func FileToRawResult(file *drive.File) domain.RawResult {
	return domain.NewRawResult(domain.ProviderGoogleDrive).
		Set(FieldFileID, file.Id).
		Set(FieldTitle, file.Name).
		Set(FieldDescription, file.Description).
		Set(FieldMimeType, file.MimeType).
		Set(FieldWebLink, file.WebViewLink).
		Set(FieldCreatedTime, file.CreatedTime).
		Set(FieldModifiedTime, file.ModifiedTime).
		Set(FieldOwner, ownerName(file)).
		Set(FieldKind, KindOf(file.MimeType))
}

// KindOf returns a short label for a MIME type.
func KindOf(mimeType string) string {
	switch {
	case mimeType == MimeTypeGoogleDoc:
		return "document"
	case mimeType == MimeTypeGoogleSheet:
		return "spreadsheet"
	case mimeType == MimeTypeGoogleSlides:
		return "presentation"
	case mimeType == "application/pdf":
		return "pdf"
	case strings.HasPrefix(mimeType, "image/"):
		return "image"
	case isTextFile(mimeType):
		return "text"
	default:
		return "file"
	}
}

func ownerName(file *drive.File) string {
	for _, o := range file.Owners {
		if o.DisplayName != "" {
			return o.DisplayName
		}
		if o.EmailAddress != "" {
			return o.EmailAddress
		}
	}
	return ""
}

// isTextFile checks if a MIME type is likely text content.
func isTextFile(mimeType string) bool {
	if strings.HasPrefix(mimeType, "text/") {
		return true
	}
	switch mimeType {
	case "application/json", "application/xml", "application/javascript",
		"application/x-yaml", "application/x-sh", "application/sql":
		return true
	}
	return false
}

// searchQuery builds a Drive query for full-text matches, excluding
// folders and trashed files.
func searchQuery(q string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(q)
	return "fullText contains '" + escaped + "' and trashed = false and mimeType != '" + MimeTypeFolder + "'"
}
