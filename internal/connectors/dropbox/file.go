package dropbox

import (
	"mime"
	"path"
	"strings"
	"time"

	"github.com/dropbox/dropbox-sdk-go-unofficial/v6/dropbox/files"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

// Raw result fields produced by this adapter.
const (
	FieldFileID       = "file_id"
	FieldTitle        = "title"
	FieldPath         = "path"
	FieldParent       = "parent"
	FieldSize         = "size"
	FieldModifiedTime = "modified_time"
	FieldRev          = "rev"
	FieldContentHash  = "content_hash"
	FieldMimeType     = "mime_type"
)

// FileToRawResult converts Dropbox file metadata to a raw result.
func FileToRawResult(file *files.FileMetadata) domain.RawResult {
	return domain.NewRawResult(domain.ProviderDropbox).
		Set(FieldFileID, file.Id).
		Set(FieldTitle, file.Name).
		Set(FieldPath, file.PathDisplay).
		Set(FieldParent, parentFolder(file)).
		Set(FieldSize, file.Size).
		Set(FieldModifiedTime, file.ServerModified.UTC().Format(time.RFC3339)).
		Set(FieldRev, file.Rev).
		Set(FieldContentHash, file.ContentHash).
		Set(FieldMimeType, mimeType(file.Name))
}

// parentFolder returns the display path of the containing folder, or the
// empty string for files at the root.
func parentFolder(file *files.FileMetadata) string {
	if file.PathDisplay == "" {
		return ""
	}
	dir := path.Dir(file.PathDisplay)
	if dir == "/" || dir == "." {
		return ""
	}
	return dir
}

// officeTypes covers extensions the builtin mime table does not know.
var officeTypes = map[string]string{
	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".ppt":  "application/vnd.ms-powerpoint",
	".pptx": "application/vnd.openxmlformats-officedocument.presentationml.presentation",
	".key":  "application/vnd.apple.keynote",
	".zip":  "application/zip",
}

// mimeType guesses a MIME type from the file extension, without parameters.
func mimeType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	if mt, ok := officeTypes[ext]; ok {
		return mt
	}
	if mt, _, err := mime.ParseMediaType(mime.TypeByExtension(ext)); err == nil {
		return mt
	}
	return "application/octet-stream"
}
