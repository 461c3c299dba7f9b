package resume

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/youssef9656/server/pkg/kernel"
)

const (
	// FormField is the multipart field carrying the résumé
	FormField = "cv"

	UploadDir = "uploads/cv"

	DefaultMaxSize int64 = 5 * 1024 * 1024
)

const (
	MimePDF  = "application/pdf"
	MimeDOC  = "application/msword"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var allowedTypes = map[string]string{
	MimePDF:  ".pdf",
	MimeDOC:  ".doc",
	MimeDOCX: ".docx",
}

var generatedName = regexp.MustCompile(`^cv_\d+_`)

// Upload is a received file before it is stored
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// Attachment is the résumé metadata kept on a candidacy
type Attachment struct {
	FileName     kernel.FileName `json:"cvFileName" db:"cv_file_name"`
	Path         string          `json:"cvPath" db:"cv_path"`
	OriginalName string          `json:"cvOriginalName" db:"cv_original_name"`
	Size         int64           `json:"cvSize" db:"cv_size"`
	MimeType     string          `json:"cvMimeType" db:"cv_mime_type"`
}

// ValidateUpload checks presence, declared type and size. maxSize <= 0 means
// DefaultMaxSize.
func ValidateUpload(u *Upload, maxSize int64) error {
	if u == nil || u.FileName == "" {
		return ErrMissingCV()
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	mimeType := normalizeMime(u.ContentType)
	if _, ok := allowedTypes[mimeType]; !ok {
		return ErrInvalidFileType().
			WithDetail("content_type", u.ContentType).
			WithDetail("allowed_types", "pdf, doc, docx")
	}
	if u.Size > maxSize {
		return ErrFileTooLarge().
			WithDetail("file_size", u.Size).
			WithDetail("max_size", maxSize)
	}
	return nil
}

// GenerateName derives the stored name: cv_<unix-ms>_<original base name>
func GenerateName(original string, now time.Time) kernel.FileName {
	base := baseName(original)
	if base == "" {
		base = "cv"
	}
	return kernel.FileName(fmt.Sprintf("cv_%d_%s", now.UnixMilli(), base))
}

// OriginalName recovers the uploaded name from a generated one
func OriginalName(stored kernel.FileName) string {
	return generatedName.ReplaceAllString(string(stored), "")
}

// SanitizeName strips any directory part from a client supplied name
func SanitizeName(requested string) (kernel.FileName, error) {
	base := baseName(requested)
	if base == "" {
		return "", ErrFileNotFound().WithDetail("filename", requested)
	}
	return kernel.FileName(base), nil
}

// ContentTypeFor guesses the MIME type from the stored name's extension
func ContentTypeFor(name kernel.FileName) string {
	ext := strings.ToLower(path.Ext(string(name)))
	for mimeType, e := range allowedTypes {
		if e == ext {
			return mimeType
		}
	}
	return "application/octet-stream"
}

func IsPDF(name kernel.FileName) bool {
	return ContentTypeFor(name) == MimePDF
}

func baseName(name string) string {
	name = strings.ReplaceAll(strings.TrimSpace(name), "\\", "/")
	base := path.Base(name)
	switch base {
	case ".", "..", "/":
		return ""
	}
	return base
}

func normalizeMime(ct string) string {
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
