package validation

import (
	"fmt"
	"path"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxFileSize caps uploads at 5 MiB.
	MaxFileSize int64 = 5 << 20
	// MaxFileNameLength caps the file name in characters.
	MaxFileNameLength = 255
)

// allowedFileTypes is the closed MIME type to extension table.
var allowedFileTypes = map[string][]string{
	"image/jpeg":      {".jpg", ".jpeg"},
	"image/png":       {".png"},
	"image/gif":       {".gif"},
	"image/webp":      {".webp"},
	"application/pdf": {".pdf"},
	"text/plain":      {".txt"},
	"text/csv":        {".csv"},
}

// FileInput describes an upload as declared by the client.
type FileInput struct {
	Name     string
	Size     int64
	MIMEType string
}

// AllowedExtensions returns the accepted extensions for mimeType, or nil when
// the type is not allowed.
func AllowedExtensions(mimeType string) []string {
	exts, ok := allowedFileTypes[strings.ToLower(strings.TrimSpace(mimeType))]
	if !ok {
		return nil
	}
	return slices.Clone(exts)
}

// ValidateFile checks size, declared type, extension and name. An unknown type
// and a mismatched extension are reported as separate errors.
func ValidateFile(file *FileInput) Result {
	if file == nil {
		return invalid("File is required")
	}

	result := NewResult()
	name := file.Name
	if strings.TrimSpace(name) == "" {
		result.AddError("File name is required")
	} else {
		if utf8.RuneCountInString(name) > MaxFileNameLength {
			result.AddError("File name cannot exceed 255 characters")
		}
		if strings.ContainsAny(name, `/\`) || strings.ContainsFunc(name, unicode.IsControl) {
			result.AddError("File name contains invalid characters")
		}
	}

	switch {
	case file.Size <= 0:
		result.AddError("File is empty")
	case file.Size > MaxFileSize:
		result.AddError("File size cannot exceed 5 MB")
	}

	mimeType := strings.ToLower(strings.TrimSpace(file.MIMEType))
	expected, known := allowedFileTypes[mimeType]
	if !known {
		if mimeType == "" {
			result.AddError("File type is required")
		} else {
			result.AddError(fmt.Sprintf("File type %q is not allowed", mimeType))
		}
	}

	ext := strings.ToLower(path.Ext(name))
	if !slices.Contains(expected, ext) {
		if ext == "" {
			result.AddError("File extension does not match its type")
		} else {
			result.AddError(fmt.Sprintf("File extension %q does not match its type", ext))
		}
	}
	return result
}
