package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxLabelLength bounds free text that ends up in the title block.
const maxLabelLength = 120

// ValidateLabel validates free text destined for the drawing (project
// name, drawing title, prepared-by). It rejects control characters because
// DXF group values are newline delimited.
//
// field names the option in the returned message.
func ValidateLabel(field, value string) error {
	if len(value) > maxLabelLength {
		return New(ErrCodeInvalidInput, "%s too long (max %d characters)", field, maxLabelLength)
	}
	for _, r := range value {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s contains invalid control characters", field)
		}
	}
	return nil
}

// ValidateFilename validates an uploaded filename for safety.
// It ensures the filename is a simple basename without path components and
// that its extension is one of exts (case-insensitive, with leading dot).
func ValidateFilename(filename string, exts ...string) error {
	if filename == "" {
		return New(ErrCodeInvalidPath, "filename cannot be empty")
	}

	if len(filename) > 255 {
		return New(ErrCodeInvalidPath, "filename too long (max 255 characters)")
	}

	// Must be a simple filename, not a path
	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidPath, "filename cannot contain path separators")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "filename contains invalid characters")
		}
	}

	if strings.HasPrefix(filename, ".") {
		return New(ErrCodeInvalidPath, "filename cannot be a hidden file")
	}

	if len(exts) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, want := range exts {
		if ext == want {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "unsupported file type %q (want one of: %s)", ext, strings.Join(exts, ", "))
}
