package errors

import (
	"strings"
	"unicode"
)

// ValidateID validates a model object identifier.
// IDs are user-visible (they appear in files, URLs, and cache keys), so the
// rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No whitespace
//   - Maximum length of 128 characters
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidInput, "id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "id contains control characters")
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id cannot contain whitespace")
		}
	}

	return nil
}

// ValidateModelPath validates a model file path for safety.
// It prevents path traversal and ensures reasonable path length.
func ValidateModelPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
