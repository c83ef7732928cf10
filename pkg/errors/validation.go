package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds leaf, group and document identifiers.
const maxIDLength = 256

// ValidateID validates an identifier of a leaf, group or stored document.
//
// The rules keep identifiers safe to embed in DOT output, file names and
// URLs:
//   - No empty identifiers
//   - Maximum length of 256 characters
//   - No control characters or null bytes
//   - No quotes, backslashes or path separators
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "identifier cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidID, "identifier too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "identifier contains invalid control characters")
		}
	}

	if i := strings.IndexAny(id, "\"\\/"); i >= 0 {
		return New(ErrCodeInvalidID, "identifier contains invalid character %q", id[i])
	}

	return nil
}
