package errors

import (
	"strings"
	"unicode"
)

const maxIDLength = 256

// ValidateNodeID validates a node identifier taken from user input.
//
// Node IDs end up in SVG element IDs, DOT source and storage keys, so the
// rules are conservative:
//   - No empty IDs
//   - No control characters or whitespace
//   - No quotes or angle brackets
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "node id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id %q contains whitespace or control characters", id)
		}
	}
	if strings.ContainsAny(id, `"'<>`) {
		return New(ErrCodeInvalidInput, "node id %q contains quotes or angle brackets", id)
	}
	return nil
}

// ValidateCategory validates a category key. The empty key is valid and
// selects every record.
func ValidateCategory(key string) error {
	if len(key) > maxIDLength {
		return New(ErrCodeInvalidInput, "category too long (max %d characters)", maxIDLength)
	}
	for _, r := range key {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "category contains invalid control characters")
		}
	}
	return nil
}
