package errors

import (
	"strings"
	"unicode"
)

const (
	// MaxPresentationBytes bounds the size of presentation text accepted by the API.
	MaxPresentationBytes = 1 << 20

	// MaxRelatorLength bounds the letters of one relator after exponents
	// are expanded.
	MaxRelatorLength = 1 << 16

	// MaxPresentationLetters bounds the expanded letters of all relators.
	MaxPresentationLetters = 1 << 20
)

// ValidatePresentationText validates raw presentation text before parsing.
//
// The validation rules are intentionally conservative:
//   - No empty input
//   - No null bytes
//   - Maximum length of MaxPresentationBytes
func ValidatePresentationText(text string) error {
	if strings.TrimSpace(text) == "" {
		return New(ErrCodeInvalidPresentation, "presentation cannot be empty")
	}
	if len(text) > MaxPresentationBytes {
		return New(ErrCodeInvalidPresentation, "presentation too large (max %d bytes)", MaxPresentationBytes)
	}
	if strings.ContainsRune(text, '\x00') {
		return New(ErrCodeInvalidPresentation, "presentation contains null bytes")
	}
	return nil
}

// ValidateOutputPath validates a file path supplied for output.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - Must not name a directory (trailing separator)
func ValidateOutputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasSuffix(path, "/") || strings.HasSuffix(path, "\\") {
		return New(ErrCodeInvalidPath, "path must name a file, not a directory")
	}

	return nil
}
