package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// ValidateFontName validates a font family or file name before it is used to
// build a path inside the font directory. Only simple base names are allowed.
func ValidateFontName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidFont, "font name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidFont, "font name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidFont, "font name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidFont, "font name cannot contain path separators")
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidFont, "font name contains invalid characters: %q", "..")
	}

	return nil
}

// formatIDRegex matches identifiers such as "ig_story" or "1200x628".
var formatIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidateFormatID validates a format identifier. Identifiers become output
// file names in the CLI, so they follow the same rules as base names.
func ValidateFormatID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFormat, "format id cannot be empty")
	}

	if len(id) > 64 {
		return New(ErrCodeInvalidFormat, "format id too long (max 64 characters)")
	}

	if !formatIDRegex.MatchString(id) {
		return New(ErrCodeInvalidFormat, "invalid format id: %q", id)
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
