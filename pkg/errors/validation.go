package errors

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// ValidateGridID validates a grid identifier used to namespace persisted
// column state. Grid IDs end up in file names, Redis keys and URL paths, so
// the rules are intentionally conservative:
//   - No empty IDs
//   - No control characters
//   - No path traversal sequences (.., //, etc.)
//   - No null bytes
//   - Maximum length of 128 characters
func ValidateGridID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidGridID, "grid id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidGridID, "grid id too long (max 128 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGridID, "grid id contains invalid control characters")
		}
	}

	dangerousPatterns := []string{
		"..",   // Parent directory
		"/",    // Path separator
		"\x00", // Null byte
		"\\",   // Backslash (Windows path)
	}

	for _, pattern := range dangerousPatterns {
		if strings.Contains(id, pattern) {
			return New(ErrCodeInvalidGridID, "grid id contains invalid characters: %q", pattern)
		}
	}

	if !gridIDRegex.MatchString(id) {
		return New(ErrCodeInvalidGridID, "invalid grid id: %q", id)
	}

	return nil
}

// gridIDRegex matches grid ids made of letters, digits, dots, dashes, underscores and colons.
var gridIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// percentRegex matches the literal "<number>%" width form.
var percentRegex = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*%\s*$`)

// ParsePercent parses the "<number>%" width form and returns the number.
func ParsePercent(s string) (float64, error) {
	m := percentRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, New(ErrCodeInvalidWidth, "width must be a pixel number or \"<number>%%\", got %q", s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, Wrap(ErrCodeInvalidWidth, err, "parse percentage %q", s)
	}
	return v, nil
}

// ValidatePixels rejects negative or non-finite pixel widths.
func ValidatePixels(px float64) error {
	if px < 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		return New(ErrCodeInvalidWidth, "width must be a non-negative number, got %v", px)
	}
	return nil
}

// ValidateContainerWidth validates the container width passed to a layout pass.
func ValidateContainerWidth(px float64) error {
	if px < 0 || math.IsNaN(px) || math.IsInf(px, 0) {
		return New(ErrCodeInvalidInput, "container width must be a non-negative number, got %v", px)
	}
	return nil
}
