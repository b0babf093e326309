package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// Column width bounds accepted by the width command. The lower bound leaves
// room for one character plus its separating space.
const (
	MinWidth = 2
	MaxWidth = 64
)

// ValidateWidth validates a requested (defsrc) column width.
func ValidateWidth(width int) error {
	if width < MinWidth {
		return New(ErrCodeInvalidWidth, "column width must be at least %d, got %d", MinWidth, width)
	}
	if width > MaxWidth {
		return New(ErrCodeInvalidWidth, "column width must be at most %d, got %d", MaxWidth, width)
	}
	return nil
}

// ValidatePlaceholder validates a repeat placeholder for generated layers.
// The placeholder is emitted verbatim once per key, so it must be a single
// bare token: non-empty, no whitespace, no parentheses, no comment markers.
func ValidatePlaceholder(p string) error {
	if p == "" {
		return New(ErrCodeInvalidPlaceholder, "placeholder cannot be empty")
	}
	if len(p) > 64 {
		return New(ErrCodeInvalidPlaceholder, "placeholder too long (max 64 characters)")
	}
	for _, r := range p {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return New(ErrCodeInvalidPlaceholder, "placeholder cannot contain whitespace or control characters: %q", p)
		}
	}
	for _, pattern := range []string{"(", ")", ";;", "#|", "|#", `"`} {
		if strings.Contains(p, pattern) {
			return New(ErrCodeInvalidPlaceholder, "placeholder contains invalid characters: %q", pattern)
		}
	}
	return nil
}

// layerNameRegex matches names that survive as a single bare word.
var layerNameRegex = regexp.MustCompile(`^[^\s();"#\\][^\s();"]*$`)

// ValidateLayerName validates the name given to a generated (deflayer).
func ValidateLayerName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "layer name cannot be empty")
	}
	if len(name) > 128 {
		return New(ErrCodeInvalidInput, "layer name too long (max 128 characters)")
	}
	if !layerNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid layer name: %q", name)
	}
	return nil
}

// ValidatePath validates a file path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}
