package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// selectorRegex matches the selector subset curvearrow resolves: a
// comma-separated list of compounds made of an optional tag followed by any
// number of #id and .class parts.
var selectorRegex = regexp.MustCompile(`^\s*[A-Za-z*]?[A-Za-z0-9_-]*((#|\.)[A-Za-z_-][A-Za-z0-9_-]*)*\s*(,\s*[A-Za-z*]?[A-Za-z0-9_-]*((#|\.)[A-Za-z_-][A-Za-z0-9_-]*)*\s*)*$`)

// ValidateSelector checks that a selector is non-empty and uses only the
// supported syntax (tag, #id, .class, comma lists).
func ValidateSelector(sel string) error {
	if strings.TrimSpace(sel) == "" {
		return New(ErrCodeInvalidSelector, "selector cannot be empty")
	}

	const maxSelectorLength = 256
	if len(sel) > maxSelectorLength {
		return New(ErrCodeInvalidSelector, "selector too long (max %d characters)", maxSelectorLength)
	}

	for _, r := range sel {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSelector, "selector contains invalid control characters")
		}
	}

	for _, part := range strings.Split(sel, ",") {
		if strings.TrimSpace(part) == "" {
			return New(ErrCodeInvalidSelector, "selector list has an empty entry: %q", sel)
		}
	}

	if !selectorRegex.MatchString(sel) {
		return New(ErrCodeInvalidSelector, "unsupported selector: %q", sel)
	}

	return nil
}

// ValidatePath validates a file path given on the command line or in a
// config file.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
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

	return nil
}

// validExtensions lists the output formats curvearrow writes.
var validExtensions = map[string]bool{".png": true, ".svg": true, ".json": true}

// ValidateOutputPath validates an output path and its format extension.
func ValidateOutputPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !validExtensions[ext] {
		return New(ErrCodeInvalidFormat, "unsupported output extension %q (must be .png, .svg or .json)", ext)
	}
	return nil
}
