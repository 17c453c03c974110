package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxNodeIDLength bounds identifiers coming from tree files and HTTP bodies.
const maxNodeIDLength = 256

// ValidateNodeID validates a node identifier supplied by a tree document.
// Identifiers are echoed into SVG attributes, DOT sources and cache keys, so
// the rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No double quotes or angle brackets
//   - Maximum length of 256 characters
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "node id cannot be empty")
	}

	if len(id) > maxNodeIDLength {
		return New(ErrCodeInvalidTree, "node id too long (max %d characters)", maxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidTree, "node id contains invalid control characters")
		}
	}

	if strings.ContainsAny(id, "\"<>") {
		return New(ErrCodeInvalidTree, "node id contains invalid characters: %q", id)
	}

	return nil
}

// nameRegex matches registry names such as layout tags and output formats.
var nameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{0,31}$`)

// ValidateName validates a lower-case registry name (layout tag, format,
// palette name). It is used before a name is looked up or echoed back.
func ValidateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if !nameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid name: %q", name)
	}
	return nil
}
