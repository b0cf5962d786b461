package validation

import (
	"regexp"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy

	controlChars    = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

// SanitizeHTML strips every tag from input, escapes what remains and drops
// control characters. Use it for server supplied strings that end up in views.
func SanitizeHTML(input string) string {
	if input == "" {
		return ""
	}
	cleaned := htmlSanitizer().Sanitize(input)
	cleaned = controlChars.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// SanitizeFilename reduces name to a safe basename: traversal sequences and
// separators are removed, only [a-zA-Z0-9._-] survive, and the result is
// capped at MaxFileNameLength.
func SanitizeFilename(name string) string {
	cleaned := strings.NewReplacer("..", "", "/", "", `\`, "").Replace(name)
	cleaned = unsafeNameChars.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return "file"
	}
	if len(cleaned) > MaxFileNameLength {
		cleaned = cleaned[:MaxFileNameLength]
	}
	return cleaned
}

func htmlSanitizer() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}
