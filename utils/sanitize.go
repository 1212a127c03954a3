package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy = bluemonday.StrictPolicy()
	ugcPolicy    = bluemonday.UGCPolicy()
)

// SanitizePlain strips every tag and returns plain text, not HTML.
// Used for comments.
func SanitizePlain(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// SanitizeRich keeps the formatting subset allowed in user generated content.
// Input an HTML parser reads as text alone is stored as sent.
func SanitizeRich(s string) string {
	s = strings.TrimSpace(s)
	if isPlainText(s) {
		return s
	}
	return strings.TrimSpace(ugcPolicy.Sanitize(s))
}

func isPlainText(s string) bool {
	return html.UnescapeString(strictPolicy.Sanitize(s)) == s
}
