package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips all HTML from user supplied text such as display names.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
