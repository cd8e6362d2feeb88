package classification

import (
	"regexp"
	"strings"
)

// nonAlphaSpace matches every character outside the lowercase alphabet and
// whitespace.
var nonAlphaSpace = regexp.MustCompile(`[^a-z\s]`)

// Normalize lowercases the text and deletes every character outside
// [a-z\s]. Whitespace is preserved as-is rather than collapsed, so runs of
// spaces left behind by deleted characters survive. The function is total
// and idempotent; models are trained on exactly this form.
func Normalize(text string) string {
	return nonAlphaSpace.ReplaceAllString(strings.ToLower(text), "")
}
