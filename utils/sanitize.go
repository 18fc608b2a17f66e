package utils

import "github.com/microcosm-cc/bluemonday"

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips dangerous HTML from member-submitted text, such as feedback
// messages, before it is stored or echoed back on dashboards.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
