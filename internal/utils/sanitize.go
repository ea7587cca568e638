package utils

import (
	"github.com/microcosm-cc/bluemonday"
)

var ugcPolicy = bluemonday.UGCPolicy()

// Sanitize strips dangerous markup from user-submitted content before it
// is stored. Bodies are served back verbatim to API clients.
func Sanitize(s string) string {
	return ugcPolicy.Sanitize(s)
}
