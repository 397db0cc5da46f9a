package utils

import "github.com/microcosm-cc/bluemonday"

// Activity type labels are free-form user input rendered back in clients;
// the strict policy strips every tag rather than allowlisting any.
var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips HTML from user supplied text to prevent stored XSS.
func Sanitize(input string) string {
	return sanitizer.Sanitize(input)
}
