package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsMarkup(t *testing.T) {
	cases := map[string]string{
		"read":                          "read",
		"<b>read</b>":                   "read",
		`<script>alert("x")</script>`:   "",
		`<a href="http://x">flash</a>s`: "flashs",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), "input %q", in)
	}
}
