package textproc

import (
	"regexp"
	"strings"
)

var (
	missingSpaceRe  = regexp.MustCompile(`([.!?])(` + letter + `)`)
	commaColonGapRe = regexp.MustCompile(`([,:])\s+`)
)

// FormatFinalText normalizes spacing around punctuation and trims the result.
// Applying it to its own output returns the same string.
func FormatFinalText(text string) string {
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	text = missingSpaceRe.ReplaceAllString(text, "$1 $2")
	text = commaColonGapRe.ReplaceAllString(text, "$1 ")
	return strings.TrimSpace(text)
}
