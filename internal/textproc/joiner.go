package textproc

import (
	"regexp"
	"strings"
)

// letter matches ASCII letters plus the German umlauts and ß.
const letter = `[a-zA-ZäöüßÄÖÜ]`

var (
	hyphenBreakRe   = regexp.MustCompile(`(` + letter + `)-\s*\n\s*(` + letter + `)`)
	lineBreakRe     = regexp.MustCompile(`\r?\n ?`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)

	// Ellipses and URLs are matched as whole tokens so the scan steps over
	// them; any other hit is a doubled mark.
	doubledMarkRe = regexp.MustCompile(`\.\.\.|https?://\S*|([.,!?;:])\s?[.,!?;:]`)

	missingPeriodRe = regexp.MustCompile(`(` + letter + `)(\s+)$`)
)

// JoinBrokenWords repairs words split across lines and flattens the text to a
// single line.
//
// Steps run in a fixed order:
//  1. letter, hyphen, line break, letter: the hyphen and break are dropped
//  2. remaining line breaks (plus one following space) become a space
//  3. whitespace runs collapse to one space
//  4. a mark from ".,!?;:" followed by another (optionally space separated)
//     collapses to the first mark; "..." and http(s) URLs are left alone
//  5. a letter followed by trailing whitespace at the end of the text gets a
//     period before the whitespace
//
// Step 4 is a single left-to-right pass over non-overlapping pairs, so "!!!"
// becomes "!!".
func JoinBrokenWords(text string) string {
	if text == "" {
		return text
	}

	text = hyphenBreakRe.ReplaceAllString(text, "$1$2")
	text = lineBreakRe.ReplaceAllString(text, " ")
	text = whitespaceRunRe.ReplaceAllString(text, " ")
	text = doubledMarkRe.ReplaceAllStringFunc(text, collapseMarks)
	text = missingPeriodRe.ReplaceAllString(text, "$1.$2")

	return text
}

func collapseMarks(match string) string {
	if match == "..." || strings.HasPrefix(match, "http://") || strings.HasPrefix(match, "https://") {
		return match
	}
	return match[:1]
}
