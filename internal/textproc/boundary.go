package textproc

import (
	"regexp"
	"strings"
)

// BoundaryDetector inserts a period between a clause-final verb and a
// following capitalized word.
//
// The heuristic misfires on proper nouns and on verb-first clauses; callers
// that cannot tolerate that should leave it disabled.
type BoundaryDetector struct {
	verbs []string
	re    *regexp.Regexp
}

// NewBoundaryDetector builds a detector for the given verb forms. An empty
// list yields a detector that never changes its input.
func NewBoundaryDetector(verbs []string) *BoundaryDetector {
	d := &BoundaryDetector{verbs: make([]string, 0, len(verbs))}
	quoted := make([]string, 0, len(verbs))
	for _, v := range verbs {
		if v == "" {
			continue
		}
		d.verbs = append(d.verbs, v)
		quoted = append(quoted, regexp.QuoteMeta(v))
	}
	if len(quoted) == 0 {
		return d
	}

	// The leading group stands in for a word boundary that also respects
	// umlauts, which \b does not.
	d.re = regexp.MustCompile(`(^|[^\p{L}\p{N}])(` + strings.Join(quoted, "|") +
		`)\s+([A-ZÄÖÜ][a-zäöüß]+)`)
	return d
}

// Verbs returns the verb forms the detector looks for.
func (d *BoundaryDetector) Verbs() []string {
	out := make([]string, len(d.verbs))
	copy(out, d.verbs)
	return out
}

// Insert rewrites "verb Word" to "verb. Word" wherever it matches.
func (d *BoundaryDetector) Insert(text string) string {
	if d.re == nil || text == "" {
		return text
	}
	return d.re.ReplaceAllString(text, "${1}${2}. ${3}")
}

var defaultBoundaries = NewBoundaryDetector(sentenceVerbs)

// InsertSentenceBoundaries applies the detector built from the default verb list.
func InsertSentenceBoundaries(text string) string {
	return defaultBoundaries.Insert(text)
}
