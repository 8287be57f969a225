// Package textproc cleans up German OCR output.
//
// The package is a fixed sequence of pure string passes:
//
//   - JoinBrokenWords: rejoin hyphenated line breaks, flatten lines,
//     collapse doubled punctuation, add a missing final period
//   - FixCommonErrors: ordered table of known misreadings
//   - InsertSentenceBoundaries: verb-before-capital heuristic
//   - FormatFinalText: spacing around punctuation, trim
//
// The first two run on each recognized region separately. The regions are
// then joined with a single space and handed to ProcessOCRText, which runs
// the boundary heuristic (when enabled) and the formatter:
//
//	p := textproc.Default()
//	parts := make([]string, len(regions))
//	for i, r := range regions {
//	    parts[i] = p.CleanRegion(r)
//	}
//	out := p.Process(strings.Join(parts, " "), textproc.DefaultOptions())
//
// None of the stages can fail. Rule tables are package-level and read-only;
// NewPipeline binds a RuleSet extended from configuration.
package textproc
