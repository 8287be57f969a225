package textproc

import "regexp"

// CorrectionRule pairs a match pattern with the literal text that replaces it.
type CorrectionRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Apply replaces every match of the rule's pattern. The replacement is
// inserted verbatim; "$1" has no special meaning.
func (r CorrectionRule) Apply(text string) string {
	return r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
}

// CompoundCaseCorrection maps a miscapitalized compound to its corrected form.
type CompoundCaseCorrection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// RuleSet bundles the tables the pipeline consumes.
type RuleSet struct {
	Corrections   []CorrectionRule
	SentenceVerbs []string
}

// Known OCR misreadings, applied in order. A later rule sees the output of
// every earlier rule, so "Gmb# &Co." needs the first two entries together.
var commonErrors = []CorrectionRule{
	// Truncated and split legal forms
	{regexp.MustCompile(`Gmb#`), "GmbH"},
	{regexp.MustCompile(`GmbH ?& ?Co\.`), "GmbH & Co."},
	{regexp.MustCompile(`\bG mbH\b`), "GmbH"},
	{regexp.MustCompile(`\bGmb H\b`), "GmbH"},
	{regexp.MustCompile(`\bA G\b`), "AG"},

	// Ligatures that some engines emit as single code points
	{regexp.MustCompile(`ﬁ`), "fi"},
	{regexp.MustCompile(`ﬂ`), "fl"},

	// Company names broken at a morpheme boundary
	{regexp.MustCompile(`\bVolks wagen\b`), "Volkswagen"},
	{regexp.MustCompile(`\bTele kom\b`), "Telekom"},
	{regexp.MustCompile(`\bSie mens\b`), "Siemens"},

	// Newspaper compounds
	{regexp.MustCompile(`\bBundes regierung\b`), "Bundesregierung"},
	{regexp.MustCompile(`\bAktien gesellschaft\b`), "Aktiengesellschaft"},
	{regexp.MustCompile(`\bPresse mitteilung\b`), "Pressemitteilung"},
	{regexp.MustCompile(`\bVorstands vorsitzende\b`), "Vorstandsvorsitzende"},
	{regexp.MustCompile(`\bGeschäfts führer\b`), "Geschäftsführer"},
}

// Not applied by the pipeline. Exposed for callers that want to inspect or
// apply it themselves.
var compoundCaseCorrections = []CompoundCaseCorrection{
	{From: "BundesRegierung", To: "Bundesregierung"},
	{From: "AktienGesellschaft", To: "Aktiengesellschaft"},
	{From: "PresseMitteilung", To: "Pressemitteilung"},
	{From: "VorstandsVorsitzende", To: "Vorstandsvorsitzende"},
	{From: "GeschäftsFührer", To: "Geschäftsführer"},
	{From: "LandesRegierung", To: "Landesregierung"},
}

// Clause-final verb forms. Infinitives first, then past participles.
var sentenceVerbs = []string{
	"setzen", "haben", "sein", "können", "sagen",
	"berichten", "ergänzen", "gestalten", "werden",
	"gesetzt", "gehabt", "gewesen", "gekonnt", "gesagt",
	"berichtet", "ergänzt", "gestaltet", "geworden",
}

// CommonErrors returns a copy of the built-in correction table.
func CommonErrors() []CorrectionRule {
	out := make([]CorrectionRule, len(commonErrors))
	copy(out, commonErrors)
	return out
}

// CompoundCaseCorrections returns a copy of the compound-case table.
func CompoundCaseCorrections() []CompoundCaseCorrection {
	out := make([]CompoundCaseCorrection, len(compoundCaseCorrections))
	copy(out, compoundCaseCorrections)
	return out
}

// SentenceVerbs returns a copy of the built-in verb list.
func SentenceVerbs() []string {
	out := make([]string, len(sentenceVerbs))
	copy(out, sentenceVerbs)
	return out
}

// DefaultRuleSet returns the built-in tables.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Corrections:   CommonErrors(),
		SentenceVerbs: SentenceVerbs(),
	}
}

// Extend returns a new RuleSet with the given rules appended after the
// existing ones. Verbs already present are not repeated.
func (rs RuleSet) Extend(corrections []CorrectionRule, verbs []string) RuleSet {
	out := RuleSet{
		Corrections:   make([]CorrectionRule, 0, len(rs.Corrections)+len(corrections)),
		SentenceVerbs: make([]string, 0, len(rs.SentenceVerbs)+len(verbs)),
	}
	out.Corrections = append(out.Corrections, rs.Corrections...)
	out.Corrections = append(out.Corrections, corrections...)

	seen := make(map[string]bool, len(rs.SentenceVerbs)+len(verbs))
	for _, list := range [][]string{rs.SentenceVerbs, verbs} {
		for _, v := range list {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			out.SentenceVerbs = append(out.SentenceVerbs, v)
		}
	}
	return out
}
