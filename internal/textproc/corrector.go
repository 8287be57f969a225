package textproc

// FixCommonErrors applies the built-in correction table.
func FixCommonErrors(text string) string {
	return applyCorrections(text, commonErrors)
}

// applyCorrections runs each rule over the whole text before moving to the
// next, so later rules see earlier replacements.
func applyCorrections(text string, rules []CorrectionRule) string {
	for _, rule := range rules {
		text = rule.Apply(text)
	}
	return text
}
