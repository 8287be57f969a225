package textproc

// ProcessingOptions controls which stages the orchestrator runs.
type ProcessingOptions struct {
	// RemoveHyphens is carried for callers; hyphen joining in
	// JoinBrokenWords always runs.
	RemoveHyphens bool `json:"remove_hyphens" mapstructure:"remove_hyphens" yaml:"remove_hyphens"`

	// SmartParagraphDetection enables sentence-boundary insertion.
	SmartParagraphDetection bool `json:"smart_paragraph_detection" mapstructure:"smart_paragraph_detection" yaml:"smart_paragraph_detection"`

	// MergeAdjacentRegions belongs to the region-merging caller and has no
	// effect on the pipeline.
	MergeAdjacentRegions bool `json:"merge_adjacent_regions" mapstructure:"merge_adjacent_regions" yaml:"merge_adjacent_regions"`
}

// DefaultOptions enables every option.
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		RemoveHyphens:           true,
		SmartParagraphDetection: true,
		MergeAdjacentRegions:    true,
	}
}

// Stage is one string-to-string pass of the pipeline.
type Stage func(string) string

// Pipeline binds the stages to a specific RuleSet. It holds no mutable state
// and is safe for concurrent use.
type Pipeline struct {
	rules      RuleSet
	boundaries *BoundaryDetector
}

// NewPipeline creates a pipeline for the given rules.
func NewPipeline(rules RuleSet) *Pipeline {
	return &Pipeline{
		rules:      rules.Extend(nil, nil),
		boundaries: NewBoundaryDetector(rules.SentenceVerbs),
	}
}

// Rules returns a copy of the pipeline's rule set.
func (p *Pipeline) Rules() RuleSet {
	return p.rules.Extend(nil, nil)
}

// JoinBrokenWords runs the line-break joiner. It does not depend on the rules.
func (p *Pipeline) JoinBrokenWords(text string) string {
	return JoinBrokenWords(text)
}

// FixCommonErrors applies the pipeline's correction table.
func (p *Pipeline) FixCommonErrors(text string) string {
	return applyCorrections(text, p.rules.Corrections)
}

// InsertSentenceBoundaries applies the pipeline's verb list.
func (p *Pipeline) InsertSentenceBoundaries(text string) string {
	return p.boundaries.Insert(text)
}

// FormatFinalText runs the final formatter.
func (p *Pipeline) FormatFinalText(text string) string {
	return FormatFinalText(text)
}

// CleanRegion runs the per-region stages on one region's recognized text:
// line joining, then error correction.
func (p *Pipeline) CleanRegion(text string) string {
	return p.FixCommonErrors(p.JoinBrokenWords(text))
}

// Stages returns the orchestrator stages selected by opts. The boundary stage
// is absent, not a no-op, when SmartParagraphDetection is off.
func (p *Pipeline) Stages(opts ProcessingOptions) []Stage {
	stages := make([]Stage, 0, 2)
	if opts.SmartParagraphDetection {
		stages = append(stages, p.InsertSentenceBoundaries)
	}
	return append(stages, p.FormatFinalText)
}

// Process runs the orchestrator over text that was already joined, corrected
// and merged region by region.
func (p *Pipeline) Process(merged string, opts ProcessingOptions) string {
	for _, stage := range p.Stages(opts) {
		merged = stage(merged)
	}
	return merged
}

var defaultPipeline = NewPipeline(DefaultRuleSet())

// Default returns the pipeline built from the built-in tables.
func Default() *Pipeline {
	return defaultPipeline
}

// ProcessOCRText runs the default orchestrator.
func ProcessOCRText(merged string, opts ProcessingOptions) string {
	return defaultPipeline.Process(merged, opts)
}
