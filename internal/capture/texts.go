package capture

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// TextResult is the outcome of ProcessRegionTexts.
type TextResult struct {
	Regions    []string `json:"regions"`
	MergedText string   `json:"merged_text"`
	Text       string   `json:"text"`
}

// ProcessRegionTexts runs the same two-phase cleanup as Capturer.Run on text
// that was recognized elsewhere. texts must already be in sequence order.
func ProcessRegionTexts(p *textproc.Pipeline, texts []string, opts textproc.ProcessingOptions) *TextResult {
	if p == nil {
		p = textproc.Default()
	}

	cleaned := make([]string, len(texts))
	for i, t := range texts {
		cleaned[i] = p.CleanRegion(norm.NFC.String(t))
	}

	merged := strings.Join(cleaned, " ")
	return &TextResult{
		Regions:    cleaned,
		MergedText: merged,
		Text:       p.Process(merged, opts),
	}
}
