package textproc

import (
	"regexp"
	"strings"
	"sync"
	"testing"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	if !opts.RemoveHyphens || !opts.SmartParagraphDetection || !opts.MergeAdjacentRegions {
		t.Errorf("DefaultOptions() = %+v, want all enabled", opts)
	}
}

func TestProcessOCRText(t *testing.T) {
	smart := DefaultOptions()
	plain := DefaultOptions()
	plain.SmartParagraphDetection = false

	tests := []struct {
		name  string
		input string
		opts  ProcessingOptions
		want  string
	}{
		{"empty", "", smart, ""},
		{"whitespace only", "   ", smart, ""},
		{
			"boundary inserted",
			"... setzen Beteiligt sei ...",
			smart,
			"... setzen. Beteiligt sei ...",
		},
		{
			"boundary stage skipped",
			"... setzen Beteiligt sei ...",
			plain,
			"... setzen Beteiligt sei ...",
		},
		{
			"skipped stage still formats",
			"  setzen   Beteiligt  ",
			plain,
			"setzen Beteiligt",
		},
		{
			"boundary then format",
			"  setzen   Beteiligt  ",
			smart,
			"setzen. Beteiligt",
		},
		{
			"lowercase continuation left alone",
			"Der Mann geht nach Hause. er kam spät",
			smart,
			"Der Mann geht nach Hause. er kam spät",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProcessOCRText(tt.input, tt.opts)
			if got != tt.want {
				t.Errorf("ProcessOCRText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestProcessOCRText_InertFlags(t *testing.T) {
	in := "Zeichen setzen Beteiligt,  sagt er.Danach"
	base := ProcessOCRText(in, DefaultOptions())

	opts := DefaultOptions()
	opts.RemoveHyphens = false
	opts.MergeAdjacentRegions = false
	if got := ProcessOCRText(in, opts); got != base {
		t.Errorf("inert flags changed output: %q vs %q", got, base)
	}
}

func TestPipeline_Stages(t *testing.T) {
	p := Default()

	if n := len(p.Stages(ProcessingOptions{})); n != 1 {
		t.Errorf("Stages without smart detection: got %d, want 1", n)
	}
	if n := len(p.Stages(DefaultOptions())); n != 2 {
		t.Errorf("Stages with smart detection: got %d, want 2", n)
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	p := Default()
	raw := "Der Mann geh-\nt nach Hause. er kam spät"

	region := p.CleanRegion(raw)
	if region != "Der Mann geht nach Hause. er kam spät" {
		t.Fatalf("CleanRegion = %q", region)
	}

	got := p.Process(region, DefaultOptions())
	if got != "Der Mann geht nach Hause. er kam spät" {
		t.Errorf("Process = %q", got)
	}
}

func TestPipeline_TwoPhaseRegions(t *testing.T) {
	p := Default()
	regions := []string{
		"Die Firma Müller Gmb# &Co. hat Zeichen gesetzt",
		"Beteiligt sei auch die Bundes regie-\nrung",
	}

	parts := make([]string, len(regions))
	for i, r := range regions {
		parts[i] = p.CleanRegion(r)
	}
	if parts[1] != "Beteiligt sei auch die Bundesregierung" {
		t.Fatalf("region 2 cleaned to %q", parts[1])
	}

	got := p.Process(strings.Join(parts, " "), DefaultOptions())
	want := "Die Firma Müller GmbH & Co. hat Zeichen gesetzt. Beteiligt sei auch die Bundesregierung"
	if got != want {
		t.Errorf("Process = %q, want %q", got, want)
	}
}

func TestNewPipeline_CustomRules(t *testing.T) {
	rules := DefaultRuleSet().Extend(
		[]CorrectionRule{{Pattern: regexp.MustCompile(`Zeitunq`), Replacement: "Zeitung"}},
		[]string{"erklärt"},
	)
	p := NewPipeline(rules)

	if got := p.FixCommonErrors("Die Zeitunq der Gmb#"); got != "Die Zeitung der GmbH" {
		t.Errorf("FixCommonErrors = %q", got)
	}
	if got := p.InsertSentenceBoundaries("Er hat es erklärt Danach"); got != "Er hat es erklärt. Danach" {
		t.Errorf("InsertSentenceBoundaries = %q", got)
	}

	// The default pipeline is unaffected.
	if got := FixCommonErrors("Die Zeitunq"); got != "Die Zeitunq" {
		t.Errorf("default FixCommonErrors = %q, want unchanged", got)
	}

	rules.Corrections[0].Replacement = "kaputt"
	if got := p.FixCommonErrors("Gmb#"); got != "GmbH" {
		t.Errorf("pipeline shares caller's slice: got %q", got)
	}
}

func TestProcessOCRText_Concurrent(t *testing.T) {
	in := "Zeichen setzen Beteiligt sei auch die Stadt"
	want := ProcessOCRText(in, DefaultOptions())

	var wg sync.WaitGroup
	errs := make(chan string, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := ProcessOCRText(in, DefaultOptions()); got != want {
				errs <- got
			}
		}()
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent ProcessOCRText = %q, want %q", got, want)
	}
}
