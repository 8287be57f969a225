package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/ironsheep/ocr-text-mcp/internal/ocr"
	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// fakeRecognizer answers by crop width so tests can tell regions apart.
type fakeRecognizer struct {
	mu     sync.Mutex
	byW    map[int]ocr.Result
	err    error
	calls  []int
	cancel context.CancelFunc
}

func (f *fakeRecognizer) Recognize(ctx context.Context, img image.Image) (*ocr.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w := img.Bounds().Dx()
	f.calls = append(f.calls, w)
	if f.cancel != nil {
		f.cancel()
	}
	if f.err != nil {
		return nil, f.err
	}
	res, ok := f.byW[w]
	if !ok {
		return &ocr.Result{}, nil
	}
	return &res, nil
}

func testPage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestRun_TwoPhase(t *testing.T) {
	rec := &fakeRecognizer{byW: map[int]ocr.Result{
		10: {FullText: "Die Firma Müller Gmb# &Co. hat Zeichen gesetzt\n", Confidence: 0.9},
		20: {FullText: "Beteiligt sei auch die Bundes regie-\nrung", Confidence: 0.7},
	}}
	c := New(rec, nil)

	regions := []Region{
		{Sequence: 2, X1: 0, Y1: 50, X2: 20, Y2: 60},
		{Sequence: 1, X1: 0, Y1: 0, X2: 10, Y2: 10},
	}

	res, err := c.Run(context.Background(), testPage(), regions, textproc.DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(rec.calls) != 2 || rec.calls[0] != 10 || rec.calls[1] != 20 {
		t.Errorf("recognizer calls: got %v, want [10 20]", rec.calls)
	}
	if res.Regions[0].Region.Sequence != 1 || res.Regions[1].Region.Sequence != 2 {
		t.Errorf("regions out of order: %+v", res.Regions)
	}

	// Region 1 ends with a line break, so the joiner adds a period there.
	if got := res.Regions[0].Text; got != "Die Firma Müller GmbH & Co. hat Zeichen gesetzt. " {
		t.Errorf("region 1 text: %q", got)
	}
	if got := res.Regions[1].Text; got != "Beteiligt sei auch die Bundesregierung" {
		t.Errorf("region 2 text: %q", got)
	}

	want := "Die Firma Müller GmbH & Co. hat Zeichen gesetzt. Beteiligt sei auch die Bundesregierung"
	if res.Text != want {
		t.Errorf("Text: got %q, want %q", res.Text, want)
	}
	if diff := res.Confidence - 0.8; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Confidence: got %f, want 0.8", res.Confidence)
	}
	if res.RunID == "" {
		t.Error("RunID should be set")
	}
}

func TestRun_BoundaryAcrossRegions(t *testing.T) {
	rec := &fakeRecognizer{byW: map[int]ocr.Result{
		10: {FullText: "Sie wollen Zeichen setzen", Confidence: 1},
		20: {FullText: "Beteiligt sei auch die Stadt", Confidence: 1},
	}}
	c := New(rec, nil)
	regions := []Region{
		{Sequence: 1, X1: 0, Y1: 0, X2: 10, Y2: 10},
		{Sequence: 2, X1: 0, Y1: 0, X2: 20, Y2: 10},
	}

	smart, err := c.Run(context.Background(), testPage(), regions, textproc.DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if smart.Text != "Sie wollen Zeichen setzen. Beteiligt sei auch die Stadt" {
		t.Errorf("smart Text: %q", smart.Text)
	}

	opts := textproc.DefaultOptions()
	opts.SmartParagraphDetection = false
	plain, err := c.Run(context.Background(), testPage(), regions, opts)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if plain.Text != "Sie wollen Zeichen setzen Beteiligt sei auch die Stadt" {
		t.Errorf("plain Text: %q", plain.Text)
	}
}

func TestRun_NormalizesDecomposedUmlauts(t *testing.T) {
	rec := &fakeRecognizer{byW: map[int]ocr.Result{
		10: {FullText: "scho\u0308-\nnes Wetter", Confidence: 1},
	}}
	c := New(rec, nil)

	res, err := c.Run(context.Background(), testPage(), []Region{{Sequence: 1, X2: 10, Y2: 10}}, textproc.DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Text != "schönes Wetter" {
		t.Errorf("Text: got %q, want %q", res.Text, "schönes Wetter")
	}
}

func TestRun_NoRegions(t *testing.T) {
	rec := &fakeRecognizer{}
	res, err := New(rec, nil).Run(context.Background(), testPage(), nil, textproc.DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Text != "" || len(res.Regions) != 0 {
		t.Errorf("expected empty result, got %+v", res)
	}
	if len(rec.calls) != 0 {
		t.Errorf("recognizer called %d times", len(rec.calls))
	}
}

func TestRun_InvalidRegion(t *testing.T) {
	rec := &fakeRecognizer{}
	regions := []Region{
		{Sequence: 1, X1: 0, Y1: 0, X2: 10, Y2: 10},
		{Sequence: 2, X1: 150, Y1: 0, X2: 250, Y2: 10},
	}

	_, err := New(rec, nil).Run(context.Background(), testPage(), regions, textproc.DefaultOptions())
	if !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("error: got %v, want ErrInvalidRegion", err)
	}
	if !strings.Contains(err.Error(), "region 2") {
		t.Errorf("error should name the region: %v", err)
	}
	if len(rec.calls) != 0 {
		t.Error("no region should be recognized when one is invalid")
	}
}

func TestRun_RecognizerError(t *testing.T) {
	boom := errors.New("engine crashed")
	rec := &fakeRecognizer{err: boom}

	_, err := New(rec, nil).Run(context.Background(), testPage(), []Region{{Sequence: 3, X2: 10, Y2: 10}}, textproc.DefaultOptions())
	if !errors.Is(err, boom) {
		t.Fatalf("error: got %v, want wrapped engine error", err)
	}
	if !strings.Contains(err.Error(), "region 3") {
		t.Errorf("error should name the region: %v", err)
	}
}

func TestRun_CanceledBetweenRegions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &fakeRecognizer{cancel: cancel}
	regions := []Region{
		{Sequence: 1, X2: 10, Y2: 10},
		{Sequence: 2, X2: 20, Y2: 10},
	}

	_, err := New(rec, nil).Run(ctx, testPage(), regions, textproc.DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error: got %v, want context.Canceled", err)
	}
	if len(rec.calls) != 1 {
		t.Errorf("recognizer calls: got %d, want 1", len(rec.calls))
	}
}

func TestRun_LowConfidence(t *testing.T) {
	rec := &fakeRecognizer{byW: map[int]ocr.Result{
		10: {FullText: "kaum lesbar", Confidence: 0.3},
		20: {FullText: "gut lesbar", Confidence: 0.95},
	}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := New(rec, nil, WithLogger(logger), WithMinConfidence(0.6))

	regions := []Region{
		{Sequence: 1, X2: 10, Y2: 10},
		{Sequence: 2, X2: 20, Y2: 10},
	}
	res, err := c.Run(context.Background(), testPage(), regions, textproc.DefaultOptions())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.Regions[0].LowConfidence || res.Regions[1].LowConfidence {
		t.Errorf("LowConfidence flags: %v, %v", res.Regions[0].LowConfidence, res.Regions[1].LowConfidence)
	}
	if res.Text != "kaum lesbar gut lesbar" {
		t.Errorf("low confidence text should be kept, got %q", res.Text)
	}
	if !strings.Contains(logs.String(), "low OCR confidence") {
		t.Errorf("expected a low confidence warning, logs:\n%s", logs.String())
	}
}

func TestSortRegions(t *testing.T) {
	in := []Region{
		{Sequence: 3, X1: 1},
		{Sequence: 1, X1: 2},
		{Sequence: 3, X1: 3},
		{Sequence: 2, X1: 4},
	}

	got := SortRegions(in)

	wantX := []int{2, 4, 1, 3}
	for i, r := range got {
		if r.X1 != wantX[i] {
			t.Errorf("position %d: got X1=%d, want %d", i, r.X1, wantX[i])
		}
	}
	if in[0].Sequence != 3 {
		t.Error("SortRegions modified its input")
	}
}

func TestProcessRegionTexts(t *testing.T) {
	texts := []string{
		"Die Firma Müller Gmb# &Co. hat Zeichen gesetzt",
		"Beteiligt sei auch die Bundes regie-\nrung",
	}

	res := ProcessRegionTexts(nil, texts, textproc.DefaultOptions())

	if len(res.Regions) != 2 {
		t.Fatalf("Regions: got %d, want 2", len(res.Regions))
	}
	if res.MergedText != "Die Firma Müller GmbH & Co. hat Zeichen gesetzt Beteiligt sei auch die Bundesregierung" {
		t.Errorf("MergedText: %q", res.MergedText)
	}
	want := "Die Firma Müller GmbH & Co. hat Zeichen gesetzt. Beteiligt sei auch die Bundesregierung"
	if res.Text != want {
		t.Errorf("Text: got %q, want %q", res.Text, want)
	}
}
