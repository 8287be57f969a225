package capture

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/ironsheep/ocr-text-mcp/internal/imaging"
	"github.com/ironsheep/ocr-text-mcp/internal/ocr"
	"github.com/ironsheep/ocr-text-mcp/internal/textproc"
)

// ErrInvalidRegion is returned when a region does not fit the image.
var ErrInvalidRegion = imaging.ErrInvalidRegion

// Recognizer turns a cropped region into raw text and a confidence score.
type Recognizer interface {
	Recognize(ctx context.Context, img image.Image) (*ocr.Result, error)
}

// Region is a user-selected rectangle. Regions are processed in ascending
// Sequence order; ties keep their input order.
type Region struct {
	Sequence int `json:"sequence"`
	X1       int `json:"x1"`
	Y1       int `json:"y1"`
	X2       int `json:"x2"`
	Y2       int `json:"y2"`
}

func (r Region) String() string {
	return fmt.Sprintf("#%d (%d,%d)-(%d,%d)", r.Sequence, r.X1, r.Y1, r.X2, r.Y2)
}

// RegionResult is the outcome for one region.
type RegionResult struct {
	Region Region `json:"region"`

	// RawText is the engine output, NFC normalized.
	RawText string `json:"raw_text"`

	// Text is RawText after line joining and error correction.
	Text string `json:"text"`

	Confidence    float64 `json:"confidence"`
	LowConfidence bool    `json:"low_confidence,omitempty"`
}

// Result is the outcome of one capture run.
type Result struct {
	RunID   string         `json:"run_id"`
	Regions []RegionResult `json:"regions"`

	// MergedText is the cleaned region texts joined with single spaces.
	MergedText string `json:"merged_text"`

	// Text is MergedText after the orchestrator stages.
	Text string `json:"text"`

	// Confidence is the mean region confidence.
	Confidence float64 `json:"confidence"`

	Options  textproc.ProcessingOptions `json:"options"`
	Duration time.Duration              `json:"duration_ns"`
}

// Capturer drives recognition and cleanup for a set of regions.
type Capturer struct {
	recognizer    Recognizer
	pipeline      *textproc.Pipeline
	logger        *slog.Logger
	minConfidence float64
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Capturer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMinConfidence sets the confidence below which a region is flagged and
// logged. Flagged text is still used.
func WithMinConfidence(min float64) Option {
	return func(c *Capturer) {
		c.minConfidence = min
	}
}

// New creates a Capturer. A nil pipeline uses textproc.Default().
func New(recognizer Recognizer, pipeline *textproc.Pipeline, opts ...Option) *Capturer {
	if pipeline == nil {
		pipeline = textproc.Default()
	}
	c := &Capturer{
		recognizer: recognizer,
		pipeline:   pipeline,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run recognizes each region of img one after the other, cleans each
// region's text on its own, merges the results and runs the orchestrator.
//
// Every region is validated before the first recognition call. A recognizer
// error or a canceled context stops the run.
func (c *Capturer) Run(ctx context.Context, img image.Image, regions []Region, opts textproc.ProcessingOptions) (*Result, error) {
	start := time.Now()
	res := &Result{
		RunID:   uuid.New().String(),
		Regions: make([]RegionResult, 0, len(regions)),
		Options: opts,
	}
	logger := c.logger.With("run_id", res.RunID)

	ordered := SortRegions(regions)
	for _, r := range ordered {
		if err := imaging.ValidateRegion(img, r.X1, r.Y1, r.X2, r.Y2); err != nil {
			return nil, fmt.Errorf("region %d: %w", r.Sequence, err)
		}
	}

	texts := make([]string, 0, len(ordered))
	for _, r := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rr, err := c.captureRegion(ctx, img, r)
		if err != nil {
			return nil, fmt.Errorf("region %d: %w", r.Sequence, err)
		}

		if rr.LowConfidence {
			logger.Warn("low OCR confidence",
				"sequence", r.Sequence,
				"confidence", rr.Confidence,
				"min_confidence", c.minConfidence,
			)
		}
		logger.Debug("region recognized",
			"sequence", r.Sequence,
			"raw_chars", len(rr.RawText),
			"clean_chars", len(rr.Text),
			"confidence", rr.Confidence,
		)

		res.Regions = append(res.Regions, rr)
		texts = append(texts, rr.Text)
	}

	res.MergedText = strings.Join(texts, " ")
	res.Text = c.pipeline.Process(res.MergedText, opts)
	res.Confidence = meanConfidence(res.Regions)
	res.Duration = time.Since(start)

	logger.Info("capture complete",
		"regions", len(res.Regions),
		"chars", len(res.Text),
		"confidence", res.Confidence,
		"duration", res.Duration,
	)
	return res, nil
}

func (c *Capturer) captureRegion(ctx context.Context, img image.Image, r Region) (RegionResult, error) {
	crop, err := imaging.CropRegion(img, r.X1, r.Y1, r.X2, r.Y2)
	if err != nil {
		return RegionResult{}, err
	}

	out, err := c.recognizer.Recognize(ctx, crop)
	if err != nil {
		return RegionResult{}, fmt.Errorf("recognition failed: %w", err)
	}

	raw := norm.NFC.String(out.FullText)
	return RegionResult{
		Region:        r,
		RawText:       raw,
		Text:          c.pipeline.CleanRegion(raw),
		Confidence:    out.Confidence,
		LowConfidence: out.Confidence < c.minConfidence,
	}, nil
}

// SortRegions returns a copy of regions in ascending Sequence order.
func SortRegions(regions []Region) []Region {
	out := make([]Region, len(regions))
	copy(out, regions)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

func meanConfidence(regions []RegionResult) float64 {
	if len(regions) == 0 {
		return 0
	}
	var sum float64
	for _, r := range regions {
		sum += r.Confidence
	}
	return sum / float64(len(regions))
}
