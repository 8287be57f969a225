package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/ocr-text-mcp/internal/imaging"
)

// DefaultLanguage is the Tesseract language pack used when none is configured.
const DefaultLanguage = "deu"

// Bounds is a word's bounding box in the coordinates of the recognized image.
type Bounds struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// TextRegion is one recognized word.
type TextRegion struct {
	Text string `json:"text"`

	// Confidence is Tesseract's word confidence scaled to 0.0-1.0.
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result is the engine output for one image or region.
type Result struct {
	// FullText keeps the engine's line breaks and hyphens; cleanup happens
	// downstream.
	FullText string `json:"full_text"`

	// Confidence is the mean word confidence (0.0-1.0), or 0 with no words.
	Confidence float64 `json:"confidence"`

	Words []TextRegion `json:"words"`
}

// Config selects the language data and segmentation used by Tesseract.
type Config struct {
	Language       string
	TessdataPrefix string
	PageSegMode    gosseract.PageSegMode
	Prepare        imaging.PrepareOptions
}

// Tesseract recognizes text with a local Tesseract installation.
//
// Each call creates its own gosseract client, so a Tesseract value may be
// shared between goroutines.
type Tesseract struct {
	cfg Config
}

// NewTesseract fills in defaults for unset fields: DefaultLanguage,
// single-block segmentation for a cropped column of print, and
// imaging.DefaultPrepareOptions.
func NewTesseract(cfg Config) *Tesseract {
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.PageSegMode == 0 {
		cfg.PageSegMode = gosseract.PSM_SINGLE_BLOCK
	}
	if cfg.Prepare == (imaging.PrepareOptions{}) {
		cfg.Prepare = imaging.DefaultPrepareOptions()
	}
	return &Tesseract{cfg: cfg}
}

// Language returns the configured language code.
func (t *Tesseract) Language() string {
	return t.cfg.Language
}

// Recognize prepares img for OCR and returns the recognized text with its
// mean confidence.
func (t *Tesseract) Recognize(ctx context.Context, img image.Image) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prepared := imaging.PrepareForOCR(img, t.cfg.Prepare)

	var buf bytes.Buffer
	if err := png.Encode(&buf, prepared); err != nil {
		return nil, fmt.Errorf("failed to encode region: %w", err)
	}

	client, err := t.newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return recognize(client)
}

// RecognizeFile runs OCR on a whole image file without preprocessing.
func (t *Tesseract) RecognizeFile(ctx context.Context, path string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := t.newClient()
	if err != nil {
		return nil, err
	}
	defer client.Close()

	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}
	return recognize(client)
}

func (t *Tesseract) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Language); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(t.cfg.PageSegMode); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return client, nil
}

func recognize(client *gosseract.Client) (*Result, error) {
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	// Word boxes only feed the confidence score; text alone is still useful.
	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return &Result{FullText: text, Words: []TextRegion{}}, nil
	}

	words := make([]TextRegion, 0, len(boxes))
	for _, box := range boxes {
		if box.Word == "" {
			continue
		}
		words = append(words, TextRegion{
			Text:       box.Word,
			Confidence: float64(box.Confidence) / 100.0,
			Bounds: Bounds{
				X1: box.Box.Min.X,
				Y1: box.Box.Min.Y,
				X2: box.Box.Max.X,
				Y2: box.Box.Max.Y,
			},
		})
	}

	return &Result{
		FullText:   text,
		Confidence: MeanConfidence(words),
		Words:      words,
	}, nil
}

// MeanConfidence averages word confidences, clamped to 0.0-1.0.
func MeanConfidence(words []TextRegion) float64 {
	if len(words) == 0 {
		return 0
	}
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	mean := sum / float64(len(words))
	switch {
	case mean < 0:
		return 0
	case mean > 1:
		return 1
	}
	return mean
}

// Info reports whether the engine can be used.
type Info struct {
	Available      bool   `json:"available"`
	Version        string `json:"version,omitempty"`
	Error          string `json:"error,omitempty"`
	Backend        string `json:"backend"`
	Language       string `json:"language"`
	TessdataPrefix string `json:"tessdata_prefix,omitempty"`
}

// Info probes the engine with the configured language.
func (t *Tesseract) Info() Info {
	info := Info{
		Backend:        "gosseract",
		Language:       t.cfg.Language,
		TessdataPrefix: t.cfg.TessdataPrefix,
	}

	client, err := t.newClient()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer client.Close()

	info.Version = client.Version()
	info.Available = info.Version != ""
	return info
}
