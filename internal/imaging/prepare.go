package imaging

import (
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// PrepareOptions tunes PrepareForOCR.
type PrepareOptions struct {
	// MinHeight is the height small crops are scaled up to. 0 disables scaling.
	MinHeight int

	// Contrast is passed to bild's adjust.Contrast (-1 to 1). 0 disables it.
	Contrast float64

	// InvertDark inverts crops whose border is darker than mid gray so the
	// engine always sees dark text on a light background.
	InvertDark bool
}

// DefaultPrepareOptions returns the settings used for newspaper scans.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		MinHeight:  48,
		Contrast:   0.2,
		InvertDark: true,
	}
}

// darkThreshold is the CIE L* (0-1) below which a background counts as dark.
const darkThreshold = 0.5

// maxBorderSamples bounds the work BackgroundLightness does on large pages.
const maxBorderSamples = 512

// PrepareForOCR returns a grayscale copy of img tuned for recognition.
//
// Steps: upscale short crops, invert light-on-dark crops, raise contrast,
// convert to grayscale. The input is not modified. The result's bounds start
// at (0,0).
func PrepareForOCR(img image.Image, opts PrepareOptions) *image.Gray {
	var out image.Image = img

	if opts.MinHeight > 0 && out.Bounds().Dy() > 0 && out.Bounds().Dy() < opts.MinHeight {
		out = imaging.Resize(out, 0, opts.MinHeight, imaging.Lanczos)
	}

	if opts.InvertDark && isDark(BackgroundLightness(out)) {
		out = effect.Invert(out)
	}

	if opts.Contrast != 0 {
		out = adjust.Contrast(out, opts.Contrast)
	}

	return toGray(effect.Grayscale(out))
}

// toGray copies bild's RGBA grayscale output into a single-channel image.
func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
	return g
}

// BackgroundLightness estimates the background as the mean CIE L* of the
// border pixels, from 0 (black) to 1 (white). Fully transparent pixels are
// skipped; an image with no opaque border pixels reports 1.
func BackgroundLightness(img image.Image) float64 {
	b := img.Bounds()
	if b.Empty() {
		return 1
	}

	perimeter := 2*b.Dx() + 2*b.Dy()
	step := perimeter / maxBorderSamples
	if step < 1 {
		step = 1
	}

	var sum float64
	var n int
	sample := func(x, y int) {
		c, ok := colorful.MakeColor(img.At(x, y))
		if !ok {
			return
		}
		l, _, _ := c.Lab()
		sum += l
		n++
	}

	for x := b.Min.X; x < b.Max.X; x += step {
		sample(x, b.Min.Y)
		sample(x, b.Max.Y-1)
	}
	for y := b.Min.Y; y < b.Max.Y; y += step {
		sample(b.Min.X, y)
		sample(b.Max.X-1, y)
	}

	if n == 0 {
		return 1
	}
	return sum / float64(n)
}

func isDark(lightness float64) bool {
	return lightness < darkThreshold
}
