package imaging

import (
	"errors"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ErrInvalidRegion is returned for a region that is empty, inverted or
// outside the image.
var ErrInvalidRegion = errors.New("invalid region")

// ValidateRegion checks that (x1,y1)-(x2,y2) is a non-empty rectangle inside
// the bounds of img. (x1,y1) is inclusive, (x2,y2) exclusive.
func ValidateRegion(img image.Image, x1, y1, x2, y2 int) error {
	bounds := img.Bounds()

	if x1 < bounds.Min.X || y1 < bounds.Min.Y || x2 > bounds.Max.X || y2 > bounds.Max.Y {
		return fmt.Errorf("%w: (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			ErrInvalidRegion, x1, y1, x2, y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if x1 >= x2 || y1 >= y2 {
		return fmt.Errorf("%w: x1 must be < x2, y1 must be < y2", ErrInvalidRegion)
	}
	return nil
}

// CropRegion returns the pixels of a validated region. The result's bounds
// start at (0,0).
func CropRegion(img image.Image, x1, y1, x2, y2 int) (image.Image, error) {
	if err := ValidateRegion(img, x1, y1, x2, y2); err != nil {
		return nil, err
	}
	return imaging.Crop(img, image.Rect(x1, y1, x2, y2)), nil
}
