// Package imaging loads page scans and turns user-selected regions into
// images ready for text recognition.
//
// Coordinates are 0-based pixels with (0,0) at the top-left. A region's
// (x1,y1) corner is inclusive and (x2,y2) is exclusive. Invalid regions fail
// with an error wrapping ErrInvalidRegion.
//
// PrepareForOCR upscales small crops, inverts light-on-dark crops, raises
// contrast and converts to grayscale. Background lightness is measured in
// CIE L* on the crop's border.
//
// ImageCache is safe for concurrent use; the other functions are stateless.
package imaging
