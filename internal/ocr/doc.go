// Package ocr wraps Tesseract (via gosseract/v2) as the recognition engine
// for cropped page regions.
//
// Tesseract and the language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-deu
//   - macOS: brew install tesseract tesseract-lang
//
// Recognize takes an in-memory region, runs imaging.PrepareForOCR on it and
// returns the raw text together with the mean word confidence. The text is
// returned as the engine produced it, line breaks and end-of-line hyphens
// included; joining and correction belong to the textproc package.
//
// The default language is German ("deu"). Set Config.TessdataPrefix when the
// language files live outside Tesseract's default search path.
package ocr
