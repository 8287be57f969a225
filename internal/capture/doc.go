// Package capture turns selected regions of a page scan into one cleaned
// text.
//
// The flow has two phases. Each region, in sequence order, is cropped,
// recognized, NFC normalized, line-joined and error-corrected on its own.
// The cleaned region texts are then joined with single spaces and passed
// through the orchestrator (boundary detection when enabled, then final
// formatting). Keeping the phases apart matters: a boundary that spans two
// regions only becomes visible after the merge.
//
// The recognition engine is any Recognizer; ocr.Tesseract is the production
// one.
package capture
