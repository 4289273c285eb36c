// Package ocr proposes stamp names by recognizing the text printed on a
// stamp image.
//
// Recognition is backed by the Tesseract engine through gosseract/v2,
// which needs cgo. Builds without cgo still compile: Available reports
// false and SuggestName fails with ErrUnavailable, so callers can degrade
// to manual naming.
//
// # Prerequisites
//
// With cgo enabled, Tesseract must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The language passed to SuggestName is a Tesseract language code ("eng",
// "deu", ...); its training data must be installed.
//
// # Temporary Files
//
// SuggestName flattens the stamp onto a white background and writes it to
// a temporary PNG for the engine, removing the file when recognition
// finishes.
package ocr
