//go:build !cgo

package ocr

import "github.com/ironsheep/stamp-tools-mcp/internal/imaging"

// Available reports whether OCR support is compiled into this binary.
func Available() bool { return false }

// Status returns version information for the OCR engine.
func Status() Info {
	return Info{
		Available: false,
		Backend:   "disabled (built without cgo)",
	}
}

// SuggestName always fails with ErrUnavailable in builds without cgo.
func SuggestName(buf *imaging.PixelBuffer, language string) (*NameSuggestion, error) {
	return nil, ErrUnavailable
}
