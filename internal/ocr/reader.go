//go:build cgo

package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
)

// Available reports whether OCR support is compiled into this binary.
func Available() bool { return true }

// Status returns version information for the OCR engine.
func Status() Info {
	client := gosseract.NewClient()
	defer client.Close()
	return Info{
		Available: true,
		Version:   client.Version(),
		Backend:   "gosseract",
	}
}

// SuggestName runs text recognition over the buffer and proposes a stamp
// name from the recognized words.
//
// Transparent regions are flattened onto white first; a stamp that has
// been through background removal is mostly transparency, which the
// recognizer would otherwise read as black. language is a Tesseract
// language code and defaults to "eng"; the matching training data must be
// installed on the system.
func SuggestName(buf *imaging.PixelBuffer, language string) (*NameSuggestion, error) {
	if buf == nil {
		return nil, fmt.Errorf("no image to read")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if language == "" {
		language = "eng"
	}

	path, err := writeFlattenedPNG(buf)
	if err != nil {
		return nil, err
	}
	defer os.Remove(path)

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set OCR language %q: %w", language, err)
	}
	if err := client.SetImage(path); err != nil {
		return nil, fmt.Errorf("failed to set OCR image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("text recognition failed: %w", err)
	}

	name, words := cleanName(text)
	return &NameSuggestion{
		Name:    name,
		RawText: text,
		Words:   words,
	}, nil
}

// writeFlattenedPNG composites the buffer over white and writes it to a
// temporary PNG file, which the recognizer requires. The caller removes
// the file.
func writeFlattenedPNG(buf *imaging.PixelBuffer) (string, error) {
	src := buf.ToImage()
	flat := image.NewNRGBA(src.Bounds())
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, image.Point{}, draw.Over)

	f, err := os.CreateTemp("", "stamp-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, flat); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to encode temp image: %w", err)
	}
	return f.Name(), nil
}
