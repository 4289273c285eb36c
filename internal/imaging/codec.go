package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	// Register decoders for the formats stamp photos arrive in.
	_ "image/gif"
	_ "image/jpeg"
)

// SourceInfo describes a loaded image file.
type SourceInfo struct {
	Path          string `json:"path"`
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Format        string `json:"format"`
	ColorDepth    string `json:"color_depth"`
	HasAlpha      bool   `json:"has_alpha"`
	FileSizeBytes int64  `json:"file_size_bytes"`
}

// LoadPixelBuffer reads an image file from disk and normalizes it into a
// straight-alpha pixel buffer.
//
// PNG, JPEG, and GIF are supported; the format is taken from the decoded
// stream, not the file extension. Returns the buffer together with
// metadata about the source file.
func LoadPixelBuffer(path string) (*PixelBuffer, *SourceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat image file: %w", err)
	}

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	buf := FromImage(img)
	info := &SourceInfo{
		Path:          path,
		Width:         buf.Width,
		Height:        buf.Height,
		Format:        format,
		ColorDepth:    colorDepth(img),
		HasAlpha:      hasAlphaChannel(img),
		FileSizeBytes: stat.Size(),
	}
	return buf, info, nil
}

// EncodePNGBase64 encodes the buffer as a PNG and returns it as a base64
// string, the form embedded in stamp files and tool results.
func EncodePNGBase64(buf *PixelBuffer) (string, error) {
	if err := buf.Validate(); err != nil {
		return "", err
	}
	return encodeNRGBA(buf.ToImage())
}

// DecodePNGBase64 decodes a base64 PNG string back into a pixel buffer.
func DecodePNGBase64(data string) (*PixelBuffer, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 image data: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to decode PNG data: %w", err)
	}
	return FromImage(img), nil
}

func encodeNRGBA(img image.Image) (string, error) {
	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}

func hasAlphaChannel(img image.Image) bool {
	switch img.ColorModel() {
	case color.NRGBAModel, color.NRGBA64Model, color.RGBAModel, color.RGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	if p, ok := img.ColorModel().(color.Palette); ok {
		for _, c := range p {
			if _, _, _, a := c.RGBA(); a < 0xffff {
				return true
			}
		}
	}
	return false
}

func colorDepth(img image.Image) string {
	switch img.(type) {
	case *image.RGBA64, *image.NRGBA64, *image.Gray16:
		return "16-bit"
	}
	return "8-bit"
}
