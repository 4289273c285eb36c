package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PixelBuffer is a width×height raster of straight-alpha RGBA bytes.
//
// Pix holds 4 bytes per pixel in row-major order: the pixel at (x, y)
// starts at Pix[(y*Width+x)*4]. Bytes are non-premultiplied, matching
// PNG storage, so fully transparent pixels keep meaningful color values
// only if a producer wrote them.
//
// The invariant len(Pix) == Width*Height*4 must hold for every buffer
// handed to the operations in this package; Validate checks it.
type PixelBuffer struct {
	Width  int
	Height int
	Pix    []uint8
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// NewPixelBuffer allocates a zeroed buffer with the given dimensions.
func NewPixelBuffer(width, height int) *PixelBuffer {
	return &PixelBuffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// FromImage converts any decoded image into a PixelBuffer.
//
// The image is normalized through imaging.Clone, which always produces a
// straight-alpha NRGBA copy with origin bounds and a packed stride, so the
// resulting buffer adopts its pixel slice directly. Premultiplied sources
// (e.g. *image.RGBA) and non-RGBA color models (e.g. JPEG's YCbCr) are
// converted in the process.
func FromImage(img image.Image) *PixelBuffer {
	n := imaging.Clone(img)
	b := n.Bounds()
	return &PixelBuffer{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    n.Pix,
	}
}

// Validate checks the buffer's length invariant.
//
// Returns an error describing the mismatch if len(Pix) != Width*Height*4
// or if either dimension is negative.
func (p *PixelBuffer) Validate() error {
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("invalid buffer dimensions %dx%d", p.Width, p.Height)
	}
	if want := p.Width * p.Height * 4; len(p.Pix) != want {
		return fmt.Errorf("pixel buffer length %d does not match %dx%d (want %d bytes)",
			len(p.Pix), p.Width, p.Height, want)
	}
	return nil
}

// Clone returns a deep copy of the buffer.
func (p *PixelBuffer) Clone() *PixelBuffer {
	pix := make([]uint8, len(p.Pix))
	copy(pix, p.Pix)
	return &PixelBuffer{Width: p.Width, Height: p.Height, Pix: pix}
}

// ToImage converts the buffer to a standalone *image.NRGBA.
//
// The returned image owns a copy of the pixels, so callers may draw on it
// without affecting the buffer.
func (p *PixelBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	copy(img.Pix, p.Pix)
	return img
}

// PixelAt returns the color of a single pixel.
//
// Coordinates are 0-based with origin at top-left. Returns an error if
// (x, y) lies outside the buffer.
func (p *PixelBuffer) PixelAt(x, y int) (RGBAColor, error) {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		return RGBAColor{}, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, p.Width, p.Height)
	}
	i := (y*p.Width + x) * 4
	return RGBAColor{R: p.Pix[i], G: p.Pix[i+1], B: p.Pix[i+2], A: p.Pix[i+3]}, nil
}

// HasTransparency reports whether any pixel has alpha below 255.
func (p *PixelBuffer) HasTransparency() bool {
	for i := 3; i < len(p.Pix); i += 4 {
		if p.Pix[i] != 255 {
			return true
		}
	}
	return false
}
