package imaging

import (
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) space.
type HSLColor struct {
	H int `json:"h"` // Hue in degrees (0-360)
	S int `json:"s"` // Saturation percentage (0-100)
	L int `json:"l"` // Lightness percentage (0-100)
}

// PickResult describes the color sampled at a single pixel, in the
// formats a client needs to confirm a background pick.
type PickResult struct {
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color TargetColor `json:"color"`
	Alpha uint8       `json:"alpha"`
	Hex   string      `json:"hex"`
	HSL   HSLColor    `json:"hsl"`
}

// MagnifyResult contains a scaled-up crop around a point of interest,
// returned as base64-encoded PNG data.
type MagnifyResult struct {
	CenterX     int        `json:"center_x"`
	CenterY     int        `json:"center_y"`
	RegionX     int        `json:"region_x"`
	RegionY     int        `json:"region_y"`
	RegionW     int        `json:"region_w"`
	RegionH     int        `json:"region_h"`
	Scale       int        `json:"scale"`
	Width       int        `json:"width"`
	Height      int        `json:"height"`
	Center      PickResult `json:"center"`
	ImageBase64 string     `json:"image_base64"`
	MimeType    string     `json:"mime_type"`
}

// PickColor samples the pixel at (x, y) and reports it as an RGB triple,
// uppercase hex, and HSL. The sampled alpha is reported alongside but does
// not enter the target color.
func PickColor(buf *PixelBuffer, x, y int) (*PickResult, error) {
	px, err := buf.PixelAt(x, y)
	if err != nil {
		return nil, err
	}

	target := TargetColor{R: px.R, G: px.G, B: px.B}
	c := colorful.Color{
		R: float64(px.R) / 255.0,
		G: float64(px.G) / 255.0,
		B: float64(px.B) / 255.0,
	}
	h, s, l := c.Hsl()

	return &PickResult{
		X:     x,
		Y:     y,
		Color: target,
		Alpha: px.A,
		Hex:   target.Hex(),
		HSL: HSLColor{
			H: int(h + 0.5),
			S: int(s*100 + 0.5),
			L: int(l*100 + 0.5),
		},
	}, nil
}

// ParseTargetHex parses a hex color string into a target color.
//
// Accepts #RRGGBB and the #RGB shorthand, case-insensitive, with or
// without the leading #.
func ParseTargetHex(s string) (TargetColor, error) {
	hex := strings.TrimSpace(s)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return TargetColor{}, fmt.Errorf("invalid hex color %q: expected #RRGGBB or #RGB", s)
	}
	r, g, b := c.RGB255()
	return TargetColor{R: r, G: g, B: b}, nil
}

// Magnify extracts a square region around (x, y) and scales it up with
// nearest-neighbor resampling so individual pixels stay distinguishable.
//
// radius is the number of pixels included on each side of the center;
// the region is clipped to the image, so crops near an edge come back
// smaller. scale multiplies both dimensions.
func Magnify(buf *PixelBuffer, x, y, radius, scale int) (*MagnifyResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if x < 0 || x >= buf.Width || y < 0 || y >= buf.Height {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds %dx%d", x, y, buf.Width, buf.Height)
	}
	if radius < 1 {
		return nil, fmt.Errorf("magnify radius must be at least 1, got %d", radius)
	}
	if scale < 1 || scale > 32 {
		return nil, fmt.Errorf("magnify scale must be between 1 and 32, got %d", scale)
	}

	rect := image.Rect(x-radius, y-radius, x+radius+1, y+radius+1)
	rect = rect.Intersect(image.Rect(0, 0, buf.Width, buf.Height))

	cropped := imaging.Crop(buf.ToImage(), rect)
	scaled := imaging.Resize(cropped, rect.Dx()*scale, rect.Dy()*scale, imaging.NearestNeighbor)

	encoded, err := encodeNRGBA(scaled)
	if err != nil {
		return nil, fmt.Errorf("failed to encode magnified region: %w", err)
	}

	center, err := PickColor(buf, x, y)
	if err != nil {
		return nil, err
	}

	return &MagnifyResult{
		CenterX:     x,
		CenterY:     y,
		RegionX:     rect.Min.X,
		RegionY:     rect.Min.Y,
		RegionW:     rect.Dx(),
		RegionH:     rect.Dy(),
		Scale:       scale,
		Width:       scaled.Bounds().Dx(),
		Height:      scaled.Bounds().Dy(),
		Center:      *center,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
