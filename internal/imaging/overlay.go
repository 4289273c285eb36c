package imaging

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Axis selects the orientation of a guide line.
type Axis int

const (
	// Horizontal guides run the full width at a fixed Y.
	Horizontal Axis = iota
	// Vertical guides run the full height at a fixed X.
	Vertical
)

// GuideStyle selects how a guide line is rendered.
type GuideStyle int

const (
	// StyleRequired marks lines the user placed that export depends on.
	StyleRequired GuideStyle = iota
	// StyleDerived marks resolved default positions; drawn dashed.
	StyleDerived
	// StyleLetter marks letter-start positions.
	StyleLetter
)

// GuideLine is one reference line to render onto a preview.
type GuideLine struct {
	Axis  Axis
	Pos   int
	Label string
	Style GuideStyle
}

// OverlayResult contains a preview image with guide lines drawn on it.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	GuideCount  int    `json:"guide_count"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

var guidePalette = map[GuideStyle]color.NRGBA{
	StyleRequired: {R: 220, G: 40, B: 40, A: 255},
	StyleDerived:  {R: 40, G: 90, B: 220, A: 255},
	StyleLetter:   {R: 30, G: 160, B: 60, A: 255},
}

// RenderGuides draws the given guide lines over a copy of the buffer and
// returns the result as base64-encoded PNG data. The buffer itself is not
// modified.
//
// Guides positioned at the far edge of the coordinate range (x == width or
// y == height) are legal model values but have no pixel row or column to
// occupy, so they are skipped; the guide count in the result reflects only
// what was drawn.
func RenderGuides(buf *PixelBuffer, guides []GuideLine) (*OverlayResult, error) {
	if err := buf.Validate(); err != nil {
		return nil, err
	}

	img := buf.ToImage()
	drawn := 0
	for _, g := range guides {
		if drawGuide(img, g) {
			drawn++
		}
	}

	encoded, err := encodeNRGBA(img)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{
		Width:       buf.Width,
		Height:      buf.Height,
		GuideCount:  drawn,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func drawGuide(img *image.NRGBA, g GuideLine) bool {
	b := img.Bounds()
	c, ok := guidePalette[g.Style]
	if !ok {
		c = guidePalette[StyleRequired]
	}
	dashed := g.Style == StyleDerived

	switch g.Axis {
	case Horizontal:
		if g.Pos < 0 || g.Pos >= b.Dy() {
			return false
		}
		for x := 0; x < b.Dx(); x++ {
			if dashed && x%8 >= 4 {
				continue
			}
			img.SetNRGBA(x, g.Pos, c)
		}
		if g.Label != "" {
			ly := g.Pos - 3
			if ly < 12 {
				ly = g.Pos + 13
			}
			drawGuideLabel(img, 4, ly, g.Label)
		}
	case Vertical:
		if g.Pos < 0 || g.Pos >= b.Dx() {
			return false
		}
		for y := 0; y < b.Dy(); y++ {
			if dashed && y%8 >= 4 {
				continue
			}
			img.SetNRGBA(g.Pos, y, c)
		}
		if g.Label != "" {
			drawGuideLabel(img, g.Pos+4, 12, g.Label)
		}
	}
	return true
}

// drawGuideLabel renders text with its baseline at (x, y), boxed on a dark
// background so it stays readable over any stamp.
func drawGuideLabel(img *image.NRGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 255}),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	w := d.MeasureString(text).Ceil()

	bg := image.Rect(x-2, y-face.Ascent-1, x+w+2, y+face.Descent+1).Intersect(img.Bounds())
	draw.Draw(img, bg, image.NewUniform(color.NRGBA{A: 200}), image.Point{}, draw.Over)

	d.DrawString(text)
}
