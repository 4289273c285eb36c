package detect

import (
	"fmt"

	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
)

const (
	// rowInkThreshold is the fraction of inked pixels a row needs to
	// count as content.
	rowInkThreshold = 0.02
	// minBandHeight filters out single-row noise bands.
	minBandHeight = 2
	// colGap is the number of consecutive empty columns that separates
	// two letters inside the text band.
	colGap = 2
	// colInkFraction is the fraction of the band height a column must
	// ink to count as part of a letter stroke.
	colInkFraction = 0.15
	// darkLuminance is the cutoff below which an opaque pixel counts as
	// ink when the image has no transparency to go by.
	darkLuminance = 128.0
)

// Guides holds suggested reference line positions derived from the ink
// distribution of a stamp image. Nil fields mean the detector found no
// evidence for that line; suggestions are advisory and never applied to
// the layout automatically.
//
// Line fields use the stamp file vocabulary.
type Guides struct {
	HeaderBottom *int    `json:"headerBottom,omitempty"`
	FooterTop    *int    `json:"footerTop,omitempty"`
	TextLine     *int    `json:"textLine,omitempty"`
	TopLine      *int    `json:"topLine,omitempty"`
	LeftStart    *int    `json:"leftStart,omitempty"`
	RightStart   *int    `json:"rightStart,omitempty"`
	LetterLines  []int   `json:"letterLines"`
	Bands        int     `json:"bands"`
	InkCoverage  float64 `json:"inkCoverage"`
}

// band is a maximal run of content rows.
type band struct {
	top    int
	bottom int
	mass   float64
}

// SuggestGuides profiles the ink distribution of the buffer and proposes
// reference line positions.
//
// Rows are grouped into content bands by ink density. With one band the
// band is taken as the text; with two the upper band is taken as the
// header; with three or more the outermost bands become header and footer
// and the densest interior band becomes the text. Letter positions are the
// leading edges of ink runs across the text band.
//
// On an image that has been through background removal, ink means alpha at
// or above 50%. On a fully opaque image, ink means dark pixels.
func SuggestGuides(buf *imaging.PixelBuffer) (*Guides, error) {
	if buf == nil {
		return nil, fmt.Errorf("no image to analyze")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if buf.Width == 0 || buf.Height == 0 {
		return nil, fmt.Errorf("image has no pixels to analyze")
	}

	mask, inked := inkMask(buf)
	g := &Guides{
		LetterLines: []int{},
		InkCoverage: float64(inked) / float64(buf.Width*buf.Height),
	}

	bands := contentBands(mask, buf.Width, buf.Height)
	g.Bands = len(bands)
	if len(bands) == 0 {
		return g, nil
	}

	var header, footer, text band
	hasHeader, hasFooter := false, false
	switch {
	case len(bands) == 1:
		text = bands[0]
	case len(bands) == 2:
		header, text = bands[0], bands[1]
		hasHeader = true
	default:
		header = bands[0]
		footer = bands[len(bands)-1]
		hasHeader, hasFooter = true, true
		text = bands[1]
		for _, b := range bands[1 : len(bands)-1] {
			if b.mass > text.mass {
				text = b
			}
		}
	}

	if hasHeader {
		g.HeaderBottom = intp(header.bottom)
	}
	if hasFooter {
		g.FooterTop = intp(footer.top)
	}
	g.TextLine = intp(text.bottom)
	g.TopLine = intp(text.top)

	profileText(g, mask, buf.Width, text)
	return g, nil
}

// inkMask classifies every pixel as ink or background and returns the
// mask together with the total ink count.
func inkMask(buf *imaging.PixelBuffer) ([]bool, int) {
	mask := make([]bool, buf.Width*buf.Height)
	byAlpha := buf.HasTransparency()

	inked := 0
	for i := 0; i < len(mask); i++ {
		o := i * 4
		if byAlpha {
			mask[i] = buf.Pix[o+3] >= 128
		} else {
			lum := 0.299*float64(buf.Pix[o]) + 0.587*float64(buf.Pix[o+1]) + 0.114*float64(buf.Pix[o+2])
			mask[i] = lum < darkLuminance
		}
		if mask[i] {
			inked++
		}
	}
	return mask, inked
}

// contentBands finds maximal runs of rows whose ink fraction clears the
// threshold, dropping runs shorter than minBandHeight.
func contentBands(mask []bool, width, height int) []band {
	var bands []band
	var current *band

	for y := 0; y < height; y++ {
		count := 0
		for x := 0; x < width; x++ {
			if mask[y*width+x] {
				count++
			}
		}
		frac := float64(count) / float64(width)

		if frac >= rowInkThreshold {
			if current == nil {
				current = &band{top: y}
			}
			current.bottom = y
			current.mass += frac
			continue
		}
		if current != nil {
			if current.bottom-current.top+1 >= minBandHeight {
				bands = append(bands, *current)
			}
			current = nil
		}
	}
	if current != nil && current.bottom-current.top+1 >= minBandHeight {
		bands = append(bands, *current)
	}
	return bands
}

// profileText fills leftStart, rightStart, and letterLines from the
// column ink profile of the text band.
func profileText(g *Guides, mask []bool, width int, text band) {
	bandHeight := text.bottom - text.top + 1
	minCount := int(colInkFraction * float64(bandHeight))
	if minCount < 1 {
		minCount = 1
	}

	counts := make([]int, width)
	for y := text.top; y <= text.bottom; y++ {
		for x := 0; x < width; x++ {
			if mask[y*width+x] {
				counts[x]++
			}
		}
	}

	left, right := -1, -1
	gap := colGap
	inRun := false
	for x := 0; x < width; x++ {
		if counts[x] >= minCount {
			if left == -1 {
				left = x
			}
			right = x
			if !inRun && gap >= colGap {
				g.LetterLines = append(g.LetterLines, x)
			}
			inRun = true
			gap = 0
			continue
		}
		gap++
		if gap >= colGap {
			inRun = false
		}
	}

	if left != -1 {
		g.LeftStart = intp(left)
		g.RightStart = intp(right)
	}
}

func intp(v int) *int { return &v }
