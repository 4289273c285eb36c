package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// TargetColor is the fully opaque RGB color that background removal
// turns transparent.
type TargetColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// Hex returns the color as an uppercase #RRGGBB string.
func (t TargetColor) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", t.R, t.G, t.B)
}

// AlphaStats summarizes the alpha channel of a buffer after background
// removal. Transparent counts pixels with alpha 0, Opaque counts alpha
// 255, and Partial is everything in between.
type AlphaStats struct {
	Transparent int `json:"transparent_pixels"`
	Partial     int `json:"partial_pixels"`
	Opaque      int `json:"opaque_pixels"`
}

// ColorToAlpha converts the target color to transparency across the whole
// buffer, returning a new buffer and leaving src untouched.
//
// For every pixel the channel-wise ratio pixel/target is computed over the
// channels where the target is nonzero; the minimum ratio, clamped to
// [0,1], becomes the pixel's remaining similarity to the target. Alpha is
// one minus that similarity, and where any alpha remains the color is
// un-blended from the target so that compositing the result back over the
// target color reproduces the source. Pixels that end fully transparent
// get zeroed color channels.
//
// The source alpha channel does not participate; output alpha is derived
// purely from the color distance. A pure black target therefore drives
// every ratio to 1 and yields a fully transparent result.
//
// Rows are independent, so the work is chunked across CPUs by row.
func ColorToAlpha(src *PixelBuffer, target TargetColor) (*PixelBuffer, error) {
	if src == nil {
		return nil, fmt.Errorf("no source image for background removal")
	}
	if err := src.Validate(); err != nil {
		return nil, fmt.Errorf("background removal: %w", err)
	}

	out := NewPixelBuffer(src.Width, src.Height)
	tr := float64(target.R) / 255.0
	tg := float64(target.G) / 255.0
	tb := float64(target.B) / 255.0

	parallel.Line(src.Height, func(start, end int) {
		for y := start; y < end; y++ {
			row := y * src.Width * 4
			for x := 0; x < src.Width; x++ {
				i := row + x*4
				r := float64(src.Pix[i]) / 255.0
				g := float64(src.Pix[i+1]) / 255.0
				b := float64(src.Pix[i+2]) / 255.0

				ratio := 1.0
				if tr > 0 {
					ratio = math.Min(ratio, r/tr)
				}
				if tg > 0 {
					ratio = math.Min(ratio, g/tg)
				}
				if tb > 0 {
					ratio = math.Min(ratio, b/tb)
				}
				ratio = clamp01(ratio)

				alpha := 1.0 - ratio
				var rr, rg, rb float64
				if alpha > 0 {
					rr = clamp01((r - tr*ratio) / alpha)
					rg = clamp01((g - tg*ratio) / alpha)
					rb = clamp01((b - tb*ratio) / alpha)
				}

				out.Pix[i] = uint8(math.Round(rr * 255.0))
				out.Pix[i+1] = uint8(math.Round(rg * 255.0))
				out.Pix[i+2] = uint8(math.Round(rb * 255.0))
				out.Pix[i+3] = uint8(math.Round(alpha * 255.0))
			}
		}
	})

	return out, nil
}

// CountAlpha tallies the buffer's pixels into transparency buckets.
func CountAlpha(buf *PixelBuffer) AlphaStats {
	var stats AlphaStats
	for i := 3; i < len(buf.Pix); i += 4 {
		switch buf.Pix[i] {
		case 0:
			stats.Transparent++
		case 255:
			stats.Opaque++
		default:
			stats.Partial++
		}
	}
	return stats
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
