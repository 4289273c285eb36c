package layout

import "fmt"

// LineKind identifies one of the named reference lines.
type LineKind int

const (
	// HeaderBottom is the Y coordinate under the stamp's header block.
	HeaderBottom LineKind = iota
	// FooterTop is the Y coordinate above the stamp's footer block.
	FooterTop
	// TextLine is the Y coordinate of the date text row.
	TextLine
	// Baseline is the optional Y coordinate under the text; defaults to
	// one pixel below FooterTop.
	Baseline
	// TopLine is the optional Y coordinate above the text; defaults to
	// one pixel above HeaderBottom.
	TopLine
	// LeftStart is the X coordinate where date text begins.
	LeftStart
	// RightStart is the X coordinate where right-aligned date text begins.
	RightStart
)

var lineNames = map[LineKind]string{
	HeaderBottom: "headerBottom",
	FooterTop:    "footerTop",
	TextLine:     "textLine",
	Baseline:     "baseline",
	TopLine:      "topLine",
	LeftStart:    "leftStart",
	RightStart:   "rightStart",
}

// String returns the line's wire name, as used in tool arguments and the
// exported stamp file.
func (k LineKind) String() string {
	if name, ok := lineNames[k]; ok {
		return name
	}
	return fmt.Sprintf("LineKind(%d)", int(k))
}

// ParseLineKind resolves a wire name back to its LineKind.
func ParseLineKind(name string) (LineKind, error) {
	for k, n := range lineNames {
		if n == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown reference line %q", name)
}

// isX reports whether the line stores an X coordinate (a vertical line on
// the image) rather than a Y coordinate.
func (k LineKind) isX() bool {
	return k == LeftStart || k == RightStart
}

type optInt struct {
	value int
	set   bool
}

// Lines is an immutable snapshot of the reference lines placed on one
// stamp image. The zero value is not usable; construct with New and evolve
// with Apply.
//
// Coordinates live in image space: Y values range over [0, height] and X
// values over [0, width], both ends inclusive. Logical ordering between
// lines (header above footer, top line above header, baseline below
// footer) is never enforced; Warnings reports violations so a client can
// surface them without blocking the workflow.
type Lines struct {
	width  int
	height int

	headerBottom optInt
	footerTop    optInt
	textLine     optInt
	baseline     optInt
	topLine      optInt
	leftStart    optInt
	rightStart   optInt

	// ascending, no two entries within 1px of each other
	letterLines []int
}

// New returns an empty Lines for an image of the given dimensions.
func New(width, height int) Lines {
	return Lines{width: width, height: height}
}

// Bounds returns the image dimensions the lines are placed against.
func (l Lines) Bounds() (width, height int) {
	return l.width, l.height
}

// Value returns the stored coordinate for a line and whether it is set.
func (l Lines) Value(k LineKind) (int, bool) {
	s := l.slot(k)
	if s == nil {
		return 0, false
	}
	return s.value, s.set
}

// LetterLines returns a copy of the letter X coordinates in ascending
// order.
func (l Lines) LetterLines() []int {
	out := make([]int, len(l.letterLines))
	copy(out, l.letterLines)
	return out
}

// ResolvedBaseline returns the explicit baseline if set, else one pixel
// below footerTop. Unresolvable until footerTop is set.
func (l Lines) ResolvedBaseline() (int, bool) {
	if l.baseline.set {
		return l.baseline.value, true
	}
	if l.footerTop.set {
		return l.footerTop.value + 1, true
	}
	return 0, false
}

// ResolvedTopLine returns the explicit topLine if set, else one pixel
// above headerBottom. Unresolvable until headerBottom is set.
func (l Lines) ResolvedTopLine() (int, bool) {
	if l.topLine.set {
		return l.topLine.value, true
	}
	if l.headerBottom.set {
		return l.headerBottom.value - 1, true
	}
	return 0, false
}

// FontSize returns textLine minus the resolved top line. The value is not
// clamped; a top line placed below the text yields a negative size.
// Unresolvable until textLine and headerBottom (or an explicit topLine)
// are set.
func (l Lines) FontSize() (int, bool) {
	top, ok := l.ResolvedTopLine()
	if !ok || !l.textLine.set {
		return 0, false
	}
	return l.textLine.value - top, true
}

// ExportReady reports whether every line the stamp record requires has
// been placed.
func (l Lines) ExportReady() bool {
	return len(l.missing()) == 0
}

// Missing lists the required lines not yet placed, in canonical order.
func (l Lines) Missing() []string {
	return l.missing()
}

func (l Lines) missing() []string {
	required := []LineKind{HeaderBottom, FooterTop, TextLine, LeftStart, RightStart}
	var out []string
	for _, k := range required {
		if _, ok := l.Value(k); !ok {
			out = append(out, k.String())
		}
	}
	return out
}

// Warnings reports advisory ordering violations. A layout that warns is
// still legal to store and export.
func (l Lines) Warnings() []string {
	var out []string
	if l.headerBottom.set && l.footerTop.set && l.headerBottom.value >= l.footerTop.value {
		out = append(out, fmt.Sprintf("headerBottom %d is not above footerTop %d",
			l.headerBottom.value, l.footerTop.value))
	}
	if top, ok := l.ResolvedTopLine(); ok && l.headerBottom.set && top >= l.headerBottom.value {
		out = append(out, fmt.Sprintf("topLine %d is not above headerBottom %d",
			top, l.headerBottom.value))
	}
	if base, ok := l.ResolvedBaseline(); ok && l.footerTop.set && base <= l.footerTop.value {
		out = append(out, fmt.Sprintf("baseline %d is not below footerTop %d",
			base, l.footerTop.value))
	}
	return out
}

// slot returns the field backing a line kind. Callers must not retain the
// pointer across copies; it addresses the receiver's own field.
func (l *Lines) slot(k LineKind) *optInt {
	switch k {
	case HeaderBottom:
		return &l.headerBottom
	case FooterTop:
		return &l.footerTop
	case TextLine:
		return &l.textLine
	case Baseline:
		return &l.baseline
	case TopLine:
		return &l.topLine
	case LeftStart:
		return &l.leftStart
	case RightStart:
		return &l.rightStart
	}
	return nil
}

// limit returns the inclusive upper bound for a line's coordinate.
func (l Lines) limit(k LineKind) int {
	if k.isX() {
		return l.width
	}
	return l.height
}
