package layout

import (
	"fmt"
	"sort"
)

// Command is a single edit to a Lines value. Commands are applied through
// Lines.Apply, which returns the updated snapshot and never mutates the
// receiver; a failed command leaves the prior snapshot in force.
type Command interface {
	apply(Lines) (Lines, error)
}

// Apply runs one command against the snapshot and returns the result.
func (l Lines) Apply(cmd Command) (Lines, error) {
	if cmd == nil {
		return l, fmt.Errorf("no command to apply")
	}
	return cmd.apply(l)
}

// SetLine stores or clears one reference line. A nil Value clears the line
// back to unset; otherwise the coordinate must lie within the image, Y
// values in [0, height] and X values in [0, width].
type SetLine struct {
	Line  LineKind
	Value *int
}

func (c SetLine) apply(l Lines) (Lines, error) {
	slot := l.slot(c.Line)
	if slot == nil {
		return l, fmt.Errorf("unknown reference line %d", int(c.Line))
	}
	if c.Value == nil {
		next := l
		*next.slot(c.Line) = optInt{}
		return next, nil
	}

	v := *c.Value
	if v < 0 || v > l.limit(c.Line) {
		axis := "y"
		if c.Line.isX() {
			axis = "x"
		}
		return l, fmt.Errorf("%s %s=%d outside image bounds [0,%d]", c.Line, axis, v, l.limit(c.Line))
	}

	next := l
	*next.slot(c.Line) = optInt{value: v, set: true}
	return next, nil
}

// AddLetterLine inserts a letter X coordinate into the ascending list.
// Positions within one pixel of an existing entry are rejected to prevent
// accidental double placement.
type AddLetterLine struct {
	X int
}

func (c AddLetterLine) apply(l Lines) (Lines, error) {
	if c.X < 0 || c.X > l.width {
		return l, fmt.Errorf("letter line x=%d outside image bounds [0,%d]", c.X, l.width)
	}
	for _, existing := range l.letterLines {
		d := c.X - existing
		if d < 0 {
			d = -d
		}
		if d <= 1 {
			return l, fmt.Errorf("letter line x=%d is within 1px of existing line at x=%d", c.X, existing)
		}
	}

	next := l
	at := sort.SearchInts(l.letterLines, c.X)
	merged := make([]int, 0, len(l.letterLines)+1)
	merged = append(merged, l.letterLines[:at]...)
	merged = append(merged, c.X)
	merged = append(merged, l.letterLines[at:]...)
	next.letterLines = merged
	return next, nil
}

// RemoveLetterLine deletes the letter line at the given position in the
// ascending list.
type RemoveLetterLine struct {
	Index int
}

func (c RemoveLetterLine) apply(l Lines) (Lines, error) {
	if c.Index < 0 || c.Index >= len(l.letterLines) {
		return l, fmt.Errorf("letter line index %d out of range (have %d)", c.Index, len(l.letterLines))
	}
	next := l
	remaining := make([]int, 0, len(l.letterLines)-1)
	remaining = append(remaining, l.letterLines[:c.Index]...)
	remaining = append(remaining, l.letterLines[c.Index+1:]...)
	next.letterLines = remaining
	return next, nil
}
