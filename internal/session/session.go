// Package session tracks one stamp editing session: the loaded photo, the
// processed buffer, the picked background color, and the reference lines.
//
// A Session is not safe for concurrent use. The stdio server handles one
// request at a time, so all access is already serialized; any other caller
// must provide its own synchronization.
package session

import (
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
	"github.com/ironsheep/stamp-tools-mcp/internal/layout"
	"github.com/ironsheep/stamp-tools-mcp/internal/stamp"
)

// ErrNoImage is returned by operations that need an image before one has
// been loaded.
var ErrNoImage = errors.New("no image loaded")

// Session is the mutable state behind the stamp tools. The original buffer
// is kept untouched from load to export so background removal can always
// be reverted; edits happen on a derived processed buffer.
type Session struct {
	path      string
	info      *imaging.SourceInfo
	original  *imaging.PixelBuffer
	processed *imaging.PixelBuffer
	target    *imaging.TargetColor
	lines     layout.Lines
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Load reads an image file and resets the session around it: any processed
// buffer, picked color, and placed lines from a previous image are
// discarded.
func (s *Session) Load(path string) (*imaging.SourceInfo, error) {
	buf, info, err := imaging.LoadPixelBuffer(path)
	if err != nil {
		return nil, err
	}
	s.path = path
	s.info = info
	s.original = buf
	s.processed = nil
	s.target = nil
	s.lines = layout.New(buf.Width, buf.Height)
	return info, nil
}

// Loaded reports whether an image has been loaded.
func (s *Session) Loaded() bool {
	return s.original != nil
}

// Path returns the file path of the loaded image.
func (s *Session) Path() string {
	return s.path
}

// Info returns metadata about the loaded image file.
func (s *Session) Info() (*imaging.SourceInfo, error) {
	if !s.Loaded() {
		return nil, ErrNoImage
	}
	return s.info, nil
}

// Active returns the buffer current edits apply to: the processed buffer
// when background removal has run, otherwise the original.
func (s *Session) Active() (*imaging.PixelBuffer, error) {
	if !s.Loaded() {
		return nil, ErrNoImage
	}
	if s.processed != nil {
		return s.processed, nil
	}
	return s.original, nil
}

// PickColor samples the active buffer at (x, y) and makes the sampled
// color the background-removal target.
func (s *Session) PickColor(x, y int) (*imaging.PickResult, error) {
	buf, err := s.Active()
	if err != nil {
		return nil, err
	}
	result, err := imaging.PickColor(buf, x, y)
	if err != nil {
		return nil, err
	}
	s.target = &result.Color
	return result, nil
}

// SetTargetHex sets the background-removal target from a hex string
// instead of a sampled pixel.
func (s *Session) SetTargetHex(hex string) (imaging.TargetColor, error) {
	if !s.Loaded() {
		return imaging.TargetColor{}, ErrNoImage
	}
	target, err := imaging.ParseTargetHex(hex)
	if err != nil {
		return imaging.TargetColor{}, err
	}
	s.target = &target
	return target, nil
}

// Target returns the current background-removal target, if one has been
// picked.
func (s *Session) Target() (imaging.TargetColor, bool) {
	if s.target == nil {
		return imaging.TargetColor{}, false
	}
	return *s.target, true
}

// RemoveBackground converts the target color to transparency on the
// active buffer and stores the result as the processed buffer. Running it
// again stacks another pass on the current result; Revert drops back to
// the original in one step.
func (s *Session) RemoveBackground() (*imaging.PixelBuffer, error) {
	buf, err := s.Active()
	if err != nil {
		return nil, err
	}
	if s.target == nil {
		return nil, fmt.Errorf("no target color picked")
	}
	out, err := imaging.ColorToAlpha(buf, *s.target)
	if err != nil {
		return nil, err
	}
	s.processed = out
	return out, nil
}

// BackgroundRemoved reports whether a processed buffer exists.
func (s *Session) BackgroundRemoved() bool {
	return s.processed != nil
}

// Revert discards the processed buffer, restoring the original image as
// the active buffer. The picked target and placed lines are kept.
func (s *Session) Revert() error {
	if !s.Loaded() {
		return ErrNoImage
	}
	if s.processed == nil {
		return fmt.Errorf("background removal has not been applied")
	}
	s.processed = nil
	return nil
}

// Lines returns the current reference line snapshot.
func (s *Session) Lines() (layout.Lines, error) {
	if !s.Loaded() {
		return layout.Lines{}, ErrNoImage
	}
	return s.lines, nil
}

// Apply runs a layout command against the current lines and, on success,
// stores the new snapshot.
func (s *Session) Apply(cmd layout.Command) (layout.Lines, error) {
	if !s.Loaded() {
		return layout.Lines{}, ErrNoImage
	}
	next, err := s.lines.Apply(cmd)
	if err != nil {
		return s.lines, err
	}
	s.lines = next
	return next, nil
}

// Place translates a canvas click with the given tool into a layout
// command and applies it.
func (s *Session) Place(tool layout.Tool, x, y int) (layout.Lines, error) {
	if !s.Loaded() {
		return layout.Lines{}, ErrNoImage
	}
	cmd, err := layout.Place(tool, x, y)
	if err != nil {
		return s.lines, err
	}
	return s.Apply(cmd)
}

// Export assembles the stamp record from the active buffer and the placed
// lines. When background removal never ran, the original image is
// exported as-is.
func (s *Session) Export(name string) (*stamp.Record, error) {
	buf, err := s.Active()
	if err != nil {
		return nil, err
	}
	return stamp.Assemble(buf, s.lines, name, imaging.EncodePNGBase64)
}

// WriteExport assembles the stamp record and writes its JSON serialization
// to path.
func (s *Session) WriteExport(name, path string) (*stamp.Record, error) {
	record, err := s.Export(name)
	if err != nil {
		return nil, err
	}
	data, err := stamp.Serialize(record)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write stamp file: %w", err)
	}
	return record, nil
}
