package stamp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
	"github.com/ironsheep/stamp-tools-mcp/internal/layout"
)

// RecordType is the constant type tag every exported stamp carries.
const RecordType = "SYNDICATE"

// Coordinate is an {x,y} pair in the exported record.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Record is the exported stamp artifact. Field names are fixed by the
// stamp file format consumed downstream; do not rename the JSON tags.
type Record struct {
	Name            string       `json:"name"`
	Type            string       `json:"type"`
	ReferenceHeight int          `json:"referenceHeight"`
	HeaderBottom    int          `json:"headerBottom"`
	FooterTop       int          `json:"footerTop"`
	FontSize        int          `json:"fontSize"`
	LeftStart       Coordinate   `json:"leftStart"`
	RightStart      Coordinate   `json:"rightStart"`
	BaseCoordinate  []Coordinate `json:"baseCoordinate"`
	Offset          Coordinate   `json:"offset"`
	ImageData       string       `json:"imageData"`
}

// EncodeFunc renders a pixel buffer as base64 PNG data. Assemble takes the
// encoder as a collaborator so record construction stays independent of
// the codec.
type EncodeFunc func(*imaging.PixelBuffer) (string, error)

// ValidationError reports an export attempted before the stamp was ready.
// Missing lists every unmet precondition, not just the first, so a client
// can show the whole remaining checklist at once.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("stamp record not exportable: missing %s", strings.Join(e.Missing, ", "))
}

// Assemble builds a stamp record from the processed image, the placed
// reference lines, and a stamp name.
//
// It fails with a *ValidationError when the name is empty or any required
// line is unset. Derived fields follow the stamp file format: fontSize is
// textLine minus the resolved top line (unclamped), leftStart and
// rightStart carry the textLine as their Y, baseCoordinate maps each
// letter line to {x, textLine} in ascending order, and offset is always
// {0,0}.
func Assemble(buf *imaging.PixelBuffer, lines layout.Lines, name string, encode EncodeFunc) (*Record, error) {
	if buf == nil {
		return nil, fmt.Errorf("no image to export")
	}
	if err := buf.Validate(); err != nil {
		return nil, err
	}
	if w, h := lines.Bounds(); w != buf.Width || h != buf.Height {
		return nil, fmt.Errorf("reference lines are for a %dx%d image, buffer is %dx%d",
			w, h, buf.Width, buf.Height)
	}
	if encode == nil {
		return nil, fmt.Errorf("png encoder is required")
	}

	name = strings.TrimSpace(name)
	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	missing = append(missing, lines.Missing()...)
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	headerBottom, _ := lines.Value(layout.HeaderBottom)
	footerTop, _ := lines.Value(layout.FooterTop)
	textLine, _ := lines.Value(layout.TextLine)
	leftStart, _ := lines.Value(layout.LeftStart)
	rightStart, _ := lines.Value(layout.RightStart)
	fontSize, _ := lines.FontSize()

	letters := lines.LetterLines()
	base := make([]Coordinate, 0, len(letters))
	for _, x := range letters {
		base = append(base, Coordinate{X: x, Y: textLine})
	}

	imageData, err := encode(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to encode stamp image: %w", err)
	}

	return &Record{
		Name:            name,
		Type:            RecordType,
		ReferenceHeight: buf.Height,
		HeaderBottom:    headerBottom,
		FooterTop:       footerTop,
		FontSize:        fontSize,
		LeftStart:       Coordinate{X: leftStart, Y: textLine},
		RightStart:      Coordinate{X: rightStart, Y: textLine},
		BaseCoordinate:  base,
		Offset:          Coordinate{},
		ImageData:       imageData,
	}, nil
}

// Serialize renders the record as indented UTF-8 JSON.
func Serialize(r *Record) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize stamp record: %w", err)
	}
	return data, nil
}

// Parse reads a serialized stamp record.
func Parse(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse stamp record: %w", err)
	}
	return &r, nil
}
