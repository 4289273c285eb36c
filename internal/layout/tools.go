package layout

import "fmt"

// Tool is a canvas placement mode. Each tool turns a click at image
// coordinates into one Command; which coordinate the click contributes
// depends on the tool (horizontal lines take the Y, vertical lines the X).
type Tool int

const (
	ToolHeaderBottom Tool = iota
	ToolFooterTop
	ToolTextLine
	ToolBaseline
	ToolTopLine
	ToolLeftStart
	ToolRightStart
	ToolLetterLine
)

var toolNames = map[Tool]string{
	ToolHeaderBottom: "headerBottom",
	ToolFooterTop:    "footerTop",
	ToolTextLine:     "textLine",
	ToolBaseline:     "baseline",
	ToolTopLine:      "topLine",
	ToolLeftStart:    "leftStart",
	ToolRightStart:   "rightStart",
	ToolLetterLine:   "letterLine",
}

// placements maps each tool to the command a click produces. Coordinates
// are already-mapped image-space integers; display-to-image scaling is the
// caller's concern.
var placements = map[Tool]func(x, y int) Command{
	ToolHeaderBottom: setY(HeaderBottom),
	ToolFooterTop:    setY(FooterTop),
	ToolTextLine:     setY(TextLine),
	ToolBaseline:     setY(Baseline),
	ToolTopLine:      setY(TopLine),
	ToolLeftStart:    setX(LeftStart),
	ToolRightStart:   setX(RightStart),
	ToolLetterLine: func(x, _ int) Command {
		return AddLetterLine{X: x}
	},
}

func setY(k LineKind) func(x, y int) Command {
	return func(_, y int) Command {
		v := y
		return SetLine{Line: k, Value: &v}
	}
}

func setX(k LineKind) func(x, y int) Command {
	return func(x, _ int) Command {
		v := x
		return SetLine{Line: k, Value: &v}
	}
}

// String returns the tool's wire name.
func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// ParseTool resolves a wire name to its Tool.
func ParseTool(name string) (Tool, error) {
	for t, n := range toolNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tool %q", name)
}

// Place returns the command produced by clicking at (x, y) with the given
// tool active.
func Place(t Tool, x, y int) (Command, error) {
	build, ok := placements[t]
	if !ok {
		return nil, fmt.Errorf("unknown tool %d", int(t))
	}
	return build(x, y), nil
}
