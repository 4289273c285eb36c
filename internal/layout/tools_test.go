package layout

import "testing"

func TestParseTool(t *testing.T) {
	for tool, name := range toolNames {
		parsed, err := ParseTool(name)
		if err != nil {
			t.Errorf("ParseTool(%q) failed: %v", name, err)
			continue
		}
		if parsed != tool {
			t.Errorf("ParseTool(%q) = %v, want %v", name, parsed, tool)
		}
	}

	if _, err := ParseTool("lasso"); err == nil {
		t.Error("expected error for unknown tool")
	}
}

func TestPlaceAssignsClickCoordinate(t *testing.T) {
	tests := []struct {
		tool Tool
		line LineKind
		want int // which coordinate of the click (120, 45) lands in the line
	}{
		{ToolHeaderBottom, HeaderBottom, 45},
		{ToolFooterTop, FooterTop, 45},
		{ToolTextLine, TextLine, 45},
		{ToolBaseline, Baseline, 45},
		{ToolTopLine, TopLine, 45},
		{ToolLeftStart, LeftStart, 120},
		{ToolRightStart, RightStart, 120},
	}

	for _, tt := range tests {
		t.Run(tt.tool.String(), func(t *testing.T) {
			cmd, err := Place(tt.tool, 120, 45)
			if err != nil {
				t.Fatalf("Place failed: %v", err)
			}

			l, err := New(800, 600).Apply(cmd)
			if err != nil {
				t.Fatalf("applying placement failed: %v", err)
			}
			got, ok := l.Value(tt.line)
			if !ok || got != tt.want {
				t.Errorf("%s = %d,%v, want %d,true", tt.line, got, ok, tt.want)
			}
		})
	}
}

func TestPlaceLetterLine(t *testing.T) {
	cmd, err := Place(ToolLetterLine, 250, 99)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}

	l, err := New(800, 600).Apply(cmd)
	if err != nil {
		t.Fatalf("applying placement failed: %v", err)
	}
	got := l.LetterLines()
	if len(got) != 1 || got[0] != 250 {
		t.Errorf("LetterLines() = %v, want [250]", got)
	}
}

func TestPlaceUnknownTool(t *testing.T) {
	if _, err := Place(Tool(99), 1, 1); err == nil {
		t.Error("expected error for unknown tool")
	}
}
