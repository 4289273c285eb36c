package server

import (
	"encoding/json"
	"fmt"

	"github.com/ironsheep/stamp-tools-mcp/internal/detect"
	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
	"github.com/ironsheep/stamp-tools-mcp/internal/layout"
	"github.com/ironsheep/stamp-tools-mcp/internal/ocr"
	"github.com/ironsheep/stamp-tools-mcp/internal/stamp"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "stamp_load", "stamp_export").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON (rejecting non-integer coordinates)
//  2. Applies default values for optional parameters
//  3. Calls into the editing session
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Session
	case "stamp_load":
		return s.handleStampLoad(args)
	case "stamp_info":
		return s.handleStampInfo()

	// Target Color
	case "stamp_pick_color":
		return s.handleStampPickColor(args)
	case "stamp_set_target":
		return s.handleStampSetTarget(args)
	case "stamp_magnify":
		return s.handleStampMagnify(args)

	// Background Removal
	case "stamp_remove_background":
		return s.handleStampRemoveBackground()
	case "stamp_revert":
		return s.handleStampRevert()

	// Reference Lines
	case "stamp_set_line":
		return s.handleStampSetLine(args)
	case "stamp_place":
		return s.handleStampPlace(args)
	case "stamp_add_letter_line":
		return s.handleStampAddLetterLine(args)
	case "stamp_remove_letter_line":
		return s.handleStampRemoveLetterLine(args)
	case "stamp_lines":
		return s.handleStampLines()
	case "stamp_preview":
		return s.handleStampPreview(args)
	case "stamp_suggest_lines":
		return s.handleStampSuggestLines()

	// Naming
	case "stamp_suggest_name":
		return s.handleStampSuggestName(args)

	// Export
	case "stamp_export":
		return s.handleStampExport(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Result Snapshots ===

// linesState is the wire snapshot of the reference-line model, returned by
// every line-editing tool. Field names follow the stamp file vocabulary.
type linesState struct {
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HeaderBottom     *int     `json:"headerBottom"`
	FooterTop        *int     `json:"footerTop"`
	TextLine         *int     `json:"textLine"`
	Baseline         *int     `json:"baseline"`
	TopLine          *int     `json:"topLine"`
	LeftStart        *int     `json:"leftStart"`
	RightStart       *int     `json:"rightStart"`
	LetterLines      []int    `json:"letterLines"`
	ResolvedBaseline *int     `json:"resolvedBaseline"`
	ResolvedTopLine  *int     `json:"resolvedTopLine"`
	FontSize         *int     `json:"fontSize"`
	ExportReady      bool     `json:"exportReady"`
	Missing          []string `json:"missing"`
	Warnings         []string `json:"warnings"`
}

func newLinesState(l layout.Lines) *linesState {
	st := &linesState{
		HeaderBottom: lineValue(l, layout.HeaderBottom),
		FooterTop:    lineValue(l, layout.FooterTop),
		TextLine:     lineValue(l, layout.TextLine),
		Baseline:     lineValue(l, layout.Baseline),
		TopLine:      lineValue(l, layout.TopLine),
		LeftStart:    lineValue(l, layout.LeftStart),
		RightStart:   lineValue(l, layout.RightStart),
		LetterLines:  l.LetterLines(),
		ExportReady:  l.ExportReady(),
		Missing:      l.Missing(),
		Warnings:     l.Warnings(),
	}
	st.Width, st.Height = l.Bounds()
	if v, ok := l.ResolvedBaseline(); ok {
		st.ResolvedBaseline = &v
	}
	if v, ok := l.ResolvedTopLine(); ok {
		st.ResolvedTopLine = &v
	}
	if v, ok := l.FontSize(); ok {
		st.FontSize = &v
	}
	// Arrays marshal as [] rather than null for client convenience.
	if st.LetterLines == nil {
		st.LetterLines = []int{}
	}
	if st.Missing == nil {
		st.Missing = []string{}
	}
	if st.Warnings == nil {
		st.Warnings = []string{}
	}
	return st
}

func lineValue(l layout.Lines, k layout.LineKind) *int {
	if v, ok := l.Value(k); ok {
		return &v
	}
	return nil
}

// targetState reports the current background-removal target.
type targetState struct {
	Hex   string              `json:"hex"`
	Color imaging.TargetColor `json:"color"`
}

// sessionState is the stamp_info snapshot.
type sessionState struct {
	Loaded            bool         `json:"loaded"`
	Path              string       `json:"path,omitempty"`
	Width             int          `json:"width,omitempty"`
	Height            int          `json:"height,omitempty"`
	Format            string       `json:"format,omitempty"`
	Target            *targetState `json:"target,omitempty"`
	BackgroundRemoved bool         `json:"background_removed"`
	OCR               ocr.Info     `json:"ocr"`
	Lines             *linesState  `json:"lines,omitempty"`
}

// === Session Handlers ===

type stampLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleStampLoad(args json.RawMessage) (interface{}, error) {
	var a stampLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.Load(a.Path)
}

func (s *Server) handleStampInfo() (interface{}, error) {
	st := &sessionState{
		Loaded:            s.session.Loaded(),
		BackgroundRemoved: s.session.BackgroundRemoved(),
		OCR:               ocr.Status(),
	}
	if !st.Loaded {
		return st, nil
	}

	info, err := s.session.Info()
	if err != nil {
		return nil, err
	}
	st.Path = info.Path
	st.Width = info.Width
	st.Height = info.Height
	st.Format = info.Format

	if target, ok := s.session.Target(); ok {
		st.Target = &targetState{Hex: target.Hex(), Color: target}
	}

	lines, err := s.session.Lines()
	if err != nil {
		return nil, err
	}
	st.Lines = newLinesState(lines)
	return st, nil
}

// === Target Color Handlers ===

type stampPickColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleStampPickColor(args json.RawMessage) (interface{}, error) {
	var a stampPickColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.session.PickColor(a.X, a.Y)
}

type stampSetTargetArgs struct {
	Hex string `json:"hex"`
}

func (s *Server) handleStampSetTarget(args json.RawMessage) (interface{}, error) {
	var a stampSetTargetArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	target, err := s.session.SetTargetHex(a.Hex)
	if err != nil {
		return nil, err
	}
	return &targetState{Hex: target.Hex(), Color: target}, nil
}

type stampMagnifyArgs struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Radius int `json:"radius"`
	Scale  int `json:"scale"`
}

func (s *Server) handleStampMagnify(args json.RawMessage) (interface{}, error) {
	var a stampMagnifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Radius == 0 {
		a.Radius = 8
	}
	if a.Scale == 0 {
		a.Scale = 8
	}
	buf, err := s.session.Active()
	if err != nil {
		return nil, err
	}
	return imaging.Magnify(buf, a.X, a.Y, a.Radius, a.Scale)
}

// === Background Removal Handlers ===

// removeBackgroundResult carries the processed preview and its alpha stats.
type removeBackgroundResult struct {
	Target      string             `json:"target"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Stats       imaging.AlphaStats `json:"stats"`
	ImageBase64 string             `json:"image_base64"`
	MimeType    string             `json:"mime_type"`
}

func (s *Server) handleStampRemoveBackground() (interface{}, error) {
	out, err := s.session.RemoveBackground()
	if err != nil {
		return nil, err
	}
	encoded, err := imaging.EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}
	target, _ := s.session.Target()
	return &removeBackgroundResult{
		Target:      target.Hex(),
		Width:       out.Width,
		Height:      out.Height,
		Stats:       imaging.CountAlpha(out),
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}

func (s *Server) handleStampRevert() (interface{}, error) {
	if err := s.session.Revert(); err != nil {
		return nil, err
	}
	return s.handleStampInfo()
}

// === Reference Line Handlers ===

// applyCommand runs one line edit and returns the resulting snapshot.
func (s *Server) applyCommand(cmd layout.Command) (interface{}, error) {
	lines, err := s.session.Apply(cmd)
	if err != nil {
		return nil, err
	}
	return newLinesState(lines), nil
}

type stampSetLineArgs struct {
	Line string `json:"line"`
	// Value is a pointer so that an absent or null value clears the line.
	Value *int `json:"value"`
}

func (s *Server) handleStampSetLine(args json.RawMessage) (interface{}, error) {
	var a stampSetLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	kind, err := layout.ParseLineKind(a.Line)
	if err != nil {
		return nil, err
	}
	return s.applyCommand(layout.SetLine{Line: kind, Value: a.Value})
}

type stampPlaceArgs struct {
	Tool string `json:"tool"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleStampPlace(args json.RawMessage) (interface{}, error) {
	var a stampPlaceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	tool, err := layout.ParseTool(a.Tool)
	if err != nil {
		return nil, err
	}
	lines, err := s.session.Place(tool, a.X, a.Y)
	if err != nil {
		return nil, err
	}
	return newLinesState(lines), nil
}

type stampAddLetterLineArgs struct {
	X int `json:"x"`
}

func (s *Server) handleStampAddLetterLine(args json.RawMessage) (interface{}, error) {
	var a stampAddLetterLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.applyCommand(layout.AddLetterLine{X: a.X})
}

type stampRemoveLetterLineArgs struct {
	Index int `json:"index"`
}

func (s *Server) handleStampRemoveLetterLine(args json.RawMessage) (interface{}, error) {
	var a stampRemoveLetterLineArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.applyCommand(layout.RemoveLetterLine{Index: a.Index})
}

func (s *Server) handleStampLines() (interface{}, error) {
	lines, err := s.session.Lines()
	if err != nil {
		return nil, err
	}
	return newLinesState(lines), nil
}

type stampPreviewArgs struct {
	ShowDerived     *bool `json:"show_derived"`
	ShowLetterLines *bool `json:"show_letter_lines"`
}

func (s *Server) handleStampPreview(args json.RawMessage) (interface{}, error) {
	var a stampPreviewArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	showDerived := a.ShowDerived == nil || *a.ShowDerived
	showLetters := a.ShowLetterLines == nil || *a.ShowLetterLines

	buf, err := s.session.Active()
	if err != nil {
		return nil, err
	}
	lines, err := s.session.Lines()
	if err != nil {
		return nil, err
	}
	return imaging.RenderGuides(buf, buildGuides(lines, showDerived, showLetters))
}

// buildGuides converts the line model into drawable guides. Explicitly
// placed lines render solid, derived baseline/topLine fallbacks dashed,
// letter guides in their own color.
func buildGuides(l layout.Lines, showDerived, showLetters bool) []imaging.GuideLine {
	var guides []imaging.GuideLine

	horizontal := []layout.LineKind{layout.HeaderBottom, layout.FooterTop, layout.TextLine, layout.Baseline, layout.TopLine}
	for _, k := range horizontal {
		if v, ok := l.Value(k); ok {
			guides = append(guides, imaging.GuideLine{Axis: imaging.Horizontal, Pos: v, Label: k.String(), Style: imaging.StyleRequired})
		}
	}
	for _, k := range []layout.LineKind{layout.LeftStart, layout.RightStart} {
		if v, ok := l.Value(k); ok {
			guides = append(guides, imaging.GuideLine{Axis: imaging.Vertical, Pos: v, Label: k.String(), Style: imaging.StyleRequired})
		}
	}

	if showDerived {
		if _, placed := l.Value(layout.Baseline); !placed {
			if v, ok := l.ResolvedBaseline(); ok {
				guides = append(guides, imaging.GuideLine{Axis: imaging.Horizontal, Pos: v, Label: "baseline", Style: imaging.StyleDerived})
			}
		}
		if _, placed := l.Value(layout.TopLine); !placed {
			if v, ok := l.ResolvedTopLine(); ok {
				guides = append(guides, imaging.GuideLine{Axis: imaging.Horizontal, Pos: v, Label: "topLine", Style: imaging.StyleDerived})
			}
		}
	}

	if showLetters {
		for i, x := range l.LetterLines() {
			guides = append(guides, imaging.GuideLine{Axis: imaging.Vertical, Pos: x, Label: fmt.Sprintf("L%d", i+1), Style: imaging.StyleLetter})
		}
	}
	return guides
}

func (s *Server) handleStampSuggestLines() (interface{}, error) {
	buf, err := s.session.Active()
	if err != nil {
		return nil, err
	}
	return detect.SuggestGuides(buf)
}

// === Naming Handlers ===

type stampSuggestNameArgs struct {
	Language string `json:"language"`
}

func (s *Server) handleStampSuggestName(args json.RawMessage) (interface{}, error) {
	var a stampSuggestNameArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return nil, err
		}
	}
	buf, err := s.session.Active()
	if err != nil {
		return nil, err
	}
	return ocr.SuggestName(buf, a.Language)
}

// === Export Handlers ===

type stampExportArgs struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// exportResult wraps the assembled record with the output path, if the
// record was written to disk.
type exportResult struct {
	Record *stamp.Record `json:"record"`
	Path   string        `json:"path,omitempty"`
}

func (s *Server) handleStampExport(args json.RawMessage) (interface{}, error) {
	var a stampExportArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		record, err := s.session.Export(a.Name)
		if err != nil {
			return nil, err
		}
		return &exportResult{Record: record}, nil
	}
	record, err := s.session.WriteExport(a.Name, a.Path)
	if err != nil {
		return nil, err
	}
	return &exportResult{Record: record, Path: a.Path}, nil
}
