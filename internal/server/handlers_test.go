package server

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/stamp-tools-mcp/internal/detect"
	"github.com/ironsheep/stamp-tools-mcp/internal/imaging"
	"github.com/ironsheep/stamp-tools-mcp/internal/ocr"
	"github.com/ironsheep/stamp-tools-mcp/internal/stamp"
)

// writeStampImage writes a small synthetic stamp photo: white paper with a
// dark header band, a text band broken into letter runs, and a footer band.
func writeStampImage(t *testing.T) string {
	t.Helper()

	const width, height = 40, 30
	ink := color.NRGBA{R: 20, G: 20, B: 20, A: 255}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}
	for y := 2; y <= 5; y++ { // header
		for x := 4; x <= 35; x++ {
			img.SetNRGBA(x, y, ink)
		}
	}
	for y := 12; y <= 16; y++ { // text band, three letter runs
		for _, run := range [][2]int{{8, 12}, {16, 20}, {24, 28}} {
			for x := run[0]; x <= run[1]; x++ {
				img.SetNRGBA(x, y, ink)
			}
		}
	}
	for y := 24; y <= 27; y++ { // footer
		for x := 4; x <= 35; x++ {
			img.SetNRGBA(x, y, ink)
		}
	}

	path := filepath.Join(t.TempDir(), "stamp.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool runs one tools/call request through the full protocol path.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	return s.handleToolsCall(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
}

// mustExecute runs a tool via executeTool and fails the test on error.
func mustExecute(t *testing.T, s *Server, name, args string) interface{} {
	t.Helper()
	result, err := s.executeTool(name, json.RawMessage(args))
	if err != nil {
		t.Fatalf("executeTool(%s) failed: %v", name, err)
	}
	return result
}

// loadedServer returns a server with the synthetic stamp photo loaded.
func loadedServer(t *testing.T) *Server {
	t.Helper()
	s := New()
	path := writeStampImage(t)
	argsJSON, _ := json.Marshal(stampLoadArgs{Path: path})
	if _, err := s.executeTool("stamp_load", argsJSON); err != nil {
		t.Fatalf("stamp_load failed: %v", err)
	}
	return s
}

func TestHandleToolsCall_StampLoad(t *testing.T) {
	s := New()
	resp := callTool(t, s, "stamp_load", map[string]interface{}{
		"path": writeStampImage(t),
	})

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatal("Result should contain content")
	}
	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatal("content[0].text should be a string")
	}

	var info map[string]interface{}
	if err := json.Unmarshal([]byte(text), &info); err != nil {
		t.Fatalf("content text is not JSON: %v", err)
	}
	if info["width"] != float64(40) || info["height"] != float64(30) {
		t.Errorf("dimensions = %vx%v, want 40x30", info["width"], info["height"])
	}
	if info["format"] != "png" {
		t.Errorf("format = %v, want png", info["format"])
	}
}

func TestHandleToolsCall_ToolsRequireImage(t *testing.T) {
	toolArgs := map[string]map[string]interface{}{
		"stamp_pick_color":         {"x": 0, "y": 0},
		"stamp_set_target":         {"hex": "#FFFFFF"},
		"stamp_magnify":            {"x": 0, "y": 0},
		"stamp_remove_background":  {},
		"stamp_revert":             {},
		"stamp_set_line":           {"line": "textLine", "value": 5},
		"stamp_place":              {"tool": "textLine", "x": 0, "y": 5},
		"stamp_add_letter_line":    {"x": 5},
		"stamp_remove_letter_line": {"index": 0},
		"stamp_lines":              {},
		"stamp_preview":            {},
		"stamp_suggest_lines":      {},
		"stamp_export":             {"name": "x"},
	}

	for name, args := range toolArgs {
		t.Run(name, func(t *testing.T) {
			s := New()
			resp := callTool(t, s, name, args)
			if resp.Error == nil {
				t.Fatal("expected error without a loaded image")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("error code = %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_StampInfoWithoutImage(t *testing.T) {
	// stamp_info reports the empty session instead of failing.
	s := New()
	resp := callTool(t, s, "stamp_info", nil)
	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
}

func TestExecuteTool_PickColor(t *testing.T) {
	s := loadedServer(t)

	result := mustExecute(t, s, "stamp_pick_color", `{"x":10,"y":14}`)
	pick, ok := result.(*imaging.PickResult)
	if !ok {
		t.Fatalf("result type = %T, want *imaging.PickResult", result)
	}
	if pick.Hex != "#141414" {
		t.Errorf("picked hex = %s, want #141414 (ink)", pick.Hex)
	}

	// The pick doubles as the removal target.
	info := mustExecute(t, s, "stamp_info", `{}`).(*sessionState)
	if info.Target == nil || info.Target.Hex != "#141414" {
		t.Errorf("target = %+v, want #141414", info.Target)
	}
}

func TestExecuteTool_CoordinatesMustBeIntegers(t *testing.T) {
	s := loadedServer(t)

	for name, args := range map[string]string{
		"stamp_pick_color":      `{"x":1.5,"y":2}`,
		"stamp_magnify":         `{"x":3,"y":0.25}`,
		"stamp_set_line":        `{"line":"textLine","value":14.5}`,
		"stamp_place":           `{"tool":"textLine","x":0,"y":7.1}`,
		"stamp_add_letter_line": `{"x":9.9}`,
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.executeTool(name, json.RawMessage(args)); err == nil {
				t.Error("fractional coordinate accepted")
			}
		})
	}
}

func TestExecuteTool_SetTargetAndRemoveBackground(t *testing.T) {
	s := loadedServer(t)

	target := mustExecute(t, s, "stamp_set_target", `{"hex":"#FFFFFF"}`).(*targetState)
	if target.Color != (imaging.TargetColor{R: 255, G: 255, B: 255}) {
		t.Errorf("target = %+v, want white", target.Color)
	}

	result := mustExecute(t, s, "stamp_remove_background", `{}`)
	removed, ok := result.(*removeBackgroundResult)
	if !ok {
		t.Fatalf("result type = %T, want *removeBackgroundResult", result)
	}
	if removed.Target != "#FFFFFF" {
		t.Errorf("reported target = %s, want #FFFFFF", removed.Target)
	}
	if removed.Stats.Transparent == 0 {
		t.Error("no pixels became transparent")
	}
	if removed.ImageBase64 == "" {
		t.Error("empty preview image")
	}

	// Preview must decode to the processed dimensions.
	buf, err := imaging.DecodePNGBase64(removed.ImageBase64)
	if err != nil {
		t.Fatalf("preview does not decode: %v", err)
	}
	if buf.Width != 40 || buf.Height != 30 {
		t.Errorf("preview %dx%d, want 40x30", buf.Width, buf.Height)
	}

	info := mustExecute(t, s, "stamp_info", `{}`).(*sessionState)
	if !info.BackgroundRemoved {
		t.Error("info does not report background removal")
	}
}

func TestExecuteTool_RemoveBackgroundWithoutTarget(t *testing.T) {
	s := loadedServer(t)
	if _, err := s.executeTool("stamp_remove_background", nil); err == nil {
		t.Error("removal accepted without a target")
	}
}

func TestExecuteTool_Revert(t *testing.T) {
	s := loadedServer(t)
	mustExecute(t, s, "stamp_set_target", `{"hex":"#FFFFFF"}`)
	mustExecute(t, s, "stamp_remove_background", `{}`)

	result := mustExecute(t, s, "stamp_revert", `{}`)
	info, ok := result.(*sessionState)
	if !ok {
		t.Fatalf("result type = %T, want *sessionState", result)
	}
	if info.BackgroundRemoved {
		t.Error("revert did not clear the processed buffer")
	}
	// Target survives the revert for the next attempt.
	if info.Target == nil {
		t.Error("revert dropped the target color")
	}

	if _, err := s.executeTool("stamp_revert", nil); err == nil {
		t.Error("second revert accepted with nothing to revert")
	}
}

func TestExecuteTool_LineWorkflow(t *testing.T) {
	s := loadedServer(t)

	mustExecute(t, s, "stamp_set_line", `{"line":"headerBottom","value":6}`)
	mustExecute(t, s, "stamp_place", `{"tool":"footerTop","x":0,"y":23}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"textLine","value":14}`)
	mustExecute(t, s, "stamp_place", `{"tool":"leftStart","x":8,"y":0}`)
	state := mustExecute(t, s, "stamp_place", `{"tool":"rightStart","x":30,"y":0}`).(*linesState)

	if !state.ExportReady {
		t.Fatalf("not export ready, missing %v", state.Missing)
	}
	if state.HeaderBottom == nil || *state.HeaderBottom != 6 {
		t.Errorf("headerBottom = %v, want 6", state.HeaderBottom)
	}
	if state.FooterTop == nil || *state.FooterTop != 23 {
		t.Errorf("footerTop = %v, want 23", state.FooterTop)
	}
	if state.LeftStart == nil || *state.LeftStart != 8 {
		t.Errorf("leftStart = %v, want 8", state.LeftStart)
	}
	if state.ResolvedBaseline == nil || *state.ResolvedBaseline != 24 {
		t.Errorf("resolvedBaseline = %v, want 24", state.ResolvedBaseline)
	}
	if state.ResolvedTopLine == nil || *state.ResolvedTopLine != 5 {
		t.Errorf("resolvedTopLine = %v, want 5", state.ResolvedTopLine)
	}
	if state.FontSize == nil || *state.FontSize != 9 {
		t.Errorf("fontSize = %v, want 9", state.FontSize)
	}
	if len(state.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", state.Warnings)
	}
}

func TestExecuteTool_SetLineClears(t *testing.T) {
	s := loadedServer(t)

	state := mustExecute(t, s, "stamp_set_line", `{"line":"textLine","value":14}`).(*linesState)
	if state.TextLine == nil {
		t.Fatal("textLine not set")
	}

	state = mustExecute(t, s, "stamp_set_line", `{"line":"textLine"}`).(*linesState)
	if state.TextLine != nil {
		t.Errorf("textLine = %d after clear, want null", *state.TextLine)
	}

	// Explicit null clears too.
	mustExecute(t, s, "stamp_set_line", `{"line":"leftStart","value":8}`)
	state = mustExecute(t, s, "stamp_set_line", `{"line":"leftStart","value":null}`).(*linesState)
	if state.LeftStart != nil {
		t.Errorf("leftStart = %d after null, want null", *state.LeftStart)
	}
}

func TestExecuteTool_SetLineRejectsUnknown(t *testing.T) {
	s := loadedServer(t)
	if _, err := s.executeTool("stamp_set_line", json.RawMessage(`{"line":"centerfold","value":3}`)); err == nil {
		t.Error("unknown line name accepted")
	}
	if _, err := s.executeTool("stamp_set_line", json.RawMessage(`{"line":"textLine","value":400}`)); err == nil {
		t.Error("out-of-bounds value accepted")
	}
}

func TestExecuteTool_LetterLines(t *testing.T) {
	s := loadedServer(t)

	state := mustExecute(t, s, "stamp_add_letter_line", `{"x":10}`).(*linesState)
	if len(state.LetterLines) != 1 || state.LetterLines[0] != 10 {
		t.Fatalf("letterLines = %v, want [10]", state.LetterLines)
	}

	// Within one pixel of the existing guide: rejected, list unchanged.
	if _, err := s.executeTool("stamp_add_letter_line", json.RawMessage(`{"x":11}`)); err == nil {
		t.Error("adjacent letter line accepted")
	}
	state = mustExecute(t, s, "stamp_lines", `{}`).(*linesState)
	if len(state.LetterLines) != 1 {
		t.Fatalf("letterLines = %v after rejected add, want [10]", state.LetterLines)
	}

	state = mustExecute(t, s, "stamp_remove_letter_line", `{"index":0}`).(*linesState)
	if len(state.LetterLines) != 0 {
		t.Errorf("letterLines = %v after remove, want []", state.LetterLines)
	}

	if _, err := s.executeTool("stamp_remove_letter_line", json.RawMessage(`{"index":0}`)); err == nil {
		t.Error("remove from empty list accepted")
	}
}

func TestExecuteTool_Preview(t *testing.T) {
	s := loadedServer(t)
	mustExecute(t, s, "stamp_set_line", `{"line":"headerBottom","value":6}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"footerTop","value":23}`)
	mustExecute(t, s, "stamp_add_letter_line", `{"x":10}`)

	result := mustExecute(t, s, "stamp_preview", `{}`)
	overlay, ok := result.(*imaging.OverlayResult)
	if !ok {
		t.Fatalf("result type = %T, want *imaging.OverlayResult", result)
	}
	// Two placed lines, two derived fallbacks, one letter guide
	if overlay.GuideCount != 5 {
		t.Errorf("guide count = %d, want 5", overlay.GuideCount)
	}

	// Suppressing the optional layers reduces the count.
	overlay = mustExecute(t, s, "stamp_preview", `{"show_derived":false,"show_letter_lines":false}`).(*imaging.OverlayResult)
	if overlay.GuideCount != 2 {
		t.Errorf("guide count = %d with layers off, want 2", overlay.GuideCount)
	}
}

func TestExecuteTool_SuggestLines(t *testing.T) {
	s := loadedServer(t)

	result := mustExecute(t, s, "stamp_suggest_lines", `{}`)
	guides, ok := result.(*detect.Guides)
	if !ok {
		t.Fatalf("result type = %T, want *detect.Guides", result)
	}
	if guides.Bands != 3 {
		t.Errorf("bands = %d, want 3", guides.Bands)
	}
	if guides.HeaderBottom == nil || guides.FooterTop == nil || guides.TextLine == nil {
		t.Errorf("incomplete suggestion: %+v", guides)
	}
	if guides.LeftStart == nil || *guides.LeftStart != 8 {
		t.Errorf("leftStart = %v, want 8", guides.LeftStart)
	}
	if len(guides.LetterLines) != 3 {
		t.Errorf("letterLines = %v, want three runs", guides.LetterLines)
	}
}

func TestExecuteTool_SuggestName(t *testing.T) {
	s := loadedServer(t)

	result, err := s.executeTool("stamp_suggest_name", json.RawMessage(`{}`))
	if !ocr.Available() {
		if !errors.Is(err, ocr.ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable without OCR support, got %v", err)
		}
		return
	}
	if err != nil {
		t.Skipf("ocr not usable on this host: %v", err)
	}
	if _, ok := result.(*ocr.NameSuggestion); !ok {
		t.Fatalf("result type = %T, want *ocr.NameSuggestion", result)
	}
}

func TestExecuteTool_Export(t *testing.T) {
	s := loadedServer(t)
	mustExecute(t, s, "stamp_set_line", `{"line":"headerBottom","value":6}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"footerTop","value":23}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"textLine","value":14}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"leftStart","value":8}`)
	mustExecute(t, s, "stamp_set_line", `{"line":"rightStart","value":30}`)

	result := mustExecute(t, s, "stamp_export", `{"name":"Approved"}`)
	export, ok := result.(*exportResult)
	if !ok {
		t.Fatalf("result type = %T, want *exportResult", result)
	}
	if export.Path != "" {
		t.Errorf("path = %q without an output path, want empty", export.Path)
	}
	record := export.Record
	if record.Name != "Approved" || record.Type != stamp.RecordType {
		t.Errorf("record header = %s/%s", record.Name, record.Type)
	}
	if record.ReferenceHeight != 30 {
		t.Errorf("referenceHeight = %d, want 30", record.ReferenceHeight)
	}
	if record.FontSize != 9 {
		t.Errorf("fontSize = %d, want 9", record.FontSize)
	}
	if record.LeftStart.X != 8 || record.LeftStart.Y != 14 {
		t.Errorf("leftStart = %+v, want {8 14}", record.LeftStart)
	}
	if record.ImageData == "" {
		t.Error("record has no embedded image")
	}
}

func TestExecuteTool_ExportToFile(t *testing.T) {
	s := loadedServer(t)
	for _, args := range []string{
		`{"line":"headerBottom","value":6}`,
		`{"line":"footerTop","value":23}`,
		`{"line":"textLine","value":14}`,
		`{"line":"leftStart","value":8}`,
		`{"line":"rightStart","value":30}`,
	} {
		mustExecute(t, s, "stamp_set_line", args)
	}

	outPath := filepath.Join(t.TempDir(), "approved.stamp.json")
	argsJSON, _ := json.Marshal(stampExportArgs{Name: "Approved", Path: outPath})
	export := mustExecute(t, s, "stamp_export", string(argsJSON)).(*exportResult)
	if export.Path != outPath {
		t.Errorf("path = %q, want %q", export.Path, outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("written stamp missing: %v", err)
	}
	parsed, err := stamp.Parse(data)
	if err != nil {
		t.Fatalf("written stamp does not parse: %v", err)
	}
	if parsed.Name != "Approved" {
		t.Errorf("written name = %s, want Approved", parsed.Name)
	}
}

func TestExecuteTool_ExportNotReady(t *testing.T) {
	s := loadedServer(t)

	_, err := s.executeTool("stamp_export", json.RawMessage(`{"name":""}`))
	var verr *stamp.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Missing) != 6 {
		t.Errorf("missing = %v, want name plus five lines", verr.Missing)
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	_, err := s.executeTool("stamp_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Params:  json.RawMessage(`invalid json`),
	}

	resp := s.handleToolsCall(req)

	if resp.Error == nil {
		t.Fatal("expected error for invalid JSON params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("error code = %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_Magnify(t *testing.T) {
	s := loadedServer(t)

	result := mustExecute(t, s, "stamp_magnify", `{"x":10,"y":14}`)
	magnified, ok := result.(*imaging.MagnifyResult)
	if !ok {
		t.Fatalf("result type = %T, want *imaging.MagnifyResult", result)
	}
	if magnified.Scale != 8 {
		t.Errorf("scale = %d, want default 8", magnified.Scale)
	}
	if magnified.Center.Hex != "#141414" {
		t.Errorf("center hex = %s, want #141414", magnified.Center.Hex)
	}
}

func TestHandleToolsCall_FullWorkflow(t *testing.T) {
	// The happy path end to end through the protocol layer: load, pick,
	// remove, place, export.
	s := New()

	steps := []struct {
		tool string
		args map[string]interface{}
	}{
		{"stamp_load", map[string]interface{}{"path": writeStampImage(t)}},
		{"stamp_pick_color", map[string]interface{}{"x": 0, "y": 0}},
		{"stamp_remove_background", nil},
		{"stamp_set_line", map[string]interface{}{"line": "headerBottom", "value": 6}},
		{"stamp_set_line", map[string]interface{}{"line": "footerTop", "value": 23}},
		{"stamp_set_line", map[string]interface{}{"line": "textLine", "value": 14}},
		{"stamp_set_line", map[string]interface{}{"line": "leftStart", "value": 8}},
		{"stamp_set_line", map[string]interface{}{"line": "rightStart", "value": 30}},
		{"stamp_add_letter_line", map[string]interface{}{"x": 16}},
		{"stamp_preview", nil},
		{"stamp_export", map[string]interface{}{"name": "Paid"}},
	}

	for _, step := range steps {
		resp := callTool(t, s, step.tool, step.args)
		if resp.Error != nil {
			t.Fatalf("%s failed: %v", step.tool, resp.Error)
		}
	}
}
