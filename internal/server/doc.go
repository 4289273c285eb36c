// Package server implements the MCP (Model Context Protocol) server for the
// stamp digitizing tools.
//
// This package provides a JSON-RPC 2.0 server that walks a client through
// turning a photograph of a rubber stamp into a stamp file: pick the paper
// color, knock it out to transparency, place the reference lines, export.
// It's designed to work with Claude and other MCP-compatible clients.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// The server provides 16 tools organized around the digitizing workflow:
//
// Session:
//   - stamp_load: Load a stamp photo and reset the session
//   - stamp_info: Session snapshot (image, target, lines, OCR status)
//
// Target Color:
//   - stamp_pick_color: Sample a pixel and record it as the target
//   - stamp_set_target: Set the target from a hex value
//   - stamp_magnify: Pixel-exact zoom for precise picking
//
// Background Removal:
//   - stamp_remove_background: Color-to-alpha against the target
//   - stamp_revert: Back to the original image
//
// Reference Lines:
//   - stamp_set_line: Set or clear one line by name
//   - stamp_place: Place a line from a click position
//   - stamp_add_letter_line: Add a vertical letter guide
//   - stamp_remove_letter_line: Remove a letter guide by index
//   - stamp_lines: Full line state with derived values and warnings
//   - stamp_preview: Render the lines over the image
//   - stamp_suggest_lines: Propose line positions from the ink profile
//
// Naming:
//   - stamp_suggest_name: OCR-based name suggestion
//
// Export:
//   - stamp_export: Assemble the stamp record, optionally write it
//
// # Session Model
//
// The server owns exactly one editing session. Loading an image resets it;
// every other tool operates on the loaded image. The stdio loop processes
// one request at a time, so the session needs no locking.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An export attempted before the session is ready fails with a message
// listing every missing precondition, not just the first.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New()
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
