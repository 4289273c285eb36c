// Package layout models the reference lines a user places on a stamp
// image before export.
//
// The central type is Lines, an immutable snapshot of the placed
// coordinates. Edits go through the Command types (SetLine, AddLetterLine,
// RemoveLetterLine) and Lines.Apply, which returns a new snapshot and
// leaves the old one intact; a rejected command changes nothing. This
// keeps partially applied edits impossible and makes undo a matter of
// keeping the previous value.
//
// Three horizontal lines (headerBottom, footerTop, textLine) and two
// vertical lines (leftStart, rightStart) are required before a stamp
// record can be exported. Two more horizontal lines are optional with
// documented defaults: baseline falls back to footerTop+1 and topLine to
// headerBottom-1. Letter lines are an ascending list of X coordinates, one
// per character position along the text.
//
// Tool and Place translate canvas clicks into commands: each placement
// mode takes either the X or the Y of the click and assigns it to its
// line.
package layout
