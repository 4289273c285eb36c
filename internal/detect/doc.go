// Package detect derives suggested reference line positions from the ink
// distribution of a stamp image.
//
// The detector projects the ink mask onto rows to find content bands
// (header art, text, footer art) and onto columns within the text band to
// find letter positions. Results are heuristics for a human to confirm or
// adjust; nothing here mutates the layout.
package detect
