// Package imaging provides the pixel-level operations behind stamp extraction.
//
// This package implements background removal via color-to-alpha conversion,
// color sampling, pixel magnification, guide-line overlays, and PNG
// encoding. All operations work on the PixelBuffer type, a straight-alpha
// RGBA raster with a coordinate system where (0,0) is at the top-left
// corner, X increases rightward, and Y increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Single-pixel operations address exactly one pixel and reject
//     coordinates outside [0,width) × [0,height)
//
// # Background Removal
//
// ColorToAlpha turns a chosen background color transparent while keeping
// partially inked pixels partially opaque. The algorithm treats each pixel
// as a blend of the target color and a residual ink color, removes the
// target contribution, and writes the residual with a proportional alpha.
// Compositing the output back over the target color reproduces the input.
//
// # Color Representation
//
// Colors are returned in multiple formats for flexibility:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Buffers whose pixel slice does not match their dimensions
//   - File I/O errors during image loading
//   - Encoding errors during image output
//
// # Concurrency
//
// Buffers are plain values with no internal locking. ColorToAlpha
// parallelizes across rows internally but treats its input as read-only;
// callers that mutate a buffer while operating on it must synchronize.
package imaging
