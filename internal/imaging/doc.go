// Package imaging provides the pixel-level operations behind telemetry
// extraction: screenshot loading, region cropping, OCR preprocessing, and
// Canny-style edge detection.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner,
// X increasing rightward and Y increasing downward. Rectangles are
// half-open: Min is inclusive, Max is exclusive.
//
// # Ownership
//
// A decoded screenshot is shared read-only between concurrent extractions.
// Every function in this package that changes pixels returns a fresh image;
// none of them write to their input. CropRegion in particular always copies,
// so callers can threshold or scale the result freely.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. All other functions are pure and
// may be called concurrently with different or identical inputs.
//
// # Preprocessing
//
// Preprocess is the handoff to the classical OCR engine:
//
//  1. Grayscale conversion
//  2. Binarization: pixels at or above the threshold become white
//  3. Upsampling by an integer factor with Lanczos resampling, which keeps
//     glyph edges smooth where nearest-neighbour would leave them jagged
//  4. PNG encoding
//
// The output depends only on the inputs, so identical calls produce identical
// bytes.
package imaging
