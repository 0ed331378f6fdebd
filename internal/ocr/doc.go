// Package ocr provides the two text-recognition backends used for telemetry
// extraction and the machinery for sharing them between goroutines.
//
// Both backends implement Engine: they take an encoded raster (PNG bytes)
// plus Options and return recognized text. Callers pick the backend per
// field instead of branching on engine type.
//
// # Backends
//
//   - TesseractEngine: classical glyph recognition via gosseract. Suited to
//     the HUD's numeric fields once they are binarized and upscaled, with a
//     per-call character whitelist and single-line segmentation.
//   - NeuralEngine: a CRNN text recognizer loaded from an ONNX model through
//     gocv's DNN module. Text lines are located by a projection profile and
//     each word is decoded with greedy CTC. It copes with the anti-aliased,
//     stylized leaderboard font far better than Tesseract.
//
// # Prerequisites
//
// Tesseract and its language data must be installed:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// The neural backend needs OpenCV (for gocv) and a CRNN model such as
// OpenCV's crnn_cs.onnx. Build with -tags noneural to compile without
// OpenCV; NewNeuralEngine then returns ErrNeuralUnavailable.
//
// # Sharing
//
// Engines hold mutable recognition state (whitelist, segmentation mode,
// loaded image) and are not safe for concurrent use. Two wrappers make them
// shareable:
//
//   - Pool: a fixed set of pre-initialized engines checked out for one
//     recognition at a time. With releases the engine on every return path.
//   - SharedEngine: one lazily constructed engine behind a mutex, for
//     backends too expensive to replicate.
//
// Resources bundles a Pool and a SharedEngine; SharedResources hands out a
// single process-wide instance so model loading is paid once.
//
// # Error Handling
//
// Construction failures (missing traineddata, missing or unreadable model)
// wrap ErrEngineInit. Recognition failures are returned as-is; callers
// decide whether they are fatal.
package ocr
