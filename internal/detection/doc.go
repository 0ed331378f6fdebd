// Package detection finds structure in HUD crops: text lines and words for
// the neural recognizer, and the rider silhouette for pose classification.
//
// # Text Segmentation
//
// TextLines thresholds the crop (HUD text is light on a dark panel), builds
// a row projection profile and returns one rectangle per band of inked rows.
// SplitWords cuts a line at column gaps wider than about a third of the line
// height. Both work on projection counts only; there is no connected
// component analysis.
//
// # Pose Classification
//
// ClassifyAvatar runs imaging.EdgeMap over the avatar crop and measures the
// edge map (ComputeFeatures):
//
//   - aspect ratio of the edge bounding box (height / width)
//   - vertical center of mass, normalized by crop height
//   - upper and lower half edge density
//   - left/right mirror symmetry
//
// Classify walks a fixed, ordered rule list and returns the first pose whose
// aspect ratio and center-of-mass ranges both contain the features. Range
// bounds are inclusive. Density and symmetry are logged at debug level but
// do not take part in the decision.
//
// # Coordinate System
//
// Rectangles returned by TextLines and SplitWords are in the input image's
// coordinate space, so they can be passed straight to imaging.CropRegion.
package detection
