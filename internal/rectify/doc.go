// Package rectify warps a detected document quad onto an upright,
// fixed-size page image.
//
// The transform is a 3x3 homography solved from the four corner
// correspondences (target page corners to detected quad corners). Output
// pixels are filled by inverse mapping: each target pixel is projected into
// the source frame and bilinearly sampled, so the result has no holes
// regardless of the quad's shape. Samples landing outside the frame come
// back black.
//
// Rectification never fails. When the quad is degenerate or the corner
// system is numerically singular, the rectifier falls back to a centered
// crop-and-scale of the whole frame and reports that it did so, letting the
// caller record the capture as a non-perspective one.
package rectify
