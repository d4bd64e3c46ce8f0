// Package detection locates a document's quadrilateral boundary in a video
// frame.
//
// Detection always runs against a downsampled analysis buffer, never the
// full-resolution frame, so a pass stays cheap enough to repeat several times
// per second. Downsample produces the analysis buffer along with the scale
// factor, and Quad.ScaleToFrame is the only conversion back into
// full-resolution coordinates.
//
// # Algorithm Overview
//
// Detect runs a classical pipeline over the analysis buffer:
//
//  1. Edge map: grayscale conversion, 5x5 Gaussian presmooth, Sobel gradient,
//     non-maximum suppression, and hysteresis thresholding (Canny)
//  2. Contours: connected components of edge pixels via stack-based
//     flood-fill (8-connected), filtered by a minimum pixel count
//  3. Candidate gating: a contour's bounding area must cover a plausible
//     fraction of the frame; tiny specks and near-full-frame borders are
//     both rejected
//  4. Boundary lines: a Hough transform restricted to the contour's pixels;
//     peaks split into near-horizontal and near-vertical groups, with the
//     outermost line of each group taken as a page edge
//  5. Corners: pairwise intersections of the four boundary lines, ordered
//     clockwise from the top-left by centroid-relative scoring; when Hough
//     cannot isolate four boundaries, the contour's extreme points are used
//     instead
//
// # Coordinate System
//
// All coordinates use the standard image convention: origin at the top-left,
// X increasing rightward, Y increasing downward. Points in this package are
// measured in the analysis buffer; geometry.Point is the full-resolution
// counterpart.
//
// # Confidence
//
// Detect reports a confidence in [0, 1] blending three signals:
//
//   - Edge straightness: the fraction of contour pixels lying close to the
//     candidate quad's edges
//   - Right-angle deviation: how far each corner angle strays from 90°
//   - Area coverage: candidates covering a moderate fraction of the frame
//     score highest; very small and very large quads are penalized
//
// A miss (no candidate, or nothing resembling a page) is a normal outcome
// reported through Detect's boolean, not an error. Callers are expected to
// keep scanning subsequent frames and to fall back to the full frame bounds
// when capturing without a confident detection.
package detection
