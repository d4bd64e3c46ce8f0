// Package geometry provides 2D primitives in full-resolution frame space.
//
// Points and quadrilaterals in this package always carry coordinates measured
// against the original camera frame. Coordinates measured against the
// downsampled analysis buffer live in the detection package; the only
// conversion between the two spaces is detection.Quad.ScaleToFrame.
package geometry
