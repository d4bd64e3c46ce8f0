// Package render draws detection overlays for debugging.
//
// Overlays are diagnostic artifacts, not part of the capture pipeline: the
// scan command dumps one per detection tick when asked, so detector tuning
// can be checked frame by frame against what the camera actually saw.
package render
