// Package capture runs the live document capture loop and exposes the
// operator-facing controller.
//
// Two cooperating pieces live here:
//
//   - Scheduler repeatedly pulls the newest camera frame, runs boundary
//     detection against a downsampled copy, and publishes the most recent
//     confident result. Passes run on a fixed ticker; a pass that outlasts
//     the interval causes later ticks to be skipped, never queued, so the
//     loop can never fall behind the camera.
//
//   - Controller ties the scheduler to the rest of the pipeline: capturing
//     a page snapshots the latest frame and detection, rectifies the quad
//     region onto an upright page, enhances it, and appends it to the
//     session. Captures are serialized among themselves but never block
//     detection ticks.
//
// Detection results published by the scheduler are already in
// full-resolution frame coordinates and already filtered by the confidence
// threshold; consumers treat "no latest detection" and "low confidence" as
// the same condition. A capture without a detection still succeeds by
// treating the whole frame as the document.
package capture
