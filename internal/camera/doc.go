// Package camera provides pull-based frame sources for the capture pipeline.
//
// A Source hands out the most recent full-resolution frame on demand. There
// is no push delivery and no backlog: the detection loop and the capture path
// each ask for "the frame right now" and never see stale queued frames.
//
// # Implementations
//
// Directory replays still images from a folder in filename order, advancing
// one image per pull and holding on the last image once the folder is
// exhausted. Decoded frames are cached so replaying a directory does not
// re-read the disk.
//
// Synthetic procedurally generates a bright page over a dark background. It
// is deterministic unless jitter is enabled, which makes it suitable both
// for tests and for demo mode on machines without sample imagery.
//
// # Concurrency
//
// All sources are safe for concurrent use; the detection loop polls a source
// while capture snapshots it.
package camera
