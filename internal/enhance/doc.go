// Package enhance turns a rectified page capture into a clean, readable
// scan.
//
// # Stages
//
// Apply runs a fixed stage order so identical input and settings always
// produce bit-identical output:
//
//  1. Shadow removal: the page background is estimated by downsampling and
//     Gaussian-blurring the image, then every pixel is divided by its local
//     background so uneven lighting flattens out to paper white.
//  2. Brightness normalization: the 95th-percentile luminance (which tracks
//     paper, not specular highlights) is pulled to a fixed target with a
//     clamped multiplicative gain.
//  3. Contrast boost around mid-gray.
//  4. Unsharp masking to crisp up text strokes.
//  5. Mode reduction: monochrome pages collapse to 8-bit grayscale with a
//     small extra contrast lift; color pages stay RGBA.
//
// Every stage preserves the image dimensions.
//
// # Mode suggestion
//
// SuggestMode samples Lab chroma on a sparse grid: a page that is
// essentially ink on paper has near-zero mean chroma and reads better as
// monochrome, while real color content keeps the color pipeline.
package enhance
