// Package imaging loads images and produces the preprocessed variants fed to
// the QR decoding engines.
//
// All images are carried as Raster values: an owned pixel buffer plus a color
// space tag. Every operation returns a new Raster and leaves its input
// untouched, so a Raster can be shared freely between variants of the same
// scan.
//
// # Variants
//
// Decode probability depends heavily on preprocessing. The package offers:
//   - Enhance: grayscale plus CLAHE (clip 2.0, 8x8 tiles), always applied
//   - Upscale: 2x bicubic, only for images whose long side is under 1000 px
//   - AdaptiveThreshold: Gaussian local-mean binarization on a copy capped
//     at 1600 px
//   - Rotate: rotation about the center with replicate border
//
// # Coordinate System
//
// Rasters are always rebased to a (0,0) origin. X increases rightward and
// Y increases downward. Rotation angles are in degrees, counter-clockwise.
//
// # Thread Safety
//
// Rasters are immutable after construction and all functions are stateless,
// so concurrent scans may call into this package freely.
package imaging
