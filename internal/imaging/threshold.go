package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
)

// Adaptive threshold parameters.
const (
	// ThresholdBlock is the side of the Gaussian-weighted neighborhood.
	ThresholdBlock = 31

	// ThresholdBias is subtracted from the local mean before comparing.
	ThresholdBias = 5
)

// AdaptiveThreshold binarizes r against a Gaussian-weighted local mean.
//
// The raster is converted to grayscale and first downscaled to
// ThresholdCeiling on its long side. Each output pixel is white (255) when
// the source pixel is brighter than its neighborhood mean minus
// ThresholdBias, and black (0) otherwise.
//
// Uneven lighting across a label (a shadow over half the code, a camera
// flash hotspot) defeats a single global threshold; comparing against the
// local mean keeps the module pattern intact in both regions.
func AdaptiveThreshold(r *Raster) *Raster {
	g := LimitSide(r.Gray(), ThresholdCeiling)
	src := g.pix()
	w, h := g.Width(), g.Height()

	mean := blur.Gaussian(src, float64(ThresholdBlock/2))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		srow := y * src.Stride
		mrow := y * mean.Stride
		drow := y * dst.Stride
		for x := 0; x < w; x++ {
			t := int(mean.Pix[mrow+x*4]) - ThresholdBias
			if int(src.Pix[srow+x]) > t {
				dst.Pix[drow+x] = 255
			}
		}
	}
	return &Raster{img: dst, space: Gray}
}
