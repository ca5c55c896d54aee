package imaging

import "fmt"

// Rotation angle sets, in degrees counter-clockwise.
var (
	// StandardAngles is the size-conscious sweep used by default.
	StandardAngles = []float64{0, 90, 180, 270}

	// DenseAngles adds the oblique angles of the slower legacy sweep for
	// codes photographed at a tilt.
	DenseAngles = []float64{0, 25, -25, 45, -45, 90, 180, 270}
)

// Variant is a transformed copy of an input image together with the
// transforms that produced it. Variants exist only for orchestration
// bookkeeping and logging.
type Variant struct {
	Raster      *Raster
	Enhancement string
	Angle       float64
	Thresholded bool
}

// Named enhancements.
const (
	EnhancementCLAHE     = "clahe"
	EnhancementUpscaled  = "upscaled"
	EnhancementThreshold = "threshold"
	EnhancementColor     = "color"
)

// EnhancedVariant builds the always-on CLAHE variant of r.
func EnhancedVariant(r *Raster) Variant {
	return Variant{Raster: Enhance(r), Enhancement: EnhancementCLAHE}
}

// UpscaledVariant enlarges the enhanced variant for small images. It
// reports false when the image is already large enough to skip this step.
func UpscaledVariant(enhanced Variant) (Variant, bool) {
	up, ok := Upscale(enhanced.Raster)
	if !ok {
		return Variant{}, false
	}
	return Variant{Raster: up, Enhancement: EnhancementUpscaled}, true
}

// ThresholdVariant binarizes the enhanced variant with AdaptiveThreshold.
func ThresholdVariant(enhanced Variant) Variant {
	return Variant{
		Raster:      AdaptiveThreshold(enhanced.Raster),
		Enhancement: EnhancementThreshold,
		Thresholded: true,
	}
}

// ColorVariant restores color from r and caps its long side at maxSide.
func ColorVariant(r *Raster, maxSide int) Variant {
	return Variant{Raster: LimitSide(r.Color(), maxSide), Enhancement: EnhancementColor}
}

// Rotated returns v turned by angle degrees.
func (v Variant) Rotated(angle float64) Variant {
	return Variant{
		Raster:      Rotate(v.Raster, angle),
		Enhancement: v.Enhancement,
		Angle:       angle,
		Thresholded: v.Thresholded,
	}
}

func (v Variant) String() string {
	return fmt.Sprintf("%s@%gdeg %dx%d", v.Enhancement, v.Angle, v.Raster.Width(), v.Raster.Height())
}
