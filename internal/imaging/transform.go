package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Size limits for the escalation variants.
const (
	// UpscaleFactor is the bicubic enlargement applied to small images.
	UpscaleFactor = 2.0

	// UpscaleBelow is the long-side size under which an image is enlarged.
	// Larger images already carry enough pixels per module.
	UpscaleBelow = 1000

	// ThresholdCeiling caps the long side of the image fed to
	// AdaptiveThreshold, bounding its cost on very large photos.
	ThresholdCeiling = 1600
)

// Upscale enlarges r by UpscaleFactor using Catmull-Rom (bicubic)
// resampling when its long side is below UpscaleBelow.
//
// Returns the enlarged raster and true, or r and false if the image was
// already large enough.
func Upscale(r *Raster) (*Raster, bool) {
	if r.LongSide() >= UpscaleBelow {
		return r, false
	}
	w := int(math.Round(float64(r.Width()) * UpscaleFactor))
	h := int(math.Round(float64(r.Height()) * UpscaleFactor))
	return fromNRGBA(imaging.Resize(r.img, w, h, imaging.CatmullRom), r.space), true
}

// LimitSide downscales r so that its long side is at most maxSide,
// preserving the aspect ratio. Rasters already within the limit are
// returned unchanged. A non-positive maxSide disables the limit.
func LimitSide(r *Raster, maxSide int) *Raster {
	if maxSide <= 0 || r.LongSide() <= maxSide {
		return r
	}
	scale := float64(maxSide) / float64(r.LongSide())
	w := max(1, int(math.Round(float64(r.Width())*scale)))
	h := max(1, int(math.Round(float64(r.Height())*scale)))
	return fromNRGBA(imaging.Resize(r.img, w, h, imaging.Lanczos), r.space)
}

// Rotate turns r counter-clockwise by angle degrees about its center.
//
// Multiples of 90 degrees are exact pixel permutations. Any other angle is
// resampled bilinearly into a canvas of the original size, and samples that
// fall outside the source repeat the nearest edge pixel (replicate border),
// so the rotation never paints a synthetic frame that could be mistaken for
// a finder pattern.
func Rotate(r *Raster, angle float64) *Raster {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}

	switch a {
	case 0:
		return r
	case 90:
		return fromNRGBA(imaging.Rotate90(r.img), r.space)
	case 180:
		return fromNRGBA(imaging.Rotate180(r.img), r.space)
	case 270:
		return fromNRGBA(imaging.Rotate270(r.img), r.space)
	}

	switch img := r.img.(type) {
	case *image.Gray:
		dst := image.NewGray(img.Bounds())
		rotateReplicate(img.Pix, dst.Pix, img.Stride, 1, r.Width(), r.Height(), a)
		return &Raster{img: dst, space: Gray}
	case *image.NRGBA:
		dst := image.NewNRGBA(img.Bounds())
		rotateReplicate(img.Pix, dst.Pix, img.Stride, 4, r.Width(), r.Height(), a)
		return &Raster{img: dst, space: Color}
	}
	return r
}

// rotateReplicate applies the inverse rotation to every destination pixel
// and samples the source bilinearly with coordinates clamped to the edges.
func rotateReplicate(src, dst []uint8, stride, channels, w, h int, angle float64) {
	rad := angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	cx, cy := float64(w-1)/2, float64(h-1)/2

	for y := 0; y < h; y++ {
		dy := float64(y) - cy
		for x := 0; x < w; x++ {
			dx := float64(x) - cx
			sx := cos*dx - sin*dy + cx
			sy := sin*dx + cos*dy + cy

			x0 := int(math.Floor(sx))
			y0 := int(math.Floor(sy))
			fx := sx - float64(x0)
			fy := sy - float64(y0)

			xa := clamp(x0, 0, w-1)
			xb := clamp(x0+1, 0, w-1)
			ya := clamp(y0, 0, h-1)
			yb := clamp(y0+1, 0, h-1)

			di := y*stride + x*channels
			for c := 0; c < channels; c++ {
				p00 := float64(src[ya*stride+xa*channels+c])
				p01 := float64(src[ya*stride+xb*channels+c])
				p10 := float64(src[yb*stride+xa*channels+c])
				p11 := float64(src[yb*stride+xb*channels+c])
				top := p00 + (p01-p00)*fx
				bot := p10 + (p11-p10)*fx
				dst[di+c] = uint8(math.Round(top + (bot-top)*fy))
			}
		}
	}
}

// clamp constrains an integer value to the range [min, max].
// Used for replicate-border sampling.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
