package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ErrEmptyImage is returned when an image has no pixels.
var ErrEmptyImage = errors.New("image has zero width or height")

// ColorSpace tags the channel layout of a Raster.
type ColorSpace int

const (
	// Gray is a single 8-bit luminance channel (*image.Gray).
	Gray ColorSpace = iota
	// Color is a three-channel image stored as opaque *image.NRGBA.
	Color
)

func (c ColorSpace) String() string {
	if c == Gray {
		return "gray"
	}
	return "color"
}

// Raster is an owned pixel buffer tagged with its color space.
//
// Rasters are treated as immutable once produced: every transform in this
// package returns a new Raster and never writes into its input. The backing
// buffer is always rebased so that Bounds().Min is (0,0).
//
// A Raster in the Gray space wraps an *image.Gray; a Raster in the Color
// space wraps an *image.NRGBA.
type Raster struct {
	img   image.Image
	space ColorSpace
}

// NewRaster copies src into a new Raster.
//
// Gray and Gray16 sources become Gray rasters; everything else is copied
// into an opaque NRGBA buffer in the Color space. Alpha is flattened onto a
// white background so transparent label scans keep their dark modules.
func NewRaster(src image.Image) (*Raster, error) {
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(g, g.Bounds(), src, b.Min, draw.Src)
		return &Raster{img: g, space: Gray}, nil
	}

	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	out := imaging.Overlay(bg, src, image.Pt(0, 0), 1.0)
	return &Raster{img: out, space: Color}, nil
}

// Image returns the underlying image. Callers must not modify it.
func (r *Raster) Image() image.Image { return r.img }

// Space returns the raster's color space.
func (r *Raster) Space() ColorSpace { return r.space }

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.img.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.img.Bounds().Dy() }

// LongSide returns the larger of width and height.
func (r *Raster) LongSide() int {
	if r.Width() > r.Height() {
		return r.Width()
	}
	return r.Height()
}

// Gray returns a grayscale version of the raster. A raster that is already
// grayscale is returned as is, since rasters are never mutated.
func (r *Raster) Gray() *Raster {
	if r.space == Gray {
		return r
	}
	return &Raster{img: toGray(r.img), space: Gray}
}

// Color returns a three-channel copy of the raster. Engines that expect
// color input (the CNN decoder) are fed this "color-restored" copy.
func (r *Raster) Color() *Raster {
	if r.space == Color {
		return r
	}
	return &Raster{img: imaging.Clone(r.img), space: Color}
}

// pix returns the raster as *image.Gray. Only valid for Gray rasters.
func (r *Raster) pix() *image.Gray {
	return r.img.(*image.Gray)
}

// toGray converts any image to *image.Gray using the luminance weights of
// imaging.Grayscale (0.299 R, 0.587 G, 0.114 B).
func toGray(src image.Image) *image.Gray {
	nrgba := imaging.Grayscale(src)
	b := nrgba.Bounds()
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		si := y * nrgba.Stride
		di := y * g.Stride
		for x := 0; x < b.Dx(); x++ {
			g.Pix[di+x] = nrgba.Pix[si+x*4]
		}
	}
	return g
}

// fromNRGBA wraps a transform result back into a raster of the given space.
func fromNRGBA(img *image.NRGBA, space ColorSpace) *Raster {
	if space == Gray {
		return &Raster{img: toGray(img), space: Gray}
	}
	return &Raster{img: img, space: Color}
}
