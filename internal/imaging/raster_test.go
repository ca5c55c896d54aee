package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestNewRaster_Gray(t *testing.T) {
	src := image.NewGray(image.Rect(10, 10, 60, 40))
	src.SetGray(10, 10, color.Gray{Y: 77})

	r, err := NewRaster(src)
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if r.Space() != Gray {
		t.Errorf("Space: got %v, want gray", r.Space())
	}
	if r.Image().Bounds().Min != (image.Point{}) {
		t.Errorf("raster not rebased: min %v", r.Image().Bounds().Min)
	}
	if got := r.pix().GrayAt(0, 0).Y; got != 77 {
		t.Errorf("pixel (0,0): got %d, want 77", got)
	}
}

func TestNewRaster_Color(t *testing.T) {
	r, err := NewRaster(createInMemoryImage(30, 20, color.RGBA{255, 0, 0, 255}))
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	if r.Space() != Color {
		t.Errorf("Space: got %v, want color", r.Space())
	}
	if r.Width() != 30 || r.Height() != 20 || r.LongSide() != 30 {
		t.Errorf("dimensions: got %dx%d long %d", r.Width(), r.Height(), r.LongSide())
	}
}

func TestNewRaster_TransparentFlattensToWhite(t *testing.T) {
	r, err := NewRaster(image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	g := r.Gray().pix()
	if got := g.GrayAt(1, 1).Y; got != 255 {
		t.Errorf("transparent pixel: got %d, want 255", got)
	}
}

func TestNewRaster_Empty(t *testing.T) {
	if _, err := NewRaster(image.NewGray(image.Rect(0, 0, 0, 10))); err != ErrEmptyImage {
		t.Errorf("err: got %v, want ErrEmptyImage", err)
	}
}

func TestRaster_GrayAndColor(t *testing.T) {
	r, _ := NewRaster(createInMemoryImage(8, 8, color.RGBA{0, 0, 0, 255}))

	g := r.Gray()
	if g.Space() != Gray {
		t.Fatalf("Gray().Space(): got %v", g.Space())
	}
	if g.Gray() != g {
		t.Error("Gray() on a gray raster should return the same raster")
	}

	c := g.Color()
	if c.Space() != Color {
		t.Fatalf("Color().Space(): got %v", c.Space())
	}
	if c.Width() != 8 || c.Height() != 8 {
		t.Errorf("Color() dimensions: got %dx%d", c.Width(), c.Height())
	}
	if g.Space() != Gray {
		t.Error("Color() mutated its receiver")
	}
}
