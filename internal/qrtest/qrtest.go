// Package qrtest builds QR code fixtures for tests.
package qrtest

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Code renders content as a black-on-white QR code of size x size pixels,
// including the standard quiet zone.
func Code(t testing.TB, content string, size int) *image.Gray {
	t.Helper()
	m, err := qrcode.NewQRCodeWriter().Encode(content, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	if err != nil {
		t.Fatalf("failed to encode QR code %q: %v", content, err)
	}
	out := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(out, out.Bounds(), m, image.Point{}, draw.Src)
	return out
}

// Blank returns a white image with no code on it.
func Blank(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// Canvas pastes each code onto a white canvas, left to right with a gap.
func Canvas(codes ...image.Image) *image.Gray {
	const gap = 40
	w, h := gap, 0
	for _, c := range codes {
		w += c.Bounds().Dx() + gap
		if c.Bounds().Dy() > h {
			h = c.Bounds().Dy()
		}
	}
	out := Blank(w, h+2*gap)
	x := gap
	for _, c := range codes {
		r := image.Rect(x, gap, x+c.Bounds().Dx(), gap+c.Bounds().Dy())
		draw.Draw(out, r, c, c.Bounds().Min, draw.Src)
		x += c.Bounds().Dx() + gap
	}
	return out
}

// LowContrast remaps black to dark and white to light gray levels.
func LowContrast(src *image.Gray, dark, light uint8) *image.Gray {
	out := image.NewGray(src.Bounds())
	for i, v := range src.Pix {
		if v < 128 {
			out.Pix[i] = dark
		} else {
			out.Pix[i] = light
		}
	}
	return out
}

// Colorize copies a grayscale fixture into an RGBA image, tinting the
// light pixels with bg.
func Colorize(src *image.Gray, bg color.RGBA) *image.RGBA {
	out := image.NewRGBA(src.Bounds())
	for y := src.Rect.Min.Y; y < src.Rect.Max.Y; y++ {
		for x := src.Rect.Min.X; x < src.Rect.Max.X; x++ {
			if src.GrayAt(x, y).Y < 128 {
				out.Set(x, y, color.Black)
			} else {
				out.Set(x, y, bg)
			}
		}
	}
	return out
}

// PNG encodes img.
func PNG(t testing.TB, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}
