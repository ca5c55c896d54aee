package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"
)

// createTestImage creates a simple test image file and returns its path.
// The caller is responsible for removing the file.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := createInMemoryImage(width, height, c)

	tmpFile, err := os.CreateTemp("", "test-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer tmpFile.Close()

	if err := png.Encode(tmpFile, img); err != nil {
		os.Remove(tmpFile.Name())
		t.Fatalf("failed to encode image: %v", err)
	}

	return tmpFile.Name()
}

// createInMemoryImage creates a solid-color RGBA image.
func createInMemoryImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	imgPath := createTestImage(t, 100, 80, color.RGBA{255, 0, 0, 255})
	defer os.Remove(imgPath)

	r, err := Load(imgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Width() != 100 || r.Height() != 80 {
		t.Errorf("unexpected dimensions: got %dx%d, want 100x80", r.Width(), r.Height())
	}
	if r.Space() != Color {
		t.Errorf("Space: got %v, want color", r.Space())
	}
}

func TestLoad_NonExistent(t *testing.T) {
	_, err := Load("/nonexistent/path/to/image.png")
	if err == nil {
		t.Error("Load should fail for non-existent file")
	}
}

func TestLoad_InvalidImage(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "invalid-image-*.png")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpFile.WriteString("not an image")
	tmpFile.Close()
	defer os.Remove(tmpFile.Name())

	_, err = Load(tmpFile.Name())
	if err == nil {
		t.Error("Load should fail for invalid image data")
	}
}

func TestDecode(t *testing.T) {
	data := encodePNG(t, createInMemoryImage(40, 30, color.White))

	r, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if r.Width() != 40 || r.Height() != 30 {
		t.Errorf("unexpected dimensions: got %dx%d, want 40x30", r.Width(), r.Height())
	}
}

func TestDecode_Empty(t *testing.T) {
	if _, err := Decode(nil); err == nil {
		t.Error("Decode should fail for empty input")
	}
}

func TestDecodeBase64(t *testing.T) {
	data := encodePNG(t, createInMemoryImage(20, 20, color.Black))
	b64 := base64.StdEncoding.EncodeToString(data)

	tests := []struct {
		name  string
		input string
	}{
		{"plain", b64},
		{"data url", "data:image/png;base64," + b64},
		{"surrounding whitespace", "  " + b64 + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := DecodeBase64(tt.input)
			if err != nil {
				t.Fatalf("DecodeBase64 failed: %v", err)
			}
			if r.Width() != 20 {
				t.Errorf("Width: got %d, want 20", r.Width())
			}
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not base64", "invalid base64 data"},
		{"base64 but not an image", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"truncated png", "iVBORw0KGgoAAAANSUhEUgAAAAUA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeBase64(tt.input); err == nil {
				t.Error("DecodeBase64 should fail")
			}
		})
	}
}
