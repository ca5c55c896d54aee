package scanner

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ironsheep/qr-scan-mcp/internal/engine"
	"github.com/ironsheep/qr-scan-mcp/internal/imaging"
	"github.com/ironsheep/qr-scan-mcp/internal/qrtest"
)

// fakeMulti is a scripted primary engine.
type fakeMulti struct {
	payloads []engine.Payload
	err      error
	panics   bool
	calls    int
}

func (f *fakeMulti) Name() string { return "fake-multi" }

func (f *fakeMulti) DecodeMulti(image.Image) ([]engine.Payload, [][]image.Point, error) {
	f.calls++
	if f.panics {
		panic("decoder crashed")
	}
	return f.payloads, nil, f.err
}

// fakeSingle is a scripted secondary or tertiary engine.
type fakeSingle struct {
	payloads    []engine.Payload
	unavailable bool
	calls       int
}

func (f *fakeSingle) Name() string    { return "fake-single" }
func (f *fakeSingle) Available() bool { return !f.unavailable }

func (f *fakeSingle) Decode(image.Image) ([]engine.Payload, error) {
	f.calls++
	return f.payloads, nil
}

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(engine.NewSet(engine.Options{}), Options{})
}

func TestAnalyze_NoQR(t *testing.T) {
	res := newTestAnalyzer().Analyze(qrtest.Blank(400, 300))

	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.QRFound || res.Scannable || res.QRCount != 0 || len(res.QRCodes) != 0 {
		t.Errorf("expected nothing found, got %+v", res)
	}
	if res.Message != "No QR code detected in the image" {
		t.Errorf("Message: got %q", res.Message)
	}
}

func TestAnalyze_SingleCode(t *testing.T) {
	const content = "https://example.com/ticket/42"
	res := newTestAnalyzer().Analyze(qrtest.Code(t, content, 300))

	if !res.Success || !res.QRFound || !res.Scannable {
		t.Fatalf("expected a scannable code, got %+v", res)
	}
	if res.QRCount != 1 {
		t.Fatalf("QRCount: got %d, want 1", res.QRCount)
	}
	code := res.QRCodes[0]
	if code.Content != content || code.Index != 0 || code.Length != len(content) {
		t.Errorf("code: got %+v", code)
	}
	if res.Message != "Successfully detected and scanned 1 QR code(s)" {
		t.Errorf("Message: got %q", res.Message)
	}
}

func TestAnalyze_Rotations(t *testing.T) {
	const content = "ROTATED-PAYLOAD-7"
	r, err := imaging.NewRaster(qrtest.Code(t, content, 300))
	if err != nil {
		t.Fatalf("NewRaster failed: %v", err)
	}
	a := newTestAnalyzer()

	for _, angle := range []float64{90, 180, 270} {
		res := a.AnalyzeRaster(imaging.Rotate(r, angle))
		if res.QRCount != 1 || res.QRCodes[0].Content != content {
			t.Errorf("angle %g: got %+v", angle, res.QRCodes)
		}
	}
}

func TestAnalyze_PoorInputs(t *testing.T) {
	code := qrtest.Code(t, "Poor input", 240)

	tests := []struct {
		name string
		img  image.Image
	}{
		{"low contrast", qrtest.LowContrast(code, 90, 160)},
		{"tinted background", qrtest.Colorize(code, color.RGBA{R: 250, G: 235, B: 180, A: 255})},
		{"small", qrtest.Code(t, "Poor input", 120)},
	}

	a := newTestAnalyzer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := a.Analyze(tt.img)
			if res.QRCount != 1 || res.QRCodes[0].Content != "Poor input" {
				t.Errorf("got %+v", res)
			}
		})
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	img := qrtest.Code(t, "same every time", 250)
	a := newTestAnalyzer()

	first := a.Analyze(img)
	second := a.Analyze(img)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("results differ:\n%+v\n%+v", first, second)
	}
}

func TestAnalyze_EmptyImage(t *testing.T) {
	res := newTestAnalyzer().Analyze(image.NewGray(image.Rect(0, 0, 0, 0)))
	if res.Success {
		t.Error("expected failure for empty image")
	}
	if res.Error == "" {
		t.Error("expected error message")
	}
}

func TestAnalyze_Dedup(t *testing.T) {
	primary := &fakeMulti{payloads: []engine.Payload{
		{Text: "alpha"},
		{Text: "[[12,34],[56,78]]"},
		{Text: "alpha"},
		{Text: " beta "},
	}}
	a := NewAnalyzer(&engine.Set{Primary: primary}, Options{})

	res := a.Analyze(qrtest.Blank(100, 100))
	if res.QRCount != 2 {
		t.Fatalf("QRCount: got %d, want 2 (%+v)", res.QRCount, res.QRCodes)
	}
	if res.QRCodes[0].Content != "alpha" || res.QRCodes[1].Content != "beta" {
		t.Errorf("order: got %+v", res.QRCodes)
	}
	if primary.calls != 1 {
		t.Errorf("primary calls: got %d, want 1 (stop on first hit)", primary.calls)
	}
}

func TestAnalyze_RejectsCoordinateBlob(t *testing.T) {
	primary := &fakeMulti{payloads: []engine.Payload{{Text: "[[12,34],[56,78]]"}}}
	secondary := &fakeSingle{payloads: []engine.Payload{{Text: "0123456789"}}}
	a := NewAnalyzer(&engine.Set{Primary: primary, Secondary: secondary}, Options{})

	res := a.Analyze(qrtest.Blank(100, 100))
	if !res.Success || res.QRFound || res.QRCount != 0 {
		t.Errorf("expected nothing accepted, got %+v", res)
	}
}

func TestAnalyze_PassOrder(t *testing.T) {
	tests := []struct {
		name           string
		size           int
		wantPrimary    int
		secondaryHits  bool
		wantTertiary   int
		tertiaryAbsent bool
	}{
		// enhanced, upscaled and thresholded, four angles each
		{"small image falls through", 100, 12, false, 1, false},
		// no upscaled variant above the upscale threshold
		{"large image falls through", 1200, 8, false, 1, false},
		{"secondary hit skips tertiary", 100, 12, true, 0, false},
		{"unavailable tertiary is skipped", 100, 12, false, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &fakeMulti{}
			secondary := &fakeSingle{}
			if tt.secondaryHits {
				secondary.payloads = []engine.Payload{{Text: "from secondary"}}
			}
			tertiary := &fakeSingle{unavailable: tt.tertiaryAbsent}
			a := NewAnalyzer(&engine.Set{Primary: primary, Secondary: secondary, Tertiary: tertiary}, Options{})

			res := a.Analyze(qrtest.Blank(tt.size, tt.size))

			if primary.calls != tt.wantPrimary {
				t.Errorf("primary calls: got %d, want %d", primary.calls, tt.wantPrimary)
			}
			if secondary.calls != 1 {
				t.Errorf("secondary calls: got %d, want 1", secondary.calls)
			}
			if tertiary.calls != tt.wantTertiary {
				t.Errorf("tertiary calls: got %d, want %d", tertiary.calls, tt.wantTertiary)
			}
			if res.QRFound != tt.secondaryHits {
				t.Errorf("QRFound: got %v, want %v", res.QRFound, tt.secondaryHits)
			}
		})
	}
}

func TestAnalyze_DenseAngles(t *testing.T) {
	primary := &fakeMulti{}
	a := NewAnalyzer(&engine.Set{Primary: primary}, Options{Angles: imaging.DenseAngles})

	a.Analyze(qrtest.Blank(1200, 1200))
	if want := 2 * len(imaging.DenseAngles); primary.calls != want {
		t.Errorf("primary calls: got %d, want %d", primary.calls, want)
	}
}

func TestAnalyze_EngineFailuresRecovered(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeMulti
	}{
		{"error", &fakeMulti{err: errors.New("reader exploded")}},
		{"panic", &fakeMulti{panics: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secondary := &fakeSingle{payloads: []engine.Payload{{Text: "rescued"}}}
			a := NewAnalyzer(&engine.Set{Primary: tt.primary, Secondary: secondary}, Options{})

			res := a.Analyze(qrtest.Blank(100, 100))
			if !res.Success || res.QRCount != 1 || res.QRCodes[0].Content != "rescued" {
				t.Errorf("got %+v", res)
			}
		})
	}
}

func TestAnalyzer_ScanFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "code.png")
	if err := os.WriteFile(path, qrtest.PNG(t, qrtest.Code(t, "from disk", 200)), 0644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	a := newTestAnalyzer()

	res := a.ScanFile(path)
	if res.QRCount != 1 || res.QRCodes[0].Content != "from disk" {
		t.Errorf("got %+v", res)
	}

	missing := filepath.Join(dir, "missing.png")
	res = a.ScanFile(missing)
	if res.Success {
		t.Fatal("expected failure for missing file")
	}
	if !strings.Contains(res.Error, "failed to load image from "+missing) {
		t.Errorf("Error: got %q", res.Error)
	}
}

func TestAnalyzer_ScanBytesAndBase64(t *testing.T) {
	data := qrtest.PNG(t, qrtest.Code(t, "inline bytes", 200))
	a := newTestAnalyzer()

	if res := a.ScanBytes(data); res.QRCount != 1 {
		t.Errorf("ScanBytes: got %+v", res)
	}
	if res := a.ScanBytes([]byte("not an image")); res.Success {
		t.Error("ScanBytes: expected failure for garbage")
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if res := a.ScanBase64(encoded); res.QRCount != 1 {
		t.Errorf("ScanBase64: got %+v", res)
	}
	if res := a.ScanBase64("data:image/png;base64," + encoded); res.QRCount != 1 {
		t.Errorf("ScanBase64 data URL: got %+v", res)
	}
	res := a.ScanBase64("!!!not base64!!!")
	if res.Success || !strings.Contains(res.Error, "failed to decode image from base64") {
		t.Errorf("ScanBase64 invalid: got %+v", res)
	}
}
