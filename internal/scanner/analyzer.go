package scanner

import (
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/ironsheep/qr-scan-mcp/internal/engine"
	"github.com/ironsheep/qr-scan-mcp/internal/imaging"
)

// DefaultTertiaryMaxSide caps the long side of the image handed to the
// tertiary engine. The CNN detector's cost grows with pixel count.
const DefaultTertiaryMaxSide = 1280

// Options configures an Analyzer.
type Options struct {
	// Angles is the rotation sweep, in degrees. Defaults to
	// imaging.StandardAngles.
	Angles []float64

	// TertiaryMaxSide caps the tertiary engine's input. Defaults to
	// DefaultTertiaryMaxSide.
	TertiaryMaxSide int

	// Logger receives per-pass diagnostics. Nil discards them.
	Logger *slog.Logger
}

// Analyzer runs the detection pipeline over single images.
//
// An Analyzer holds no per-scan state and may be shared between
// goroutines as long as its engines may be.
type Analyzer struct {
	engines         *engine.Set
	angles          []float64
	tertiaryMaxSide int
	logger          *slog.Logger
}

// NewAnalyzer creates an Analyzer over the given engines.
func NewAnalyzer(engines *engine.Set, opts Options) *Analyzer {
	a := &Analyzer{
		engines:         engines,
		angles:          opts.Angles,
		tertiaryMaxSide: opts.TertiaryMaxSide,
		logger:          opts.Logger,
	}
	if len(a.angles) == 0 {
		a.angles = imaging.StandardAngles
	}
	if a.tertiaryMaxSide <= 0 {
		a.tertiaryMaxSide = DefaultTertiaryMaxSide
	}
	if a.logger == nil {
		a.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	a.logger = a.logger.With("component", "analyzer")
	return a
}

// ScanFile loads an image from disk and analyzes it.
func (a *Analyzer) ScanFile(path string) Result {
	r, err := imaging.Load(path)
	if err != nil {
		return failedResult(fmt.Errorf("failed to load image from %s: %w", path, err))
	}
	return a.AnalyzeRaster(r)
}

// ScanBytes decodes an encoded image and analyzes it.
func (a *Analyzer) ScanBytes(data []byte) Result {
	r, err := imaging.Decode(data)
	if err != nil {
		return failedResult(fmt.Errorf("failed to decode image: %w", err))
	}
	return a.AnalyzeRaster(r)
}

// ScanBase64 decodes a base64 image (optionally a data: URL) and analyzes
// it.
func (a *Analyzer) ScanBase64(s string) Result {
	r, err := imaging.DecodeBase64(s)
	if err != nil {
		return failedResult(fmt.Errorf("failed to decode image from base64: %w", err))
	}
	return a.AnalyzeRaster(r)
}

// Analyze runs the detection pipeline over img.
func (a *Analyzer) Analyze(img image.Image) Result {
	r, err := imaging.NewRaster(img)
	if err != nil {
		return failedResult(err)
	}
	return a.AnalyzeRaster(r)
}

// AnalyzeRaster runs the detection pipeline over r.
//
// # Passes
//
// Passes run cheapest first and the scan stops as soon as any pass accepts
// a payload:
//  1. CLAHE-enhanced grayscale at every sweep angle, primary engine
//  2. upscaled and thresholded variants at every angle, primary engine
//  3. secondary engine on the enhanced image
//  4. tertiary engine on a color copy, when available
//
// Engine errors and panics count as "nothing found" for that attempt.
func (a *Analyzer) AnalyzeRaster(r *imaging.Raster) Result {
	acc := newAccumulator()
	enhanced := imaging.EnhancedVariant(r)

	if a.sweep(acc, enhanced) {
		return acc.result()
	}

	if up, ok := imaging.UpscaledVariant(enhanced); ok {
		if a.sweep(acc, up) {
			return acc.result()
		}
	}
	if a.sweep(acc, imaging.ThresholdVariant(enhanced)) {
		return acc.result()
	}

	if engine.IsAvailable(a.engines.Secondary) {
		acc.add(a.decode(a.engines.Secondary, enhanced))
		if acc.found() {
			return acc.result()
		}
	}

	if engine.IsAvailable(a.engines.Tertiary) {
		acc.add(a.decode(a.engines.Tertiary, imaging.ColorVariant(r, a.tertiaryMaxSide)))
	}

	return acc.result()
}

// sweep feeds every rotation of v to the primary engine and reports
// whether anything was accepted.
func (a *Analyzer) sweep(acc *accumulator, v imaging.Variant) bool {
	if !engine.IsAvailable(a.engines.Primary) {
		return false
	}
	for _, angle := range a.angles {
		acc.add(a.decodeMulti(v.Rotated(angle)))
		if acc.found() {
			return true
		}
	}
	return false
}

func (a *Analyzer) decodeMulti(v imaging.Variant) (payloads []engine.Payload) {
	e := a.engines.Primary
	defer a.recoverEngine(e.Name(), v, &payloads)

	payloads, _, err := e.DecodeMulti(v.Raster.Image())
	if err != nil {
		a.logger.Debug("engine failed", "engine", e.Name(), "variant", v.String(), "error", err)
		return nil
	}
	return payloads
}

func (a *Analyzer) decode(e engine.Decoder, v imaging.Variant) (payloads []engine.Payload) {
	defer a.recoverEngine(e.Name(), v, &payloads)

	payloads, err := e.Decode(v.Raster.Image())
	if err != nil {
		a.logger.Debug("engine failed", "engine", e.Name(), "variant", v.String(), "error", err)
		return nil
	}
	return payloads
}

func (a *Analyzer) recoverEngine(name string, v imaging.Variant, payloads *[]engine.Payload) {
	if rec := recover(); rec != nil {
		a.logger.Debug("engine panicked", "engine", name, "variant", v.String(), "panic", rec)
		*payloads = nil
	}
}
