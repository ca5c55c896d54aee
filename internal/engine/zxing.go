package engine

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"unicode/utf8"

	"github.com/makiuchi-d/gozxing"
	multiqr "github.com/makiuchi-d/gozxing/multi/qrcode"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// ZXingMulti is the primary engine: the ZXing multi-symbol QR reader with
// a single-symbol pass as fallback when the multi detector finds nothing.
type ZXingMulti struct {
	logger *slog.Logger
}

// NewZXingMulti returns the primary engine.
func NewZXingMulti(logger *slog.Logger) *ZXingMulti {
	return &ZXingMulti{logger: logger}
}

func (z *ZXingMulti) Name() string { return "zxing-multi" }

// DecodeMulti reads every QR symbol in img.
//
// A "not found" outcome is not an error: it returns no payloads and a nil
// error. Other reader failures are returned so the caller can log them.
func (z *ZXingMulti) DecodeMulti(img image.Image) ([]Payload, [][]image.Point, error) {
	bmp, err := binaryBitmap(img)
	if err != nil {
		return nil, nil, err
	}

	results, err := multiqr.NewQRCodeMultiReader().DecodeMultiple(bmp, nil)
	if err != nil && !isNotFound(err) {
		z.logger.Debug("multi decode failed", "error", err)
	}
	if len(results) == 0 {
		// The multi detector needs three clean finder patterns per symbol;
		// the single-symbol reader is more forgiving with one code.
		res, serr := qrcode.NewQRCodeReader().Decode(bmp, nil)
		if serr != nil {
			if isNotFound(serr) {
				return nil, nil, nil
			}
			return nil, nil, fmt.Errorf("%s: %w", z.Name(), serr)
		}
		results = []*gozxing.Result{res}
	}

	payloads := make([]Payload, 0, len(results))
	points := make([][]image.Point, 0, len(results))
	for _, res := range results {
		payloads = append(payloads, toPayload(res))
		points = append(points, resultPoints(res))
	}
	return payloads, points, nil
}

// ZXingRobust is the secondary engine. It runs the single-symbol QR reader
// in TRY_HARDER mode and then each 1-D reader in turn, which also retry the
// image rotated by 90 degrees.
type ZXingRobust struct {
	logger *slog.Logger
	hints  map[gozxing.DecodeHintType]interface{}
}

// NewZXingRobust returns the secondary engine.
func NewZXingRobust(logger *slog.Logger) *ZXingRobust {
	return &ZXingRobust{
		logger: logger,
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// linearReaders returns the 1-D readers in the order they are tried. The
// readers keep scratch buffers, so each Decode call gets its own set.
func linearReaders(hints map[gozxing.DecodeHintType]interface{}) []gozxing.Reader {
	return []gozxing.Reader{
		oned.NewMultiFormatUPCEANReader(hints),
		oned.NewCode128Reader(),
		oned.NewCode39Reader(),
		oned.NewCode93Reader(),
		oned.NewITFReader(),
		oned.NewCodaBarReader(),
	}
}

func (z *ZXingRobust) Name() string { return "zxing-robust" }

// Decode returns at most one payload.
func (z *ZXingRobust) Decode(img image.Image) ([]Payload, error) {
	bmp, err := binaryBitmap(img)
	if err != nil {
		return nil, err
	}

	res, err := qrcode.NewQRCodeReader().Decode(bmp, z.hints)
	if err == nil {
		return []Payload{toPayload(res)}, nil
	}
	if !isNotFound(err) {
		z.logger.Debug("qr decode failed", "error", err)
	}

	for _, r := range linearReaders(z.hints) {
		res, err = r.Decode(bmp, z.hints)
		if err == nil {
			return []Payload{toPayload(res)}, nil
		}
		if !isNotFound(err) {
			z.logger.Debug("linear decode failed", "error", err)
		}
	}
	return nil, nil
}

func binaryBitmap(img image.Image) (*gozxing.BinaryBitmap, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("failed to binarize image: %w", err)
	}
	return bmp, nil
}

// isNotFound reports whether err only means "no symbol here". Checksum and
// format failures on a located symbol are treated the same way: the symbol
// was not readable from this variant.
func isNotFound(err error) bool {
	switch err.(type) {
	case gozxing.NotFoundException, gozxing.ChecksumException, gozxing.FormatException:
		return true
	}
	return false
}

func toPayload(res *gozxing.Result) Payload {
	text := res.GetText()
	return Payload{
		Text:   text,
		Binary: !utf8.ValidString(text),
		Format: res.GetBarcodeFormat().String(),
	}
}

func resultPoints(res *gozxing.Result) []image.Point {
	rps := res.GetResultPoints()
	pts := make([]image.Point, 0, len(rps))
	for _, p := range rps {
		if p == nil {
			continue
		}
		pts = append(pts, image.Pt(int(math.Round(p.GetX())), int(math.Round(p.GetY()))))
	}
	return pts
}
