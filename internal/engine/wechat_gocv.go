//go:build wechat && cgo

package engine

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"unicode/utf8"

	"gocv.io/x/gocv"
	"gocv.io/x/gocv/contrib"
)

// Model file names expected in the model directory. These are the files
// published with OpenCV's wechat_qrcode contrib module.
const (
	detectProto = "detect.prototxt"
	detectModel = "detect.caffemodel"
	srProto     = "sr.prototxt"
	srModel     = "sr.caffemodel"
)

// WeChat is the model-based tertiary engine: OpenCV's WeChat QR decoder,
// a CNN detector followed by a super-resolution stage, accessed through
// gocv. It is the most accurate and the slowest engine.
//
// The underlying detector is not safe for concurrent use, so calls are
// serialized on an internal mutex.
type WeChat struct {
	mu       sync.Mutex
	detector *contrib.WeChatQRCode
	logger   *slog.Logger
}

// NewWeChat loads the models from modelDir. Missing model files produce an
// unavailable engine rather than an error.
func NewWeChat(modelDir string, logger *slog.Logger) *WeChat {
	w := &WeChat{logger: logger}
	if modelDir == "" {
		return w
	}

	paths := make([]string, 0, 4)
	for _, name := range []string{detectProto, detectModel, srProto, srModel} {
		p := filepath.Join(modelDir, name)
		if _, err := os.Stat(p); err != nil {
			logger.Debug("wechat model missing", "path", p, "error", err)
			return w
		}
		paths = append(paths, p)
	}

	w.detector = contrib.NewWeChatQRCode(paths[0], paths[1], paths[2], paths[3])
	return w
}

func (w *WeChat) Name() string { return "wechat-cnn" }

// Available reports whether the models were loaded.
func (w *WeChat) Available() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.detector != nil
}

// Close releases the OpenCV detector. The engine is unavailable afterwards.
func (w *WeChat) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.detector != nil {
		w.detector.Close()
		w.detector = nil
	}
	return nil
}

// Decode runs the CNN detector over img. It expects a color image.
func (w *WeChat) Decode(img image.Image) ([]Payload, error) {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to convert image: %w", w.Name(), err)
	}
	defer mat.Close()

	var points []gocv.Mat
	w.mu.Lock()
	if w.detector == nil {
		w.mu.Unlock()
		return nil, ErrUnavailable
	}
	texts := w.detector.DetectAndDecode(mat, &points)
	w.mu.Unlock()
	for i := range points {
		points[i].Close()
	}

	payloads := make([]Payload, 0, len(texts))
	for _, t := range texts {
		payloads = append(payloads, Payload{
			Text:   t,
			Binary: !utf8.ValidString(t),
			Format: "QR_CODE",
		})
	}
	return payloads, nil
}
