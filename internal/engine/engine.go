package engine

import (
	"errors"
	"image"
	"io"
	"log/slog"
)

// ErrUnavailable is returned by an engine whose backing capability is not
// present in this build or runtime.
var ErrUnavailable = errors.New("decoding engine unavailable")

// Payload is one raw value surfaced by a decoding engine, before
// validation.
type Payload struct {
	// Text is the decoded content.
	Text string

	// Binary is set when the engine could not present the content as
	// valid text (raw byte-mode data, for example).
	Binary bool

	// Format names the symbology that produced the payload ("QR_CODE",
	// "CODE_128", ...). Informational only.
	Format string
}

// Decoder decodes at most one symbol per call.
type Decoder interface {
	Name() string
	Decode(img image.Image) ([]Payload, error)
}

// MultiDecoder decodes every symbol it can find in one call. Alongside the
// payloads it returns each symbol's keypoints (finder pattern centers) in
// image coordinates.
type MultiDecoder interface {
	Name() string
	DecodeMulti(img image.Image) ([]Payload, [][]image.Point, error)
}

// Capability is implemented by engines that may be absent at runtime.
type Capability interface {
	Available() bool
}

// IsAvailable reports whether an engine can be called. Engines that do not
// implement Capability are always available; a nil engine never is.
func IsAvailable(e interface{}) bool {
	if e == nil {
		return false
	}
	if c, ok := e.(Capability); ok {
		return c.Available()
	}
	return true
}

// Options configures engine construction.
type Options struct {
	// Logger receives engine diagnostics. Nil discards them.
	Logger *slog.Logger

	// Verbose enables per-attempt diagnostic output from the engines.
	Verbose bool

	// WeChatModelDir holds the CNN detector and super-resolution models
	// used by the tertiary engine.
	WeChatModelDir string
}

// Set holds the three engines in priority order.
type Set struct {
	// Primary is fast and multi-symbol capable.
	Primary MultiDecoder

	// Secondary is slower but tolerant of skew, and also reads linear
	// barcodes.
	Secondary Decoder

	// Tertiary is the model-based last resort. It may be unavailable.
	Tertiary Decoder
}

// NewSet constructs the default engine set.
func NewSet(opts Options) *Set {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if !opts.Verbose {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger = logger.With("component", "engine")

	tertiary := NewWeChat(opts.WeChatModelDir, logger)
	if !tertiary.Available() {
		logger.Debug("tertiary engine unavailable", "engine", tertiary.Name())
	}

	return &Set{
		Primary:   NewZXingMulti(logger),
		Secondary: NewZXingRobust(logger),
		Tertiary:  tertiary,
	}
}

// Close releases engines that hold native resources. The set must not be
// used afterwards.
func (s *Set) Close() error {
	var errs []error
	for _, e := range []interface{}{s.Primary, s.Secondary, s.Tertiary} {
		if c, ok := e.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
