//go:build !wechat || !cgo

package engine

import (
	"image"
	"log/slog"
)

// WeChat is the model-based tertiary engine. This build was compiled
// without the "wechat" tag, so the engine reports itself unavailable and
// the orchestrator skips it.
type WeChat struct{}

// NewWeChat returns an unavailable engine.
func NewWeChat(modelDir string, logger *slog.Logger) *WeChat {
	return &WeChat{}
}

func (w *WeChat) Name() string { return "wechat-cnn" }

// Available always reports false in this build.
func (w *WeChat) Available() bool { return false }

// Decode always returns ErrUnavailable in this build.
func (w *WeChat) Decode(img image.Image) ([]Payload, error) {
	return nil, ErrUnavailable
}

// Close is a no-op in this build.
func (w *WeChat) Close() error { return nil }
