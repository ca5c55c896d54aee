//go:build !wechat || !cgo

package engine

import (
	"errors"
	"testing"

	"github.com/ironsheep/qr-scan-mcp/internal/qrtest"
)

func TestWeChat_UnavailableWithoutBuildTag(t *testing.T) {
	w := NewWeChat("/some/model/dir", testLogger())

	if w.Available() {
		t.Error("WeChat should be unavailable without the wechat build tag")
	}
	if IsAvailable(w) {
		t.Error("IsAvailable should honor the capability interface")
	}

	_, err := w.Decode(qrtest.Code(t, "x", 100))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Decode error: got %v, want ErrUnavailable", err)
	}

	if err := w.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
