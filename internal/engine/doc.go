// Package engine wraps the barcode decoding libraries behind a small set of
// interfaces so the scanner can try them in a fixed priority order.
//
// # Engines
//
// Three engines are provided, cheapest first:
//
//   - Primary (ZXingMulti): ZXing multi-symbol QR reader. Fast, and the only
//     engine that returns several codes from one image.
//   - Secondary (ZXingRobust): ZXing single-symbol QR reader in TRY_HARDER
//     mode, followed by the 1-D readers (UPC/EAN, Code 128/39/93, ITF,
//     Codabar) for linear barcodes.
//   - Tertiary (WeChat): OpenCV's CNN-based WeChat QR decoder via gocv.
//     Only compiled with the "wechat" build tag (requires cgo and OpenCV
//     with the contrib modules); otherwise it reports itself unavailable.
//
// # Failure Semantics
//
// "No symbol found" is reported as an empty payload slice with a nil error.
// Any other failure is returned as an error; callers treat it as "no
// payload" for that attempt and move on to the next variant or engine.
//
// # Build Tags
//
// Build with -tags wechat to enable the tertiary engine:
//
//	go build -tags wechat ./cmd/qr-scan-mcp
//
// The models (detect.prototxt, detect.caffemodel, sr.prototxt,
// sr.caffemodel) are loaded from the directory named by
// QR_SCAN_WECHAT_MODEL_DIR.
package engine
