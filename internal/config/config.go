// Package config reads the service configuration from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ironsheep/qr-scan-mcp/internal/engine"
	"github.com/ironsheep/qr-scan-mcp/internal/imaging"
	"github.com/ironsheep/qr-scan-mcp/internal/scanner"
)

// Environment variable names.
const (
	EnvLogLevel       = "QR_SCAN_LOG_LEVEL"
	EnvEngineDebug    = "QR_SCAN_ENGINE_DEBUG"
	EnvPDFDPI         = "QR_SCAN_PDF_DPI"
	EnvPDFRetryDPI    = "QR_SCAN_PDF_RETRY_DPI"
	EnvPDFRetryBudget = "QR_SCAN_PDF_RETRY_BUDGET"
	EnvPDFMaxSide     = "QR_SCAN_PDF_MAX_SIDE"
	EnvPDFGCInterval  = "QR_SCAN_PDF_GC_INTERVAL"
	EnvDenseRotation  = "QR_SCAN_DENSE_ROTATION"
	EnvWeChatModelDir = "QR_SCAN_WECHAT_MODEL_DIR"
	EnvHTTPAddr       = "QR_SCAN_HTTP_ADDR"
	EnvMaxUploadMB    = "QR_SCAN_MAX_UPLOAD_MB"
)

// Config holds the settings shared by both binaries.
type Config struct {
	LogLevel       slog.Level
	EngineDebug    bool
	DenseRotation  bool
	WeChatModelDir string

	PDFDPI         float64
	PDFRetryDPI    float64
	PDFRetryBudget int
	PDFMaxSide     int
	PDFGCInterval  int

	HTTPAddr    string
	MaxUploadMB int
}

// Load reads the configuration. Malformed values fall back to their
// defaults and are reported in the returned warnings so the caller can log
// them once a logger exists.
func Load() (*Config, []string) {
	var warnings []string
	warn := func(key, val string, def interface{}) {
		warnings = append(warnings, fmt.Sprintf("invalid %s=%q, using default %v", key, val, def))
	}

	cfg := &Config{
		WeChatModelDir: getEnv(EnvWeChatModelDir, ""),
		HTTPAddr:       getEnv(EnvHTTPAddr, ":8000"),
	}

	level := getEnv(EnvLogLevel, "info")
	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		warn(EnvLogLevel, level, "info")
		cfg.LogLevel = slog.LevelInfo
	}

	cfg.EngineDebug = getBool(EnvEngineDebug, false, warn)
	cfg.DenseRotation = getBool(EnvDenseRotation, false, warn)

	cfg.PDFDPI = getFloat(EnvPDFDPI, scanner.DefaultDPI, warn)
	cfg.PDFRetryDPI = getFloat(EnvPDFRetryDPI, scanner.DefaultRetryDPI, warn)
	cfg.PDFRetryBudget = getInt(EnvPDFRetryBudget, scanner.DefaultRetryBudget, 0, warn)
	cfg.PDFMaxSide = getInt(EnvPDFMaxSide, scanner.DefaultMaxPageSide, 1, warn)
	cfg.PDFGCInterval = getInt(EnvPDFGCInterval, scanner.DefaultGCInterval, 0, warn)
	cfg.MaxUploadMB = getInt(EnvMaxUploadMB, 50, 1, warn)

	return cfg, warnings
}

// Angles returns the rotation sweep selected by DenseRotation.
func (c *Config) Angles() []float64 {
	if c.DenseRotation {
		return imaging.DenseAngles
	}
	return imaging.StandardAngles
}

// DocumentOptions returns the page streamer settings.
func (c *Config) DocumentOptions(logger *slog.Logger) scanner.DocumentOptions {
	return scanner.DocumentOptions{
		DPI:         c.PDFDPI,
		RetryDPI:    c.PDFRetryDPI,
		RetryBudget: c.PDFRetryBudget,
		MaxPageSide: c.PDFMaxSide,
		GCInterval:  c.PDFGCInterval,
		Logger:      logger,
	}
}

// NewScanners builds the engine set and the image and document scanners
// described by the configuration. The caller closes the engine set on
// shutdown.
func (c *Config) NewScanners(logger *slog.Logger) (*engine.Set, *scanner.Analyzer, *scanner.DocumentScanner) {
	engines := engine.NewSet(engine.Options{
		Logger:         logger,
		Verbose:        c.EngineDebug,
		WeChatModelDir: c.WeChatModelDir,
	})
	analyzer := scanner.NewAnalyzer(engines, scanner.Options{
		Angles: c.Angles(),
		Logger: logger,
	})
	return engines, analyzer, scanner.NewDocumentScanner(analyzer, c.DocumentOptions(logger))
}

// MaxUploadBytes returns the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

// NewLogger returns a text logger writing to w at the configured level.
// The MCP binary passes stderr, since stdout carries the protocol.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func getEnv(key, defaultVal string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return defaultVal
}

type warnFunc func(key, val string, def interface{})

func getBool(key string, defaultVal bool, warn warnFunc) bool {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		warn(key, val, defaultVal)
		return defaultVal
	}
	return b
}

func getInt(key string, defaultVal, min int, warn warnFunc) int {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < min {
		warn(key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getFloat(key string, defaultVal float64, warn warnFunc) float64 {
	val := getEnv(key, "")
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || f <= 0 {
		warn(key, val, defaultVal)
		return defaultVal
	}
	return f
}
