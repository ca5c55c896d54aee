package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/qr-scan-mcp/internal/config"
	"github.com/ironsheep/qr-scan-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("qr-scan-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("qr-scan-mcp - MCP server for QR code scanning")
			fmt.Println()
			fmt.Println("Usage: qr-scan-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			printEnvironment()
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	cfg, warnings := config.Load()

	// Logging goes to stderr (stdout is for MCP protocol)
	logger := cfg.NewLogger(os.Stderr)
	for _, w := range warnings {
		logger.Warn(w)
	}
	logger.Debug("starting", "version", Version, "built", BuildTime, "commit", GitCommit)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engines, analyzer, documents := cfg.NewScanners(logger)
	srv := server.New(analyzer, documents, logger)
	srv.Version = Version
	err := srv.Run(ctx)
	if cerr := engines.Close(); cerr != nil {
		logger.Warn("failed to release engines", "error", cerr)
	}
	if err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func printEnvironment() {
	fmt.Println("Environment variables:")
	fmt.Println("  QR_SCAN_LOG_LEVEL=debug          Log level (debug, info, warn, error)")
	fmt.Println("  QR_SCAN_ENGINE_DEBUG=true        Per-attempt decoder diagnostics")
	fmt.Println("  QR_SCAN_DENSE_ROTATION=true      Also try oblique rotation angles")
	fmt.Println("  QR_SCAN_WECHAT_MODEL_DIR=<dir>   Models for the CNN decoder (wechat builds)")
	fmt.Println("  QR_SCAN_PDF_DPI=150              Base PDF render resolution")
	fmt.Println("  QR_SCAN_PDF_RETRY_DPI=200        Resolution for retrying empty pages")
	fmt.Println("  QR_SCAN_PDF_RETRY_BUDGET=3       Retries per document")
	fmt.Println("  QR_SCAN_PDF_MAX_SIDE=1800        Page size cap in pixels")
	fmt.Println("  QR_SCAN_PDF_GC_INTERVAL=5        Pages between forced collections")
}
