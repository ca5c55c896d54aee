package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ironsheep/qr-scan-mcp/internal/api"
	"github.com/ironsheep/qr-scan-mcp/internal/config"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("qr-scan-api %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("qr-scan-api - HTTP API for QR code scanning")
			fmt.Println()
			fmt.Println("Usage: qr-scan-api [options]")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  QR_SCAN_HTTP_ADDR=:8000          Listen address")
			fmt.Println("  QR_SCAN_MAX_UPLOAD_MB=50         Request body limit")
			fmt.Println()
			fmt.Println("The scanner settings are shared with qr-scan-mcp; see qr-scan-mcp --help.")
			return
		}
	}

	cfg, warnings := config.Load()
	logger := cfg.NewLogger(os.Stderr)
	for _, w := range warnings {
		logger.Warn(w)
	}

	engines, analyzer, documents := cfg.NewScanners(logger)
	handler := api.NewHandler(analyzer, documents, cfg.MaxUploadBytes(), logger)
	handler.Version = Version

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", "addr", cfg.HTTPAddr, "version", Version)
	err := srv.ListenAndServe()
	if cerr := engines.Close(); cerr != nil {
		logger.Warn("failed to release engines", "error", cerr)
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
