// hatstats is a system status dashboard for the Pimoroni GFX HAT's
// 128x64 monochrome LCD.
//
// It cycles through three pages (network identity and service status,
// storage and memory capacity, rolling CPU/network graphs) driven by
// the HAT's touch buttons. Without the HAT attached it can render the
// same frames into the terminal.
//
// Usage:
//
//	hatstats [flags]
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/hatstats/config.yaml)
//	-preview        Render to the terminal instead of the HAT
//	-diagnose       Print one reading of every metric and exit
//	-verbose        Enable debug logging
//	-version        Print version and exit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gitlab.com/tinyland/lab/hatstats/config"
	"gitlab.com/tinyland/lab/hatstats/metrics"
	"gitlab.com/tinyland/lab/hatstats/pages"
)

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file (default: ~/.config/hatstats/config.yaml)")
		runPreview  = flag.Bool("preview", false, "Render to the terminal instead of the HAT")
		runDiagnose = flag.Bool("diagnose", false, "Print one reading of every metric and exit")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("hatstats %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Load configuration
	// ---------------------------------------------------------------

	path := *configPath
	if path == "" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, ".config", "hatstats", "config.yaml")
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := buildLogger(cfg, *verbose, *runPreview)
	source := metrics.NewSystemSource(cfg.SampleTimeoutDuration(), logger)

	// ---------------------------------------------------------------
	// Diagnostics
	// ---------------------------------------------------------------

	if *runDiagnose {
		runDiagnostics(cfg, source)
		os.Exit(0)
	}

	// ---------------------------------------------------------------
	// Context with signal handling
	// ---------------------------------------------------------------

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	renderer := &pages.Renderer{
		ServiceName: cfg.Service.Label,
		ServicePort: cfg.Service.Port,
		MountLabel:  cfg.Storage.MountLabel,
		CPUCeiling:  cfg.Graphs.CPUCeiling,
	}

	logger.Info("hatstats starting", "version", version, "preview", *runPreview)

	if *runPreview {
		err = runPreviewMode(ctx, cfg, source, renderer, logger)
	} else {
		err = runHardwareMode(ctx, cfg, source, renderer, logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "hatstats: %v\n", err)
		os.Exit(1)
	}
}

// buildLogger sets up slog output. Logs go to the configured file when
// it can be opened, otherwise to stderr. In preview mode stderr
// belongs to the terminal UI, so file-less logging is discarded.
func buildLogger(cfg *config.Config, verbose, preview bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err == nil {
			if f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				return slog.New(slog.NewTextHandler(f, opts))
			}
		}
	}

	if preview {
		return slog.New(slog.NewTextHandler(io.Discard, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
