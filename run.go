package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"periph.io/x/host/v3"

	"gitlab.com/tinyland/lab/hatstats/config"
	"gitlab.com/tinyland/lab/hatstats/display"
	"gitlab.com/tinyland/lab/hatstats/display/sn3218"
	"gitlab.com/tinyland/lab/hatstats/display/st7567"
	"gitlab.com/tinyland/lab/hatstats/frame"
	"gitlab.com/tinyland/lab/hatstats/input/cap1166"
	"gitlab.com/tinyland/lab/hatstats/loop"
	"gitlab.com/tinyland/lab/hatstats/metrics"
	"gitlab.com/tinyland/lab/hatstats/pages"
	"gitlab.com/tinyland/lab/hatstats/preview"
)

// runHardwareMode wires the real HAT: ST7567 LCD over SPI, SN3218
// backlight and CAP1166 touch buttons over I2C. It blocks until ctx is
// cancelled; the loop blanks the display and extinguishes the
// backlight on the way out.
func runHardwareMode(ctx context.Context, cfg *config.Config, source metrics.Source, renderer *pages.Renderer, logger *slog.Logger) error {
	if _, err := host.Init(); err != nil {
		return fmt.Errorf("init periph host: %w", err)
	}

	lcd, err := st7567.New(st7567.Config{
		Port:     cfg.Display.SPIPort,
		DCPin:    cfg.Display.DCPin,
		ResetPin: cfg.Display.ResetPin,
		Contrast: cfg.Display.Contrast,
	}, logger)
	if err != nil {
		return err
	}
	defer lcd.Close()

	backlight, err := sn3218.New(sn3218.Config{Bus: cfg.Input.I2CBus}, logger)
	if err != nil {
		return err
	}
	defer backlight.Close()

	touch, err := cap1166.New(cap1166.Config{
		Bus:         cfg.Input.I2CBus,
		PrevChannel: cfg.Input.PrevChannel,
		NextChannel: cfg.Input.NextChannel,
	}, logger)
	if err != nil {
		return err
	}
	defer touch.Close()

	l, err := loop.New(loopConfig(cfg, source, renderer, logger, lcd, backlight))
	if err != nil {
		return err
	}

	logger.Info("buttons mapped",
		"previous", cfg.Input.PrevChannel,
		"next", cfg.Input.NextChannel,
	)

	go func() {
		if err := touch.Run(ctx, l.Events()); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("touch input stopped", "error", err)
		}
	}()

	return l.Run(ctx)
}

// runPreviewMode renders frames into the terminal via bubbletea. The
// arrow keys stand in for the touch buttons; quitting the UI stops the
// loop and vice versa.
func runPreviewMode(ctx context.Context, cfg *config.Config, source metrics.Source, renderer *pages.Renderer, logger *slog.Logger) error {
	if fits, w, h := preview.TerminalFits(); !fits {
		fmt.Fprintf(os.Stderr, "terminal is %dx%d; the preview needs at least %dx%d\n",
			w, h, frame.Width+4, frame.Height/2+4)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Bridge channel: UI key presses are forwarded to the loop once it
	// exists. The UI never blocks on it.
	presses := make(chan loop.Event, 8)
	p := tea.NewProgram(preview.NewModel(presses), tea.WithAltScreen())

	l, err := loop.New(loopConfig(cfg, source, renderer, logger, preview.NewSink(p), nil))
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-presses:
				select {
				case l.Events() <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	loopDone := make(chan error, 1)
	go func() { loopDone <- l.Run(ctx) }()

	// Stop the UI when the loop context ends (e.g. SIGINT).
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, uiErr := p.Run()
	cancel()
	<-loopDone

	return uiErr
}

// loopConfig assembles the loop configuration shared by both modes.
func loopConfig(cfg *config.Config, source metrics.Source, renderer *pages.Renderer, logger *slog.Logger, sink display.Sink, backlight display.Backlight) loop.Config {
	return loop.Config{
		Source:       source,
		Sink:         sink,
		Backlight:    backlight,
		Renderer:     renderer,
		Interval:     cfg.RefreshInterval(),
		RootPath:     cfg.Storage.Root,
		MountPath:    cfg.Storage.Mount,
		ServiceName:  cfg.Service.Name,
		NetRefKBps:   cfg.Graphs.NetRefKBps,
		BacklightRGB: [3]uint8{cfg.Backlight.R, cfg.Backlight.G, cfg.Backlight.B},
		Logger:       logger,
	}
}
