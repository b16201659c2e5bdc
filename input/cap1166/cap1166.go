// Package cap1166 reads the CAP1166 capacitive touch controller over
// I2C (the six buttons along the GFX HAT display) and turns touches
// into page navigation events.
//
// The controller latches a status bit per sensor until the interrupt
// flag is cleared, and applies its own sensing thresholds, so a single
// physical press reads as one rising edge: the poll loop emits exactly
// one event per press, satisfying the debounced edge-trigger contract
// the display loop relies on.
package cap1166

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"gitlab.com/tinyland/lab/hatstats/loop"
)

const (
	// devAddr is the CAP1166 I2C address on the GFX HAT.
	devAddr = 0x2C

	regMainControl = 0x00 // bit 0 is the latched interrupt flag
	regInputStatus = 0x03 // one latched bit per sensor input

	intFlag = 0x01

	// defaultPoll is the status poll cadence. 30ms is well under the
	// controller's own ~35ms minimum touch duration.
	defaultPoll = 30 * time.Millisecond
)

// Config selects the bus and the button channels. Zero button values
// pick the GFX HAT layout: the "-" button on channel 3 and "+" on
// channel 5.
type Config struct {
	// Bus is the I2C bus name; empty selects the first available.
	Bus string
	// PrevChannel is the sensor input for the previous-page button.
	PrevChannel int
	// NextChannel is the sensor input for the next-page button.
	NextChannel int
	// Poll overrides the status poll cadence.
	Poll time.Duration
}

// DefaultConfig returns the GFX HAT button layout.
func DefaultConfig() Config {
	return Config{PrevChannel: 3, NextChannel: 5, Poll: defaultPoll}
}

// Input is an open CAP1166 device.
type Input struct {
	bus      i2c.BusCloser
	dev      *i2c.Dev
	prevMask byte
	nextMask byte
	poll     time.Duration
	last     byte
	logger   *slog.Logger
}

// New opens the I2C bus. periph's host driver must be initialised first.
func New(cfg Config, logger *slog.Logger) (*Input, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Poll <= 0 {
		cfg.Poll = defaultPoll
	}
	if cfg.PrevChannel < 0 || cfg.PrevChannel > 5 || cfg.NextChannel < 0 || cfg.NextChannel > 5 {
		return nil, fmt.Errorf("cap1166: button channels must be 0-5, got %d and %d",
			cfg.PrevChannel, cfg.NextChannel)
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("cap1166: open i2c bus %q: %w", cfg.Bus, err)
	}

	in := &Input{
		bus:      bus,
		dev:      &i2c.Dev{Addr: devAddr, Bus: bus},
		prevMask: 1 << uint(cfg.PrevChannel),
		nextMask: 1 << uint(cfg.NextChannel),
		poll:     cfg.Poll,
		logger:   logger,
	}

	// Clear any touch latched before startup.
	if _, err := in.readStatus(); err != nil {
		bus.Close()
		return nil, err
	}
	in.last = 0

	logger.Info("cap1166 initialised", "bus", cfg.Bus,
		"prev_channel", cfg.PrevChannel, "next_channel", cfg.NextChannel)
	return in, nil
}

// readStatus reads the latched sensor bits and clears the interrupt
// flag so the controller re-arms for the next touch.
func (in *Input) readStatus() (byte, error) {
	var status [1]byte
	if err := in.dev.Tx([]byte{regInputStatus}, status[:]); err != nil {
		return 0, fmt.Errorf("cap1166: read input status: %w", err)
	}

	var main [1]byte
	if err := in.dev.Tx([]byte{regMainControl}, main[:]); err != nil {
		return 0, fmt.Errorf("cap1166: read main control: %w", err)
	}
	if main[0]&intFlag != 0 {
		if err := in.dev.Tx([]byte{regMainControl, main[0] &^ intFlag}, nil); err != nil {
			return 0, fmt.Errorf("cap1166: clear interrupt: %w", err)
		}
	}

	return status[0], nil
}

// Run polls the controller until ctx is cancelled, emitting one event
// per new press on the configured channels. Transient bus errors are
// logged and retried on the next poll.
func (in *Input) Run(ctx context.Context, events chan<- loop.Event) error {
	ticker := time.NewTicker(in.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		status, err := in.readStatus()
		if err != nil {
			in.logger.Warn("touch poll failed", "error", err)
			continue
		}

		pressed := status &^ in.last
		in.last = status

		if pressed&in.prevMask != 0 {
			in.emit(ctx, events, loop.Event{Kind: loop.Prev})
		}
		if pressed&in.nextMask != 0 {
			in.emit(ctx, events, loop.Event{Kind: loop.Next})
		}
	}
}

// emit delivers an event unless the context ends first.
func (in *Input) emit(ctx context.Context, events chan<- loop.Event, ev loop.Event) {
	select {
	case events <- ev:
		in.logger.Debug("button press", "event", ev.String())
	case <-ctx.Done():
	}
}

// Close releases the bus.
func (in *Input) Close() error {
	return in.bus.Close()
}
