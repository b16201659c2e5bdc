// Package sn3218 drives the SN3218 18-channel LED controller over I2C,
// used as the six-zone RGB backlight on the Pimoroni GFX HAT.
package sn3218

import (
	"fmt"
	"io"
	"log/slog"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"

	"gitlab.com/tinyland/lab/hatstats/display"
)

// Compile-time interface compliance check.
var _ display.Backlight = (*Backlight)(nil)

const (
	// devAddr is the fixed I2C address of the SN3218.
	devAddr = 0x54

	regShutdown   = 0x00 // 1 = normal operation
	regPWMBase    = 0x01 // 18 consecutive PWM registers
	regEnableBase = 0x13 // 3 registers, 6 channel-enable bits each
	regUpdate     = 0x16 // any write latches PWM/enable values
	regReset      = 0x17 // any write resets all registers

	channels = 18
	zones    = channels / 3
)

// Config selects the I2C bus. The device address is fixed in hardware.
type Config struct {
	// Bus is the I2C bus name; empty selects the first available.
	Bus string
}

// Backlight is an open SN3218 device driving six RGB zones.
type Backlight struct {
	bus    i2c.BusCloser
	dev    *i2c.Dev
	logger *slog.Logger
}

// New opens the I2C bus and enables the controller with all channels
// off. periph's host driver must be initialised first.
func New(cfg Config, logger *slog.Logger) (*Backlight, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("sn3218: open i2c bus %q: %w", cfg.Bus, err)
	}

	b := &Backlight{
		bus:    bus,
		dev:    &i2c.Dev{Addr: devAddr, Bus: bus},
		logger: logger,
	}

	if err := b.write(regReset, 0xFF); err != nil {
		bus.Close()
		return nil, err
	}
	if err := b.write(regShutdown, 0x01); err != nil {
		bus.Close()
		return nil, err
	}
	// Enable all three banks of six channels.
	if err := b.write(regEnableBase, 0x3F, 0x3F, 0x3F); err != nil {
		bus.Close()
		return nil, err
	}
	if err := b.write(regUpdate, 0xFF); err != nil {
		bus.Close()
		return nil, err
	}

	logger.Info("sn3218 initialised", "bus", cfg.Bus)
	return b, nil
}

// write sends a register address followed by values; the controller
// auto-increments the register for each value.
func (b *Backlight) write(reg byte, values ...byte) error {
	buf := append([]byte{reg}, values...)
	if err := b.dev.Tx(buf, nil); err != nil {
		return fmt.Errorf("sn3218: write reg 0x%02x: %w", reg, err)
	}
	return nil
}

// Set drives all six zones to the same color.
func (b *Backlight) Set(r, g, bl uint8) error {
	pwm := make([]byte, channels)
	for zone := 0; zone < zones; zone++ {
		pwm[zone*3+0] = r
		pwm[zone*3+1] = g
		pwm[zone*3+2] = bl
	}
	if err := b.write(regPWMBase, pwm...); err != nil {
		return err
	}
	return b.write(regUpdate, 0xFF)
}

// Off extinguishes all zones.
func (b *Backlight) Off() error {
	return b.Set(0, 0, 0)
}

// Close switches the controller off and releases the bus.
func (b *Backlight) Close() error {
	if err := b.Off(); err != nil {
		b.logger.Warn("backlight off on close failed", "error", err)
	}
	if err := b.write(regShutdown, 0x00); err != nil {
		b.logger.Warn("shutdown on close failed", "error", err)
	}
	return b.bus.Close()
}
