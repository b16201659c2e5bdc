// Package st7567 drives the 128x64 ST7567 LCD controller over SPI, as
// found on the Pimoroni GFX HAT. The controller is page-addressed:
// eight pages of eight pixel rows, one byte per column per page.
package st7567

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"gitlab.com/tinyland/lab/hatstats/display"
	"gitlab.com/tinyland/lab/hatstats/frame"
)

// Compile-time interface compliance check.
var _ display.Sink = (*Display)(nil)

// ST7567 command bytes.
const (
	cmdBias17      = 0xA3 // LCD bias 1/7
	cmdSegNormal   = 0xA0
	cmdComReverse  = 0xC8
	cmdDispNormal  = 0xA6
	cmdSetStart    = 0x40
	cmdPowerCtrl   = 0x2F // booster, regulator and follower on
	cmdRegRatio    = 0x20 // OR with ratio 0-7
	cmdDisplayOn   = 0xAF
	cmdDisplayOff  = 0xAE
	cmdSetContrast = 0x81 // followed by EV value
	cmdPageAddr    = 0xB0 // OR with page 0-7
	cmdColHigh     = 0x10 // OR with column high nibble
	cmdColLow      = 0x00 // OR with column low nibble
)

const (
	numPages = frame.Height / 8

	// resetPulse is how long the reset line is held low, and how long
	// the controller is given to come back up afterwards.
	resetPulse = 10 * time.Millisecond
)

// Config selects the bus and pins. Zero values pick the GFX HAT wiring.
type Config struct {
	// Port is the SPI port name; empty selects the first available.
	Port string
	// DCPin is the data/command select GPIO name.
	DCPin string
	// ResetPin is the controller reset GPIO name.
	ResetPin string
	// Contrast is the EV value, 0-63.
	Contrast uint8
	// Hz is the SPI clock; zero selects 4 MHz.
	Hz physic.Frequency
}

// DefaultConfig returns the GFX HAT wiring: SPI0, DC on GPIO6, reset
// on GPIO5.
func DefaultConfig() Config {
	return Config{
		Port:     "SPI0.0",
		DCPin:    "GPIO6",
		ResetPin: "GPIO5",
		Contrast: 58,
		Hz:       4 * physic.MegaHertz,
	}
}

// Display is an open ST7567 device.
type Display struct {
	port   spi.PortCloser
	conn   spi.Conn
	dc     gpio.PinIO
	rst    gpio.PinIO
	logger *slog.Logger
}

// New opens the SPI port and GPIO pins, resets the controller, and
// runs the init sequence, leaving the display on and blank.
// periph's host driver must be initialised first.
func New(cfg Config, logger *slog.Logger) (*Display, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Hz == 0 {
		cfg.Hz = 4 * physic.MegaHertz
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("st7567: open spi port %q: %w", cfg.Port, err)
	}

	conn, err := port.Connect(cfg.Hz, spi.Mode0, 8)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("st7567: connect: %w", err)
	}

	dc := gpioreg.ByName(cfg.DCPin)
	if dc == nil {
		port.Close()
		return nil, fmt.Errorf("st7567: no such pin %q", cfg.DCPin)
	}
	rst := gpioreg.ByName(cfg.ResetPin)
	if rst == nil {
		port.Close()
		return nil, fmt.Errorf("st7567: no such pin %q", cfg.ResetPin)
	}

	d := &Display{port: port, conn: conn, dc: dc, rst: rst, logger: logger}

	if err := d.reset(); err != nil {
		port.Close()
		return nil, err
	}
	if err := d.init(cfg.Contrast); err != nil {
		port.Close()
		return nil, err
	}

	logger.Info("st7567 initialised", "port", cfg.Port, "dc", cfg.DCPin, "reset", cfg.ResetPin)
	return d, nil
}

// reset pulses the reset line.
func (d *Display) reset() error {
	if err := d.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7567: reset low: %w", err)
	}
	time.Sleep(resetPulse)
	if err := d.rst.Out(gpio.High); err != nil {
		return fmt.Errorf("st7567: reset high: %w", err)
	}
	time.Sleep(resetPulse)
	return nil
}

// init runs the power-up command sequence.
func (d *Display) init(contrast uint8) error {
	if contrast > 63 {
		contrast = 63
	}
	return d.command(
		cmdBias17,
		cmdSegNormal,
		cmdComReverse,
		cmdDispNormal,
		cmdSetStart,
		cmdPowerCtrl,
		cmdRegRatio|3,
		cmdDisplayOn,
		cmdSetContrast,
		contrast,
	)
}

// command writes command bytes with the DC line low.
func (d *Display) command(bytes ...byte) error {
	if err := d.dc.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7567: dc low: %w", err)
	}
	if err := d.conn.Tx(bytes, nil); err != nil {
		return fmt.Errorf("st7567: command write: %w", err)
	}
	return nil
}

// data writes display RAM bytes with the DC line high.
func (d *Display) data(bytes []byte) error {
	if err := d.dc.Out(gpio.High); err != nil {
		return fmt.Errorf("st7567: dc high: %w", err)
	}
	if err := d.conn.Tx(bytes, nil); err != nil {
		return fmt.Errorf("st7567: data write: %w", err)
	}
	return nil
}

// Show transfers a full frame to the controller, one page at a time.
func (d *Display) Show(b *frame.Bitmap) error {
	row := make([]byte, frame.Width)
	for page := 0; page < numPages; page++ {
		if err := d.command(cmdPageAddr|byte(page), cmdColHigh, cmdColLow); err != nil {
			return err
		}
		for x := 0; x < frame.Width; x++ {
			var packed byte
			for bit := 0; bit < 8; bit++ {
				if b.On(x, page*8+bit) {
					packed |= 1 << bit
				}
			}
			row[x] = packed
		}
		if err := d.data(row); err != nil {
			return err
		}
	}
	return nil
}

// Clear blanks the display.
func (d *Display) Clear() error {
	return d.Show(frame.New())
}

// Close blanks and switches off the panel, then releases the SPI port.
func (d *Display) Close() error {
	if err := d.Clear(); err != nil {
		d.logger.Warn("clear on close failed", "error", err)
	}
	if err := d.command(cmdDisplayOff); err != nil {
		d.logger.Warn("display off on close failed", "error", err)
	}
	return d.port.Close()
}
