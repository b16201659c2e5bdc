// Package display defines the output contracts the render loop drives:
// a frame sink and a backlight. Hardware drivers live in subpackages;
// the preview package provides a terminal-based implementation.
package display

import "gitlab.com/tinyland/lab/hatstats/frame"

// Sink receives complete frames. Show replaces the entire displayed
// contents atomically; partial updates do not exist in this contract.
type Sink interface {
	// Show displays the frame.
	Show(b *frame.Bitmap) error

	// Clear blanks the display.
	Clear() error
}

// Backlight controls a static RGB backlight. It is set once at startup
// and extinguished at shutdown.
type Backlight interface {
	// Set drives all backlight zones to the given color.
	Set(r, g, b uint8) error

	// Off extinguishes the backlight.
	Off() error
}
