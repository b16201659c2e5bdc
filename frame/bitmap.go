// Package frame implements the 1-bit frame buffer for the 128x64
// monochrome LCD, plus the text and bar-graph drawing primitives that
// page renderers compose into a full frame.
package frame

import (
	"image"
	"image/color"
)

// Display dimensions in pixels.
const (
	Width  = 128
	Height = 64
)

// Bitmap is a Width x Height binary pixel grid. It implements
// draw.Image so the golang.org/x/image font machinery can draw glyphs
// onto it directly; any color at or above half luminance lights a pixel.
//
// A Bitmap is produced fresh for every frame and never mutated after
// being handed to a display sink.
type Bitmap struct {
	pix [Height * Width]bool
}

// New returns a blank (all pixels unlit) bitmap.
func New() *Bitmap {
	return &Bitmap{}
}

// ColorModel implements image.Image.
func (b *Bitmap) ColorModel() color.Model {
	return color.GrayModel
}

// Bounds implements image.Image.
func (b *Bitmap) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image. Lit pixels read as white, unlit as black.
func (b *Bitmap) At(x, y int) color.Color {
	if b.On(x, y) {
		return color.Gray{Y: 0xff}
	}
	return color.Gray{Y: 0x00}
}

// Set implements draw.Image. Out-of-bounds writes are dropped so glyph
// runs and bars may safely overhang the display edge.
func (b *Bitmap) Set(x, y int, c color.Color) {
	b.SetPixel(x, y, color.GrayModel.Convert(c).(color.Gray).Y >= 0x80)
}

// SetPixel lights or clears a single pixel. Out-of-bounds is a no-op.
func (b *Bitmap) SetPixel(x, y int, on bool) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	b.pix[y*Width+x] = on
}

// On reports whether the pixel at (x, y) is lit.
// Out-of-bounds pixels read as unlit.
func (b *Bitmap) On(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return b.pix[y*Width+x]
}
