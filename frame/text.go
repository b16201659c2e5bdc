package frame

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// face is the fixed 7x13 bitmap face used for all on-display text.
// The LCD is 128 pixels wide, so a full line holds 18 glyphs.
var face = basicfont.Face7x13

// LineHeight is the pixel height of one text line.
const LineHeight = 13

// DrawText draws s onto the bitmap with the glyph box's top-left corner
// at (x, y). Text running past the right edge is clipped.
func DrawText(b *Bitmap, x, y int, s string) {
	d := &font.Drawer{
		Dst:  b,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(s)
}

// TextWidth returns the advance width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}
