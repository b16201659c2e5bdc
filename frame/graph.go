package frame

import "math"

// DrawGraph renders a series of samples as a bordered bar graph
// occupying the full display width between yStart and yStart+height-1.
//
// Values map one-per-column, oldest leftmost. A value v lights a bar of
// round(v/ceiling*(height-2)) pixels, clamped to the region interior,
// rising from the bottom interior edge at column x+1 (one pixel in from
// the border). Values above the ceiling clip to a full-height bar;
// zero or negative values draw nothing beyond the border. The function
// is a pure transform of its inputs.
func DrawGraph(b *Bitmap, values []float64, yStart, height int, ceiling float64) {
	if height < 3 || ceiling <= 0 {
		return
	}

	drawBorder(b, yStart, height)

	inner := height - 2
	yBottom := yStart + height - 2

	for x, v := range values {
		col := x + 1
		if col >= Width-1 {
			break
		}

		bar := int(math.Round(v / ceiling * float64(inner)))
		if bar > inner {
			bar = inner
		}
		if bar <= 0 {
			continue
		}

		for dy := 0; dy < bar; dy++ {
			b.SetPixel(col, yBottom-dy, true)
		}
	}
}

// drawBorder draws the one-pixel outline rectangle around a graph region.
func drawBorder(b *Bitmap, yStart, height int) {
	yEnd := yStart + height - 1
	for x := 0; x < Width; x++ {
		b.SetPixel(x, yStart, true)
		b.SetPixel(x, yEnd, true)
	}
	for y := yStart; y <= yEnd; y++ {
		b.SetPixel(0, y, true)
		b.SetPixel(Width-1, y, true)
	}
}
