package frame

import "testing"

// countLit returns the number of lit pixels in the rectangle
// [x0,x1] x [y0,y1] inclusive.
func countLit(b *Bitmap, x0, y0, x1, y1 int) int {
	n := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if b.On(x, y) {
				n++
			}
		}
	}
	return n
}

// barHeight returns the number of lit pixels in column x inside the
// graph interior rows.
func barHeight(b *Bitmap, x, yStart, height int) int {
	n := 0
	for y := yStart + 1; y <= yStart+height-2; y++ {
		if b.On(x, y) {
			n++
		}
	}
	return n
}

// TestDrawGraphAllZerosDrawsOnlyBorder verifies a zero series leaves
// the interior untouched.
func TestDrawGraphAllZerosDrawsOnlyBorder(t *testing.T) {
	b := New()
	values := make([]float64, Width)

	DrawGraph(b, values, 10, 20, 100)

	// Border rows and columns are fully lit.
	for x := 0; x < Width; x++ {
		if !b.On(x, 10) || !b.On(x, 29) {
			t.Fatalf("border missing at column %d", x)
		}
	}
	for y := 10; y <= 29; y++ {
		if !b.On(0, y) || !b.On(Width-1, y) {
			t.Fatalf("border missing at row %d", y)
		}
	}

	// Interior is empty.
	if n := countLit(b, 1, 11, Width-2, 28); n != 0 {
		t.Errorf("interior lit pixels = %d, want 0", n)
	}
}

// TestDrawGraphFullScaleBar verifies a value equal to the ceiling
// produces a bar of exactly height-2 pixels at its column.
func TestDrawGraphFullScaleBar(t *testing.T) {
	const yStart, height = 10, 20

	b := New()
	values := make([]float64, Width)
	values[5] = 100

	DrawGraph(b, values, yStart, height, 100)

	if got := barHeight(b, 6, yStart, height); got != height-2 {
		t.Errorf("bar height at column 6 = %d, want %d", got, height-2)
	}
}

// TestDrawGraphClipsAboveCeiling verifies values above the ceiling draw
// the same maximal bar as values equal to it.
func TestDrawGraphClipsAboveCeiling(t *testing.T) {
	const yStart, height = 0, 18

	atMax := New()
	above := New()

	vAtMax := make([]float64, Width)
	vAbove := make([]float64, Width)
	vAtMax[3] = 100
	vAbove[3] = 12345

	DrawGraph(atMax, vAtMax, yStart, height, 100)
	DrawGraph(above, vAbove, yStart, height, 100)

	hMax := barHeight(atMax, 4, yStart, height)
	hAbove := barHeight(above, 4, yStart, height)
	if hMax != height-2 {
		t.Errorf("bar at ceiling = %d, want %d", hMax, height-2)
	}
	if hAbove != hMax {
		t.Errorf("bar above ceiling = %d, want %d", hAbove, hMax)
	}
}

// TestDrawGraphBarsGrowFromBottom verifies a half-scale bar sits on the
// bottom interior edge, not the top.
func TestDrawGraphBarsGrowFromBottom(t *testing.T) {
	const yStart, height = 4, 22

	b := New()
	values := make([]float64, Width)
	values[0] = 50

	DrawGraph(b, values, yStart, height, 100)

	want := 10 // round(50/100 * 20)
	if got := barHeight(b, 1, yStart, height); got != want {
		t.Fatalf("bar height = %d, want %d", got, want)
	}

	yBottom := yStart + height - 2
	for dy := 0; dy < want; dy++ {
		if !b.On(1, yBottom-dy) {
			t.Errorf("pixel (1,%d) unlit, want lit", yBottom-dy)
		}
	}
	if b.On(1, yStart+1) {
		t.Error("top interior row lit for a half-scale bar")
	}
}

// TestDrawGraphDeterministic verifies rendering the same inputs twice
// yields identical bitmaps.
func TestDrawGraphDeterministic(t *testing.T) {
	values := make([]float64, Width)
	for i := range values {
		values[i] = float64(i % 101)
	}

	a := New()
	b := New()
	DrawGraph(a, values, 12, 20, 100)
	DrawGraph(b, values, 12, 20, 100)

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if a.On(x, y) != b.On(x, y) {
				t.Fatalf("bitmaps differ at (%d,%d)", x, y)
			}
		}
	}
}

// TestDrawGraphDegenerateRegion verifies regions too small for an
// interior draw nothing.
func TestDrawGraphDegenerateRegion(t *testing.T) {
	b := New()
	values := []float64{100}

	DrawGraph(b, values, 0, 2, 100)

	if n := countLit(b, 0, 0, Width-1, Height-1); n != 0 {
		t.Errorf("lit pixels = %d, want 0 for degenerate region", n)
	}
}
