package series

import "testing"

// TestRollingAlwaysFullWidth verifies the buffer length is constant
// from construction through any number of pushes.
func TestRollingAlwaysFullWidth(t *testing.T) {
	const width = 8

	r := NewRolling(width)
	if got := len(r.Values()); got != width {
		t.Fatalf("fresh buffer length = %d, want %d", got, width)
	}

	for i := 0; i < width*3; i++ {
		r.Push(float64(i))
		if got := len(r.Values()); got != width {
			t.Fatalf("length after %d pushes = %d, want %d", i+1, got, width)
		}
	}
}

// TestRollingPrefilledWithZeros verifies a fresh buffer reads as all zeros.
func TestRollingPrefilledWithZeros(t *testing.T) {
	r := NewRolling(4)
	for i, v := range r.Values() {
		if v != 0 {
			t.Errorf("values[%d] = %f, want 0", i, v)
		}
	}
}

// TestRollingKeepsLastWidthValues verifies that after more than width
// pushes the buffer equals the last width pushed values, in order.
func TestRollingKeepsLastWidthValues(t *testing.T) {
	const width = 5

	r := NewRolling(width)
	for i := 1; i <= 12; i++ {
		r.Push(float64(i))
	}

	want := []float64{8, 9, 10, 11, 12}
	got := r.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %f, want %f", i, got[i], want[i])
		}
	}
	if r.Last() != 12 {
		t.Errorf("Last() = %f, want 12", r.Last())
	}
}

// TestRollingPartialFill verifies ordering before the buffer wraps:
// zeros first, then pushed values newest-last.
func TestRollingPartialFill(t *testing.T) {
	r := NewRolling(4)
	r.Push(7)
	r.Push(9)

	want := []float64{0, 0, 7, 9}
	got := r.Values()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("values[%d] = %f, want %f", i, got[i], want[i])
		}
	}
}

// TestRollingValuesIsACopy verifies mutating the returned slice does not
// affect the buffer.
func TestRollingValuesIsACopy(t *testing.T) {
	r := NewRolling(3)
	r.Push(1)

	v := r.Values()
	v[2] = 99

	if r.Last() != 1 {
		t.Errorf("buffer mutated through Values() copy: last = %f, want 1", r.Last())
	}
}

// TestRollingMinimumWidth verifies a non-positive width is coerced to 1.
func TestRollingMinimumWidth(t *testing.T) {
	r := NewRolling(0)
	if r.Width() != 1 {
		t.Errorf("Width() = %d, want 1", r.Width())
	}
	r.Push(5)
	if r.Last() != 5 {
		t.Errorf("Last() = %f, want 5", r.Last())
	}
}
