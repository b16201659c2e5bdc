package format

import "testing"

func TestGigabytes(t *testing.T) {
	if got := Gigabytes(29 << 30); got != 29 {
		t.Errorf("Gigabytes(29GiB) = %f, want 29", got)
	}
	if got := Gigabytes(0); got != 0 {
		t.Errorf("Gigabytes(0) = %f, want 0", got)
	}
}

func TestKBps(t *testing.T) {
	if got := KBps(2048); got != 2 {
		t.Errorf("KBps(2048) = %f, want 2", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name       string
		v, lo, hi  float64
		want       float64
	}{
		{name: "inside", v: 50, lo: 0, hi: 100, want: 50},
		{name: "below", v: -1, lo: 0, hi: 100, want: 0},
		{name: "above", v: 250, lo: 0, hi: 100, want: 100},
		{name: "at bound", v: 100, lo: 0, hi: 100, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Errorf("Clamp(%f) = %f, want %f", tt.v, got, tt.want)
			}
		})
	}
}
