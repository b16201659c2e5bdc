// Package series provides the stateful numeric plumbing behind the
// dashboard graphs: a fixed-width rolling sample buffer and a rate
// estimator that turns cumulative byte counters into instantaneous
// transfer rates.
package series

// Rolling is a fixed-capacity FIFO of float64 samples. It always holds
// exactly width values, oldest first; pushing a new sample evicts the
// oldest. A fresh buffer is pre-filled with zeros so renderers can
// assume a full-width, age-ordered window regardless of uptime.
//
// Rolling does no input validation. Callers clamp or reject NaN,
// infinite, and out-of-range values before pushing.
type Rolling struct {
	samples []float64
}

// NewRolling creates a Rolling buffer holding width zero samples.
// A non-positive width is treated as 1.
func NewRolling(width int) *Rolling {
	if width < 1 {
		width = 1
	}
	return &Rolling{samples: make([]float64, width)}
}

// Push appends a sample and evicts the oldest, keeping length constant.
func (r *Rolling) Push(v float64) {
	copy(r.samples, r.samples[1:])
	r.samples[len(r.samples)-1] = v
}

// Values returns a copy of the buffer, oldest to newest.
// The returned slice always has length Width.
func (r *Rolling) Values() []float64 {
	out := make([]float64, len(r.samples))
	copy(out, r.samples)
	return out
}

// Width returns the fixed capacity of the buffer.
func (r *Rolling) Width() int {
	return len(r.samples)
}

// Last returns the most recently pushed sample.
func (r *Rolling) Last() float64 {
	return r.samples[len(r.samples)-1]
}
