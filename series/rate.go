package series

import "time"

// counterSnapshot records the last observed cumulative counters and
// when they were observed. Zero value means no baseline exists yet.
type counterSnapshot struct {
	sent uint64
	recv uint64
	at   time.Time
}

// RateEstimator converts successive cumulative byte counters into an
// instantaneous combined (sent+received) rate in bytes per second.
//
// The first call only establishes a baseline and reports 0, so a
// freshly started process never shows a misleading since-boot spike.
// A counter decrease is treated as a source restart: the baseline is
// re-established and the call reports 0 rather than a negative rate.
// A non-positive elapsed time (clock adjustment) leaves the stored
// snapshot untouched and reports the previous rate.
type RateEstimator struct {
	prev    counterSnapshot
	hasPrev bool
	last    float64
}

// Rate updates the estimator with the current counters and returns the
// estimated rate in bytes per second.
func (e *RateEstimator) Rate(sent, recv uint64, now time.Time) float64 {
	cur := counterSnapshot{sent: sent, recv: recv, at: now}

	if !e.hasPrev {
		e.prev = cur
		e.hasPrev = true
		e.last = 0
		return 0
	}

	elapsed := now.Sub(e.prev.at).Seconds()
	if elapsed <= 0 {
		return e.last
	}

	if sent < e.prev.sent || recv < e.prev.recv {
		// Counter reset: re-baseline instead of reporting a negative rate.
		e.prev = cur
		e.last = 0
		return 0
	}

	delta := float64(sent-e.prev.sent) + float64(recv-e.prev.recv)
	e.prev = cur
	e.last = delta / elapsed
	return e.last
}
