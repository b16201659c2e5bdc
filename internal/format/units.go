// Package format provides the small unit conversions shared by page
// renderers and diagnostics output.
package format

// bytesPerGB converts byte counts to binary gigabytes.
const bytesPerGB = 1 << 30

// bytesPerKB converts byte counts to binary kilobytes.
const bytesPerKB = 1 << 10

// Gigabytes converts a byte count to GB.
func Gigabytes(b uint64) float64 {
	return float64(b) / bytesPerGB
}

// KBps converts a bytes-per-second rate to KB/s.
func KBps(bytesPerSec float64) float64 {
	return bytesPerSec / bytesPerKB
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
