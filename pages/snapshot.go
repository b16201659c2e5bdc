package pages

import (
	"time"

	"gitlab.com/tinyland/lab/hatstats/metrics"
)

// Snapshot is one tick's worth of readings, gathered by the display
// loop and consumed by the page renderers. Availability flags carry
// the unavailable arm of each fallible reading through to rendering;
// renderers substitute sentinels and never consult the source directly.
type Snapshot struct {
	// Now is the wall-clock instant of the tick.
	Now time.Time

	// Addr is the primary local IP address; AddrOK is false when the
	// host has no network.
	Addr   string
	AddrOK bool

	// ServiceActive reports liveness of the watched background service.
	ServiceActive bool

	// Root is root-filesystem utilization; RootOK is false when it
	// could not be read.
	Root   metrics.DiskStat
	RootOK bool

	// Mount is utilization of the secondary mount; MountOK is false
	// when that path is not a mounted filesystem.
	Mount   metrics.DiskStat
	MountOK bool

	// Mem is physical memory utilization.
	Mem   metrics.MemStat
	MemOK bool

	// CPUPercent is the instantaneous CPU load, 0-100.
	CPUPercent float64

	// CPUTemp is the CPU temperature in Celsius; CPUTempOK is false
	// when the sensor is unreadable and the reading is omitted.
	CPUTemp   float64
	CPUTempOK bool

	// NetKBps is the instantaneous combined network rate in KB/s.
	NetKBps float64

	// CPUHistory and NetHistory are full-width rolling sample windows,
	// oldest first, already scaled to 0-100.
	CPUHistory []float64
	NetHistory []float64
}
