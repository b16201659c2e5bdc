// Package metrics provides point-in-time host readings for the
// dashboard: network identity, service liveness, storage, memory, CPU
// load and temperature, and cumulative network byte counters.
//
// Every query degrades to an explicit unavailable result instead of
// failing; callers must handle both arms. All calls return within a
// short bounded timeout so a stalled source can never stall a render.
package metrics

import "context"

// DiskStat is a filesystem utilization reading.
type DiskStat struct {
	// Percent is the used fraction of the filesystem, 0-100.
	Percent float64
	// Used is the used size in bytes.
	Used uint64
	// Total is the filesystem size in bytes.
	Total uint64
}

// MemStat is a physical memory utilization reading.
type MemStat struct {
	// Percent is the used fraction of memory, 0-100.
	Percent float64
	// Used is the used size in bytes.
	Used uint64
	// Total is the installed size in bytes.
	Total uint64
}

// NetCounters holds cumulative interface byte counters since boot,
// summed across interfaces.
type NetCounters struct {
	BytesSent uint64
	BytesRecv uint64
}

// Source supplies point-in-time host readings. Implementations are
// read-only and side-effect-free. Queries that can fail report
// availability through their ok result.
type Source interface {
	// LocalAddr returns the host's primary local IP address.
	LocalAddr(ctx context.Context) (string, bool)

	// ServiceActive reports whether the named background service is running.
	ServiceActive(ctx context.Context, name string) bool

	// DiskUsage returns utilization for the filesystem mounted at path.
	DiskUsage(ctx context.Context, path string) (DiskStat, bool)

	// MemoryUsage returns physical memory utilization.
	MemoryUsage(ctx context.Context) (MemStat, bool)

	// CPUPercent returns total CPU utilization since the previous call, 0-100.
	CPUPercent(ctx context.Context) (float64, bool)

	// CPUTemperature returns the CPU temperature in degrees Celsius.
	CPUTemperature(ctx context.Context) (float64, bool)

	// NetCounters returns cumulative network byte counters.
	NetCounters(ctx context.Context) (NetCounters, bool)
}
