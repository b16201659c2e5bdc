package metrics

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	stdnet "net"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

const (
	// defaultTimeout bounds each metric query.
	defaultTimeout = 900 * time.Millisecond

	// serviceTimeout bounds the systemctl/pgrep liveness probes, which
	// fork a subprocess and can be slower than in-process reads.
	serviceTimeout = 2 * time.Second

	// probeAddr is dialed (UDP, no packets sent) to learn which local
	// address the default route would use.
	probeAddr = "8.8.8.8:80"

	// thermalZonePath is the sysfs fallback when no named CPU sensor
	// is exposed.
	thermalZonePath = "/sys/class/thermal/thermal_zone0/temp"
)

// SystemSource is the production Source backed by gopsutil, with a
// subprocess probe for service liveness and a UDP dial trick for the
// local address. All gopsutil calls and subprocesses are bounded by a
// per-query timeout derived from the caller's context.
type SystemSource struct {
	logger  *slog.Logger
	timeout time.Duration

	// Overridable collaborators for testing.
	diskUsage     func(ctx context.Context, path string) (*disk.UsageStat, error)
	virtualMemory func(ctx context.Context) (*mem.VirtualMemoryStat, error)
	cpuPercent    func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error)
	sensors       func(ctx context.Context) ([]host.TemperatureStat, error)
	ioCounters    func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error)
	dial          func(network, addr string) (stdnet.Conn, error)
	runCommand    func(ctx context.Context, name string, args ...string) (string, error)
	readFile      func(path string) ([]byte, error)
}

// NewSystemSource creates a SystemSource. If logger is nil, a no-op
// logger is used. A non-positive timeout falls back to the default.
func NewSystemSource(timeout time.Duration, logger *slog.Logger) *SystemSource {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &SystemSource{
		logger:        logger,
		timeout:       timeout,
		diskUsage:     disk.UsageWithContext,
		virtualMemory: mem.VirtualMemoryWithContext,
		cpuPercent:    cpu.PercentWithContext,
		sensors:       host.SensorsTemperaturesWithContext,
		ioCounters:    gnet.IOCountersWithContext,
		dial:          stdnet.Dial,
		runCommand:    runCommand,
		readFile:      os.ReadFile,
	}
}

// runCommand executes a subprocess and returns its trimmed stdout.
func runCommand(ctx context.Context, name string, args ...string) (string, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return strings.TrimSpace(out.String()), err
	}
	return strings.TrimSpace(out.String()), nil
}

// bounded derives a child context limited to the per-query timeout.
func (s *SystemSource) bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

// LocalAddr learns the primary local IP by dialing a UDP socket toward
// a public address. No packets are sent. Returns false when the host
// has no usable route.
func (s *SystemSource) LocalAddr(ctx context.Context) (string, bool) {
	conn, err := s.dial("udp", probeAddr)
	if err != nil {
		s.logger.Debug("local address probe failed", "error", err)
		return "", false
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*stdnet.UDPAddr)
	if !ok || addr.IP == nil {
		return "", false
	}
	return addr.IP.String(), true
}

// ServiceActive probes the named service with `systemctl is-active`,
// falling back to `pgrep -f` for services not managed by systemd.
// Probe failures report inactive rather than an error.
func (s *SystemSource) ServiceActive(ctx context.Context, name string) bool {
	ctx, cancel := s.bounded(ctx, serviceTimeout)
	defer cancel()

	out, err := s.runCommand(ctx, "systemctl", "is-active", name)
	if err == nil && out == "active" {
		return true
	}

	out, err = s.runCommand(ctx, "pgrep", "-f", name)
	if err != nil {
		return false
	}
	return out != ""
}

// DiskUsage returns utilization for the filesystem at path. An
// unmounted or unreadable path reports unavailable.
func (s *SystemSource) DiskUsage(ctx context.Context, path string) (DiskStat, bool) {
	ctx, cancel := s.bounded(ctx, s.timeout)
	defer cancel()

	usage, err := s.diskUsage(ctx, path)
	if err != nil {
		s.logger.Debug("disk usage unavailable", "path", path, "error", err)
		return DiskStat{}, false
	}
	if usage.Total == 0 {
		return DiskStat{}, false
	}

	return DiskStat{
		Percent: usage.UsedPercent,
		Used:    usage.Used,
		Total:   usage.Total,
	}, true
}

// MemoryUsage returns physical memory utilization.
func (s *SystemSource) MemoryUsage(ctx context.Context) (MemStat, bool) {
	ctx, cancel := s.bounded(ctx, s.timeout)
	defer cancel()

	vm, err := s.virtualMemory(ctx)
	if err != nil {
		s.logger.Debug("memory usage unavailable", "error", err)
		return MemStat{}, false
	}

	return MemStat{
		Percent: vm.UsedPercent,
		Used:    vm.Used,
		Total:   vm.Total,
	}, true
}

// CPUPercent returns total CPU utilization measured against the
// previous call (interval 0), clamped to 0-100. The very first call
// reports 0 while the counters seed.
func (s *SystemSource) CPUPercent(ctx context.Context) (float64, bool) {
	ctx, cancel := s.bounded(ctx, s.timeout)
	defer cancel()

	pcts, err := s.cpuPercent(ctx, 0, false)
	if err != nil || len(pcts) == 0 {
		s.logger.Debug("cpu percent unavailable", "error", err)
		return 0, false
	}

	pct := pcts[0]
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct, true
}

// CPUTemperature returns the CPU temperature, preferring a named CPU
// thermal sensor and falling back to the first sysfs thermal zone.
func (s *SystemSource) CPUTemperature(ctx context.Context) (float64, bool) {
	ctx, cancel := s.bounded(ctx, s.timeout)
	defer cancel()

	if temps, err := s.sensors(ctx); err == nil {
		for _, t := range temps {
			if !isCPUSensor(t.SensorKey) {
				continue
			}
			if t.Temperature > 0 {
				return t.Temperature, true
			}
		}
	}

	raw, err := s.readFile(thermalZonePath)
	if err != nil {
		s.logger.Debug("cpu temperature unavailable", "error", err)
		return 0, false
	}
	milli, err := strconv.ParseFloat(strings.TrimSpace(string(raw)), 64)
	if err != nil || milli <= 0 {
		return 0, false
	}
	return milli / 1000.0, true
}

// isCPUSensor reports whether a sensor key names the CPU package
// temperature on the platforms this runs on.
func isCPUSensor(key string) bool {
	switch {
	case strings.Contains(key, "cpu_thermal"),
		strings.Contains(key, "cpu-thermal"),
		strings.Contains(key, "coretemp"),
		strings.Contains(key, "k10temp"):
		return true
	}
	return false
}

// NetCounters returns cumulative byte counters summed across all
// interfaces.
func (s *SystemSource) NetCounters(ctx context.Context) (NetCounters, bool) {
	ctx, cancel := s.bounded(ctx, s.timeout)
	defer cancel()

	stats, err := s.ioCounters(ctx, false)
	if err != nil || len(stats) == 0 {
		s.logger.Debug("network counters unavailable", "error", err)
		return NetCounters{}, false
	}

	// pernic=false aggregates into a single entry.
	return NetCounters{
		BytesSent: stats[0].BytesSent,
		BytesRecv: stats[0].BytesRecv,
	}, true
}

// Compile-time interface compliance check.
var _ Source = (*SystemSource)(nil)
