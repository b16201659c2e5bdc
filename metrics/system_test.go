package metrics

import (
	"context"
	"errors"
	stdnet "net"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

func newTestSource() *SystemSource {
	return NewSystemSource(0, nil)
}

// TestDiskUsage verifies the mounted/unmounted arms of DiskUsage.
func TestDiskUsage(t *testing.T) {
	tests := []struct {
		name     string
		usage    *disk.UsageStat
		err      error
		wantOK   bool
		wantPct  float64
		wantUsed uint64
	}{
		{
			name:     "mounted filesystem",
			usage:    &disk.UsageStat{UsedPercent: 45.2, Used: 12 << 30, Total: 29 << 30},
			wantOK:   true,
			wantPct:  45.2,
			wantUsed: 12 << 30,
		},
		{
			name:   "unmounted path",
			err:    errors.New("no such file or directory"),
			wantOK: false,
		},
		{
			name:   "zero-size filesystem",
			usage:  &disk.UsageStat{},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource()
			s.diskUsage = func(ctx context.Context, path string) (*disk.UsageStat, error) {
				return tt.usage, tt.err
			}

			got, ok := s.DiskUsage(context.Background(), "/mnt/storage")
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if got.Percent != tt.wantPct {
				t.Errorf("percent = %f, want %f", got.Percent, tt.wantPct)
			}
			if got.Used != tt.wantUsed {
				t.Errorf("used = %d, want %d", got.Used, tt.wantUsed)
			}
		})
	}
}

// TestMemoryUsage verifies memory readings and the unavailable arm.
func TestMemoryUsage(t *testing.T) {
	s := newTestSource()
	s.virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return &mem.VirtualMemoryStat{UsedPercent: 61.5, Used: 5 << 30, Total: 8 << 30}, nil
	}

	got, ok := s.MemoryUsage(context.Background())
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if got.Percent != 61.5 || got.Total != 8<<30 {
		t.Errorf("got %+v", got)
	}

	s.virtualMemory = func(ctx context.Context) (*mem.VirtualMemoryStat, error) {
		return nil, errors.New("procfs gone")
	}
	if _, ok := s.MemoryUsage(context.Background()); ok {
		t.Error("ok = true for failing reader, want false")
	}
}

// TestCPUPercentClamps verifies readings are clamped to 0-100 and that
// errors report unavailable.
func TestCPUPercentClamps(t *testing.T) {
	tests := []struct {
		name   string
		pcts   []float64
		err    error
		want   float64
		wantOK bool
	}{
		{name: "normal", pcts: []float64{42.5}, want: 42.5, wantOK: true},
		{name: "above hundred", pcts: []float64{104.2}, want: 100, wantOK: true},
		{name: "negative", pcts: []float64{-3}, want: 0, wantOK: true},
		{name: "error", err: errors.New("nope"), wantOK: false},
		{name: "empty", pcts: []float64{}, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource()
			s.cpuPercent = func(ctx context.Context, interval time.Duration, percpu bool) ([]float64, error) {
				return tt.pcts, tt.err
			}

			got, ok := s.CPUPercent(context.Background())
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("pct = %f, want %f", got, tt.want)
			}
		})
	}
}

// TestCPUTemperature verifies the sensor preference order and the
// sysfs fallback.
func TestCPUTemperature(t *testing.T) {
	t.Run("named sensor", func(t *testing.T) {
		s := newTestSource()
		s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) {
			return []host.TemperatureStat{
				{SensorKey: "nvme_composite", Temperature: 38},
				{SensorKey: "cpu_thermal", Temperature: 52.1},
			}, nil
		}

		got, ok := s.CPUTemperature(context.Background())
		if !ok || got != 52.1 {
			t.Errorf("temp = %f ok=%v, want 52.1 true", got, ok)
		}
	})

	t.Run("sysfs fallback", func(t *testing.T) {
		s := newTestSource()
		s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) {
			return nil, errors.New("no sensors")
		}
		s.readFile = func(path string) ([]byte, error) {
			return []byte("48230\n"), nil
		}

		got, ok := s.CPUTemperature(context.Background())
		if !ok || got != 48.23 {
			t.Errorf("temp = %f ok=%v, want 48.23 true", got, ok)
		}
	})

	t.Run("unavailable", func(t *testing.T) {
		s := newTestSource()
		s.sensors = func(ctx context.Context) ([]host.TemperatureStat, error) {
			return nil, errors.New("no sensors")
		}
		s.readFile = func(path string) ([]byte, error) {
			return nil, errors.New("no thermal zone")
		}

		if _, ok := s.CPUTemperature(context.Background()); ok {
			t.Error("ok = true with no sensor and no sysfs, want false")
		}
	})
}

// TestNetCounters verifies aggregated counters and the unavailable arm.
func TestNetCounters(t *testing.T) {
	s := newTestSource()
	s.ioCounters = func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error) {
		if pernic {
			t.Error("pernic = true, want aggregated counters")
		}
		return []gnet.IOCountersStat{{BytesSent: 1000, BytesRecv: 2000}}, nil
	}

	got, ok := s.NetCounters(context.Background())
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if got.BytesSent != 1000 || got.BytesRecv != 2000 {
		t.Errorf("got %+v", got)
	}

	s.ioCounters = func(ctx context.Context, pernic bool) ([]gnet.IOCountersStat, error) {
		return nil, errors.New("netlink down")
	}
	if _, ok := s.NetCounters(context.Background()); ok {
		t.Error("ok = true for failing reader, want false")
	}
}

// TestServiceActive verifies the systemctl probe and the pgrep fallback.
func TestServiceActive(t *testing.T) {
	tests := []struct {
		name       string
		systemctl  string
		sysErr     error
		pgrep      string
		pgrepErr   error
		wantActive bool
	}{
		{name: "systemd active", systemctl: "active", wantActive: true},
		{name: "systemd inactive, pgrep match", systemctl: "inactive", pgrep: "1234", wantActive: true},
		{name: "both negative", systemctl: "inactive", pgrepErr: errors.New("exit 1"), wantActive: false},
		{name: "systemctl missing, pgrep match", sysErr: errors.New("not found"), pgrep: "99", wantActive: true},
		{name: "pgrep empty output", systemctl: "failed", pgrep: "", wantActive: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSource()
			s.runCommand = func(ctx context.Context, name string, args ...string) (string, error) {
				switch name {
				case "systemctl":
					return tt.systemctl, tt.sysErr
				case "pgrep":
					return tt.pgrep, tt.pgrepErr
				}
				t.Fatalf("unexpected command %q", name)
				return "", nil
			}

			if got := s.ServiceActive(context.Background(), "copyparty"); got != tt.wantActive {
				t.Errorf("active = %v, want %v", got, tt.wantActive)
			}
		})
	}
}

// TestLocalAddr verifies the dial probe arms.
func TestLocalAddr(t *testing.T) {
	t.Run("routable", func(t *testing.T) {
		s := newTestSource()
		s.dial = func(network, addr string) (stdnet.Conn, error) {
			local := &stdnet.UDPAddr{IP: stdnet.IPv4(192, 168, 1, 20), Port: 40000}
			return fakeConn{local: local}, nil
		}

		got, ok := s.LocalAddr(context.Background())
		if !ok || got != "192.168.1.20" {
			t.Errorf("addr = %q ok=%v, want 192.168.1.20 true", got, ok)
		}
	})

	t.Run("no route", func(t *testing.T) {
		s := newTestSource()
		s.dial = func(network, addr string) (stdnet.Conn, error) {
			return nil, errors.New("network is unreachable")
		}

		if _, ok := s.LocalAddr(context.Background()); ok {
			t.Error("ok = true with no route, want false")
		}
	})
}

// fakeConn is a stdnet.Conn stub exposing only a local address.
type fakeConn struct {
	stdnet.Conn
	local stdnet.Addr
}

func (f fakeConn) LocalAddr() stdnet.Addr { return f.local }
func (f fakeConn) Close() error           { return nil }
