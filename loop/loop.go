package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"gitlab.com/tinyland/lab/hatstats/display"
	"gitlab.com/tinyland/lab/hatstats/frame"
	"gitlab.com/tinyland/lab/hatstats/internal/format"
	"gitlab.com/tinyland/lab/hatstats/metrics"
	"gitlab.com/tinyland/lab/hatstats/pages"
	"gitlab.com/tinyland/lab/hatstats/series"
)

const (
	// defaultInterval is the periodic refresh cadence.
	defaultInterval = 2 * time.Second

	// defaultNetRefKBps is the network rate mapped to 100% graph height.
	defaultNetRefKBps = 1000

	// eventBufferSize bounds the inbound event channel. Button sources
	// are slow relative to render passes, so a small buffer suffices.
	eventBufferSize = 8
)

// Config wires a Loop. Source, Sink, and Renderer are required.
type Config struct {
	// Source supplies host readings.
	Source metrics.Source
	// Sink receives rendered frames.
	Sink display.Sink
	// Backlight is set at startup and extinguished at shutdown.
	// May be nil when the display has no controllable backlight.
	Backlight display.Backlight
	// Renderer draws page content.
	Renderer *pages.Renderer

	// Interval is the refresh period; defaults to 2s.
	Interval time.Duration
	// RootPath is the root filesystem mount point.
	RootPath string
	// MountPath is the secondary mount to report; may be unmounted.
	MountPath string
	// ServiceName is the background service whose liveness is shown.
	ServiceName string
	// NetRefKBps is the network rate treated as 100% on the net graph;
	// defaults to 1000 KB/s.
	NetRefKBps float64
	// BacklightRGB is the static backlight color applied at startup.
	BacklightRGB [3]uint8

	// Logger receives loop lifecycle and degradation logs; nil means no-op.
	Logger *slog.Logger
	// Now is the clock; nil means time.Now. Overridable for tests.
	Now func() time.Time
}

// Loop owns all mutable dashboard state: the page model, the rolling
// sample windows, and the network rate baseline. A single goroutine
// inside Run consumes ticks and button events, so sampling, series
// mutation, and rendering are strictly sequential; no frame can be
// built from half-updated state.
type Loop struct {
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	model   pages.Model
	cpuHist *series.Rolling
	netHist *series.Rolling
	rate    series.RateEstimator

	events chan Event
}

// New creates a Loop from cfg.
func New(cfg Config) (*Loop, error) {
	if cfg.Source == nil {
		return nil, errors.New("loop: Source is required")
	}
	if cfg.Sink == nil {
		return nil, errors.New("loop: Sink is required")
	}
	if cfg.Renderer == nil {
		return nil, errors.New("loop: Renderer is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.NetRefKBps <= 0 {
		cfg.NetRefKBps = defaultNetRefKBps
	}
	if cfg.RootPath == "" {
		cfg.RootPath = "/"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Loop{
		cfg:     cfg,
		logger:  logger,
		now:     now,
		cpuHist: series.NewRolling(frame.Width),
		netHist: series.NewRolling(frame.Width),
		events:  make(chan Event, eventBufferSize),
	}, nil
}

// Events returns the inbound event channel for button sources.
func (l *Loop) Events() chan<- Event {
	return l.events
}

// Run drives the dashboard until ctx is cancelled. The backlight is
// lit once on entry; on every exit path the display is blanked and the
// backlight extinguished. Returns ctx.Err on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	if l.cfg.Backlight != nil {
		rgb := l.cfg.BacklightRGB
		if err := l.cfg.Backlight.Set(rgb[0], rgb[1], rgb[2]); err != nil {
			l.logger.Warn("backlight set failed", "error", err)
		}
	}
	defer l.shutdown()

	ticker := time.NewTicker(l.cfg.Interval)
	defer ticker.Stop()

	l.logger.Info("display loop started",
		"interval", l.cfg.Interval.String(),
		"pages", pages.Count,
	)

	// First frame immediately rather than after the first tick.
	l.handle(ctx, Event{Kind: Tick})

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("display loop stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			l.handle(ctx, Event{Kind: Tick})
		case ev := <-l.events:
			l.handle(ctx, ev)
		}
	}
}

// shutdown blanks the display and extinguishes the backlight.
func (l *Loop) shutdown() {
	if err := l.cfg.Sink.Clear(); err != nil {
		l.logger.Error("display clear on shutdown failed", "error", err)
	}
	if l.cfg.Backlight != nil {
		if err := l.cfg.Backlight.Off(); err != nil {
			l.logger.Error("backlight off on shutdown failed", "error", err)
		}
	}
}

// handle applies one event and performs one render pass.
func (l *Loop) handle(ctx context.Context, ev Event) {
	switch ev.Kind {
	case Next:
		l.logger.Debug("page change", "event", ev.String(), "page", l.model.Next())
	case Prev:
		l.logger.Debug("page change", "event", ev.String(), "page", l.model.Prev())
	}

	snap := l.sample(ctx)

	b := frame.New()
	l.cfg.Renderer.Render(l.model.Current(), b, snap)

	if err := l.cfg.Sink.Show(b); err != nil {
		// Skip this frame; the next tick retries.
		l.logger.Error("frame dropped", "error", err)
	}
}

// sample gathers the readings for one pass. CPU load and network rate
// feed the rolling series on every pass regardless of the active page;
// the remaining metrics are only queried for the page that shows them.
func (l *Loop) sample(ctx context.Context) pages.Snapshot {
	src := l.cfg.Source
	now := l.now()

	snap := pages.Snapshot{Now: now}

	cpu, ok := src.CPUPercent(ctx)
	if !ok {
		cpu = 0
	}
	cpu = sanitize(cpu)
	snap.CPUPercent = cpu
	l.cpuHist.Push(format.Clamp(cpu, 0, 100))

	var kbps float64
	if counters, ok := src.NetCounters(ctx); ok {
		kbps = sanitize(format.KBps(l.rate.Rate(counters.BytesSent, counters.BytesRecv, now)))
	}
	snap.NetKBps = kbps
	l.netHist.Push(format.Clamp(kbps/l.cfg.NetRefKBps*100, 0, 100))

	switch l.model.Current() {
	case pages.StatusPage:
		snap.Addr, snap.AddrOK = src.LocalAddr(ctx)
		snap.ServiceActive = src.ServiceActive(ctx, l.cfg.ServiceName)
	case pages.CapacityPage:
		snap.Root, snap.RootOK = src.DiskUsage(ctx, l.cfg.RootPath)
		snap.Mount, snap.MountOK = src.DiskUsage(ctx, l.cfg.MountPath)
		snap.Mem, snap.MemOK = src.MemoryUsage(ctx)
	case pages.GraphsPage:
		snap.CPUTemp, snap.CPUTempOK = src.CPUTemperature(ctx)
	}

	snap.CPUHistory = l.cpuHist.Values()
	snap.NetHistory = l.netHist.Values()

	l.logger.Debug("sampled",
		"page", l.model.Current(),
		"cpu", fmt.Sprintf("%.1f%%", cpu),
		"net", fmt.Sprintf("%.1fKB/s", kbps),
	)

	return snap
}

// sanitize replaces NaN and infinite readings with 0 before they reach
// the series buffers, which do no validation of their own.
func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
