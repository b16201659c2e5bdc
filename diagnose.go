package main

import (
	"context"
	"fmt"
	"time"

	"gitlab.com/tinyland/lab/hatstats/config"
	"gitlab.com/tinyland/lab/hatstats/internal/format"
	"gitlab.com/tinyland/lab/hatstats/metrics"
)

// runDiagnostics takes one reading of every metric the dashboard
// displays and prints the results. Useful for checking a fresh install
// without the HAT attached.
func runDiagnostics(cfg *config.Config, source metrics.Source) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fmt.Println("hatstats diagnostics")
	fmt.Println("====================")

	if addr, ok := source.LocalAddr(ctx); ok {
		fmt.Printf("  ip address      %s\n", addr)
	} else {
		fmt.Println("  ip address      unavailable (no route?)")
	}

	state := "not running"
	if source.ServiceActive(ctx, cfg.Service.Name) {
		state = "active"
	}
	fmt.Printf("  %-15s %s\n", cfg.Service.Name, state)

	if d, ok := source.DiskUsage(ctx, cfg.Storage.Root); ok {
		fmt.Printf("  root disk       %.0f%% (%.1f/%.1f GB)\n",
			d.Percent, format.Gigabytes(d.Used), format.Gigabytes(d.Total))
	} else {
		fmt.Println("  root disk       unavailable")
	}

	if d, ok := source.DiskUsage(ctx, cfg.Storage.Mount); ok {
		fmt.Printf("  %-15s %.0f%% (%.1f/%.1f GB)\n",
			cfg.Storage.MountLabel, d.Percent, format.Gigabytes(d.Used), format.Gigabytes(d.Total))
	} else {
		fmt.Printf("  %-15s not mounted at %s\n", cfg.Storage.MountLabel, cfg.Storage.Mount)
	}

	if m, ok := source.MemoryUsage(ctx); ok {
		fmt.Printf("  memory          %.0f%% (%.1f/%.1f GB)\n",
			m.Percent, format.Gigabytes(m.Used), format.Gigabytes(m.Total))
	} else {
		fmt.Println("  memory          unavailable")
	}

	if p, ok := source.CPUPercent(ctx); ok {
		fmt.Printf("  cpu load        %.1f%%\n", p)
	} else {
		fmt.Println("  cpu load        unavailable")
	}

	if t, ok := source.CPUTemperature(ctx); ok {
		fmt.Printf("  cpu temp        %.1fC\n", t)
	} else {
		fmt.Println("  cpu temp        unavailable")
	}

	if n, ok := source.NetCounters(ctx); ok {
		fmt.Printf("  net counters    sent=%d recv=%d bytes\n", n.BytesSent, n.BytesRecv)
	} else {
		fmt.Println("  net counters    unavailable")
	}
}
