package pages

import (
	"fmt"

	"gitlab.com/tinyland/lab/hatstats/frame"
	"gitlab.com/tinyland/lab/hatstats/internal/format"
)

// Graph region geometry on the graphs page.
const (
	cpuGraphY      = 12
	cpuGraphHeight = 20
	netGraphY      = 46
	netGraphHeight = 18
)

// Text inset from the left display edge.
const textX = 2

// Renderer draws page content onto a frame. Fields are fixed at
// construction from configuration; rendering itself is a pure function
// of (page, snapshot).
type Renderer struct {
	// ServiceName labels the watched service on the status page.
	ServiceName string
	// ServicePort is shown next to the service label while it is running.
	ServicePort int
	// MountLabel names the secondary mount on the capacity page.
	MountLabel string
	// CPUCeiling is the value mapped to full CPU graph height.
	CPUCeiling float64
}

// Render draws the content of the given page onto a fresh bitmap.
func (r *Renderer) Render(page int, b *frame.Bitmap, snap Snapshot) {
	switch page {
	case StatusPage:
		r.renderStatus(b, snap)
	case CapacityPage:
		r.renderCapacity(b, snap)
	case GraphsPage:
		r.renderGraphs(b, snap)
	}
}

// renderStatus draws the identity page: IP address, service liveness,
// time and date.
func (r *Renderer) renderStatus(b *frame.Bitmap, snap Snapshot) {
	addr := "No network"
	if snap.AddrOK {
		addr = snap.Addr
	}
	frame.DrawText(b, textX, 2, "IP: "+addr)

	service := fmt.Sprintf("%s: Stopped", r.ServiceName)
	if snap.ServiceActive {
		service = fmt.Sprintf("%s: Port %d", r.ServiceName, r.ServicePort)
	}
	frame.DrawText(b, textX, 18, service)

	frame.DrawText(b, textX, 34, snap.Now.Format("15:04:05"))
	frame.DrawText(b, textX, 50, snap.Now.Format("2006-01-02"))
}

// renderCapacity draws the storage and memory page. An unavailable
// secondary mount renders an explicit N/A sentinel.
func (r *Renderer) renderCapacity(b *frame.Bitmap, snap Snapshot) {
	if snap.RootOK {
		frame.DrawText(b, textX, 2, fmt.Sprintf("SD: %.0f%% (%.1f/%.1fGB)",
			snap.Root.Percent, format.Gigabytes(snap.Root.Used), format.Gigabytes(snap.Root.Total)))
	}

	if snap.MountOK {
		frame.DrawText(b, textX, 18, fmt.Sprintf("%s: %.0f%%", r.MountLabel, snap.Mount.Percent))
		frame.DrawText(b, textX, 34, fmt.Sprintf("%.0f/%.0fGB",
			format.Gigabytes(snap.Mount.Used), format.Gigabytes(snap.Mount.Total)))
	} else {
		frame.DrawText(b, textX, 18, r.MountLabel+": N/A")
	}

	if snap.MemOK {
		frame.DrawText(b, textX, 50, fmt.Sprintf("RAM: %.0f%% (%.1f/%.1fGB)",
			snap.Mem.Percent, format.Gigabytes(snap.Mem.Used), format.Gigabytes(snap.Mem.Total)))
	}
}

// renderGraphs draws the rolling CPU and network graphs with their
// current-value labels. The temperature is omitted when unreadable.
func (r *Renderer) renderGraphs(b *frame.Bitmap, snap Snapshot) {
	cpuLabel := fmt.Sprintf("CPU %.0f%%", snap.CPUPercent)
	if snap.CPUTempOK {
		cpuLabel = fmt.Sprintf("CPU %.0f%% %.0fC", snap.CPUPercent, snap.CPUTemp)
	}
	frame.DrawText(b, textX, 0, cpuLabel)
	frame.DrawGraph(b, snap.CPUHistory, cpuGraphY, cpuGraphHeight, r.CPUCeiling)

	frame.DrawText(b, textX, 33, fmt.Sprintf("NET %.0fKB/s", snap.NetKBps))
	// Net history is pre-scaled to a 0-100 percentage of the reference rate.
	frame.DrawGraph(b, snap.NetHistory, netGraphY, netGraphHeight, 100)
}
