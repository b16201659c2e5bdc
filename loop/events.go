// Package loop orchestrates the dashboard: on every tick or button
// press it samples metrics, updates the rolling series, renders the
// active page, and pushes the frame to the display sink.
package loop

// EventKind tags an inbound loop event.
type EventKind int

const (
	// Tick requests a periodic refresh of the current page.
	Tick EventKind = iota
	// Next requests a switch to the following page.
	Next
	// Prev requests a switch to the preceding page.
	Prev
)

// Event is one inbound trigger. Button events arrive already
// debounced; each Event causes exactly one render pass.
type Event struct {
	Kind EventKind
}

// String returns the event kind name, for logs.
func (e Event) String() string {
	switch e.Kind {
	case Tick:
		return "tick"
	case Next:
		return "next"
	case Prev:
		return "prev"
	}
	return "unknown"
}
