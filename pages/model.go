// Package pages holds the page-selection state machine and the three
// page renderers that turn a metrics snapshot into a display frame.
package pages

// Count is the fixed number of dashboard pages.
const Count = 3

// Page identifiers, in display order.
const (
	StatusPage   = 0 // network identity, service liveness, clock
	CapacityPage = 1 // storage and memory utilization
	GraphsPage   = 2 // rolling CPU and network graphs
)

// Model is a finite state machine over the ordered, cyclic page set.
// The zero value starts on StatusPage.
type Model struct {
	current int
}

// Current returns the active page identifier.
func (m *Model) Current() int {
	return m.current
}

// Next advances to the following page, wrapping from the last page
// back to the first, and returns the new page.
func (m *Model) Next() int {
	m.current = (m.current + 1) % Count
	return m.current
}

// Prev moves to the preceding page, wrapping from the first page to
// the last, and returns the new page.
func (m *Model) Prev() int {
	m.current = (m.current + Count - 1) % Count
	return m.current
}
