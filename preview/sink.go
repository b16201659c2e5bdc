package preview

import (
	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hatstats/display"
	"gitlab.com/tinyland/lab/hatstats/frame"
)

// Sink adapts a running preview program to the display.Sink contract
// by forwarding frames as bubbletea messages.
type Sink struct {
	p *tea.Program
}

// Compile-time interface compliance check.
var _ display.Sink = (*Sink)(nil)

// NewSink wraps a preview program.
func NewSink(p *tea.Program) *Sink {
	return &Sink{p: p}
}

// Show implements display.Sink.
func (s *Sink) Show(b *frame.Bitmap) error {
	s.p.Send(FrameMsg{Frame: b})
	return nil
}

// Clear implements display.Sink.
func (s *Sink) Clear() error {
	s.p.Send(FrameMsg{Frame: frame.New()})
	return nil
}
