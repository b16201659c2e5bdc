// Package preview renders the dashboard in a terminal for development
// on machines without the HAT attached. The frame is drawn with
// unicode half-blocks (two pixel rows per text row) and the arrow keys
// stand in for the hardware buttons.
package preview

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"

	"gitlab.com/tinyland/lab/hatstats/frame"
	"gitlab.com/tinyland/lab/hatstats/loop"
)

// FrameMsg delivers a new frame to the preview UI.
type FrameMsg struct {
	Frame *frame.Bitmap
}

// keyMap defines the preview key bindings.
type keyMap struct {
	Prev key.Binding
	Next key.Binding
	Quit key.Binding
}

var keys = keyMap{
	Prev: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "previous page")),
	Next: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "next page")),
	Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

var (
	screenStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	hintStyle = lipgloss.NewStyle().Faint(true)
)

// Model is the bubbletea model for the preview window.
type Model struct {
	events  chan<- loop.Event
	current *frame.Bitmap
}

// NewModel creates a preview model that feeds button events into the
// display loop.
func NewModel(events chan<- loop.Event) Model {
	return Model{events: events, current: frame.New()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case FrameMsg:
		if msg.Frame != nil {
			m.current = msg.Frame
		}
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Prev):
			m.send(loop.Event{Kind: loop.Prev})
		case key.Matches(msg, keys.Next):
			m.send(loop.Event{Kind: loop.Next})
		}
	}
	return m, nil
}

// send forwards a button event without blocking the UI; a full event
// channel drops the press, matching a bounced physical button.
func (m Model) send(ev loop.Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(screenStyle.Render(renderHalfBlocks(m.current)))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("←/→ switch page · q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderHalfBlocks maps two pixel rows onto one text row using the
// upper/lower half-block characters.
func renderHalfBlocks(b *frame.Bitmap) string {
	var sb strings.Builder
	for y := 0; y < frame.Height; y += 2 {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < frame.Width; x++ {
			top := b.On(x, y)
			bottom := b.On(x, y+1)
			switch {
			case top && bottom:
				sb.WriteRune('█')
			case top:
				sb.WriteRune('▀')
			case bottom:
				sb.WriteRune('▄')
			default:
				sb.WriteRune(' ')
			}
		}
	}
	return sb.String()
}

// TerminalFits reports whether the attached terminal is large enough
// for the preview (the frame plus its border and hint line), along
// with the detected size. Detection failures report fitting so the
// preview still runs under pipes and unusual terminals.
func TerminalFits() (bool, int, int) {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err != nil {
		return true, 0, 0
	}
	return w >= frame.Width+4 && h >= frame.Height/2+4, w, h
}
