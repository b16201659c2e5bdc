package preview

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/hatstats/frame"
	"gitlab.com/tinyland/lab/hatstats/loop"
)

// TestRenderHalfBlocks verifies the four pixel-pair states map to the
// expected runes.
func TestRenderHalfBlocks(t *testing.T) {
	b := frame.New()
	b.SetPixel(0, 0, true) // top only
	b.SetPixel(1, 1, true) // bottom only
	b.SetPixel(2, 0, true) // both
	b.SetPixel(2, 1, true)

	out := renderHalfBlocks(b)
	first := []rune(strings.SplitN(out, "\n", 2)[0])

	if first[0] != '▀' {
		t.Errorf("top-only pixel = %q, want ▀", first[0])
	}
	if first[1] != '▄' {
		t.Errorf("bottom-only pixel = %q, want ▄", first[1])
	}
	if first[2] != '█' {
		t.Errorf("both pixels = %q, want █", first[2])
	}
	if first[3] != ' ' {
		t.Errorf("empty pixels = %q, want space", first[3])
	}
}

// TestRenderHalfBlocksDimensions verifies one text row covers two
// pixel rows across the full width.
func TestRenderHalfBlocksDimensions(t *testing.T) {
	out := renderHalfBlocks(frame.New())
	lines := strings.Split(out, "\n")

	if len(lines) != frame.Height/2 {
		t.Fatalf("rows = %d, want %d", len(lines), frame.Height/2)
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != frame.Width {
			t.Errorf("row %d width = %d, want %d", i, n, frame.Width)
		}
	}
}

// TestModelKeysEmitEvents verifies arrow keys translate into page
// events on the loop channel.
func TestModelKeysEmitEvents(t *testing.T) {
	events := make(chan loop.Event, 2)
	m := NewModel(events)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyRight})

	want := []loop.EventKind{loop.Prev, loop.Next}
	for i, kind := range want {
		select {
		case ev := <-events:
			if ev.Kind != kind {
				t.Errorf("event %d = %v, want %v", i, ev.Kind, kind)
			}
		default:
			t.Fatalf("event %d not emitted", i)
		}
	}
}

// TestModelQuitKey verifies q produces a quit command.
func TestModelQuitKey(t *testing.T) {
	m := NewModel(make(chan loop.Event, 1))

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("quit key produced no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit key command is not tea.Quit")
	}
}

// TestModelFrameMsgReplacesFrame verifies a delivered frame shows up
// in the view.
func TestModelFrameMsgReplacesFrame(t *testing.T) {
	m := NewModel(make(chan loop.Event, 1))

	lit := frame.New()
	for x := 0; x < frame.Width; x++ {
		lit.SetPixel(x, 0, true)
	}

	updated, _ := m.Update(FrameMsg{Frame: lit})
	view := updated.(Model).View()

	if !strings.Contains(view, "▀") {
		t.Error("view does not contain the lit top row")
	}
}

// TestModelFullEventChannelDropsPress verifies a saturated channel
// drops the press instead of blocking the UI.
func TestModelFullEventChannelDropsPress(t *testing.T) {
	events := make(chan loop.Event) // unbuffered, nobody reading
	m := NewModel(events)

	done := make(chan struct{})
	go func() {
		m.Update(tea.KeyMsg{Type: tea.KeyRight})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Update blocked on a full event channel")
	}
}
