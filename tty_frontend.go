package termloom

import (
	"io"
	"os"
	"sync"

	"github.com/xo/terminfo"
)

const (
	ansiClearHome  = "\x1b[2J\x1b[H"
	ansiCursorShow = "\x1b[?25h"
	ansiCursorHide = "\x1b[?25l"
)

// TTYFrontend displays terminal snapshots on a tty. Grid notifications
// only mark the view dirty; the owner of the event loop calls Repaint
// once the terminal lock is released. Screen clearing goes through the
// terminfo entry for $TERM when one loads, with plain ANSI as the
// fallback.
type TTYFrontend struct {
	mu    sync.Mutex
	out   io.Writer
	term  Terminal
	ti    *terminfo.Terminfo
	lines int

	changed chan struct{}
}

// NewTTYFrontend returns a frontend writing to out (defaults to
// stdout) and showing the last lines lines of the grid.
func NewTTYFrontend(out io.Writer, lines int) *TTYFrontend {
	if out == nil {
		out = os.Stdout
	}
	ti, err := terminfo.LoadFromEnv()
	if err != nil {
		debugPrintln(debugErrors, "terminfo unavailable, using ANSI fallback:", err)
		ti = nil
	}
	return &TTYFrontend{
		out:     out,
		ti:      ti,
		lines:   lines,
		changed: make(chan struct{}, 1),
	}
}

// SetTerminal attaches the terminal whose grid this frontend shows.
func (t *TTYFrontend) SetTerminal(term Terminal) {
	t.mu.Lock()
	t.term = term
	t.mu.Unlock()
}

// Changed signals at most once per pending repaint.
func (t *TTYFrontend) Changed() <-chan struct{} {
	return t.changed
}

func (t *TTYFrontend) signal() {
	select {
	case t.changed <- struct{}{}:
	default:
	}
}

func (t *TTYFrontend) Bell() {
	t.mu.Lock()
	out := t.out
	t.mu.Unlock()
	_, _ = out.Write([]byte{0x07})
}

func (t *TTYFrontend) LineChanged(row int)      { t.signal() }
func (t *TTYFrontend) CursorMoved(row, col int) { t.signal() }

// Repaint clears the screen and draws the current snapshot. Must not
// be called from a Frontend notification.
func (t *TTYFrontend) Repaint() {
	t.mu.Lock()
	term, out := t.term, t.out
	t.mu.Unlock()
	if term == nil {
		return
	}

	snapshot := term.RenderCursor(t.lines)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.hideCursor(out)
	t.clear(out)
	_, _ = io.WriteString(out, snapshot)
	t.showCursor(out)
}

func (t *TTYFrontend) clear(out io.Writer) {
	if t.ti != nil {
		t.ti.Fprintf(out, terminfo.ClearScreen)
		return
	}
	_, _ = io.WriteString(out, ansiClearHome)
}

func (t *TTYFrontend) hideCursor(out io.Writer) {
	if t.ti != nil {
		t.ti.Fprintf(out, terminfo.CursorInvisible)
		return
	}
	_, _ = io.WriteString(out, ansiCursorHide)
}

func (t *TTYFrontend) showCursor(out io.Writer) {
	if t.ti != nil {
		t.ti.Fprintf(out, terminfo.CursorNormal)
		return
	}
	_, _ = io.WriteString(out, ansiCursorShow)
}
