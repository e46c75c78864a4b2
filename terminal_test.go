package termloom

import (
	"strings"
	"testing"
)

func TestTerminalReadLoopFeedsPipeline(t *testing.T) {
	term := NewWithConfig(nil, DefaultConfig()).(*terminal)
	term.readFrom(strings.NewReader("hello\r\nworld"))

	if got := term.Render(10); got != "hello\nworld" {
		t.Fatalf("Render = %q, want %q", got, "hello\nworld")
	}
	if pos := term.Position(); pos != (Position{Row: 1, Col: 4}) {
		t.Fatalf("Position = %+v, want row 1 col 4", pos)
	}
}

func TestTerminalReadLoopSmallChunks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ReadBufSize = 1 // force one-byte chunks through the pipeline
	term := NewWithConfig(nil, cfg).(*terminal)
	term.readFrom(strings.NewReader("mixé \x1b[1;31mУ\x1b[0m"))

	if got := term.Render(10); got != "mixé У" {
		t.Fatalf("Render = %q, want %q", got, "mixé У")
	}
}

func TestTerminalWriteBeforeStart(t *testing.T) {
	term := New(nil)
	if _, err := term.Write([]byte("x")); err == nil {
		t.Fatalf("expected an error writing before StartCommand")
	}
	if err := term.Resize(80, 24); err == nil {
		t.Fatalf("expected an error resizing before StartCommand")
	}
	if err := term.Wait(); err == nil {
		t.Fatalf("expected an error waiting before StartCommand")
	}
}

func TestTerminalRenderCursor(t *testing.T) {
	term := NewWithConfig(nil, DefaultConfig()).(*terminal)
	term.readFrom(strings.NewReader("ab"))
	if got := term.RenderCursor(10); got != "ab_" {
		t.Fatalf("RenderCursor = %q, want %q", got, "ab_")
	}
}
