package termloom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"syscall"

	"github.com/creack/pty"
)

// Terminal owns one child process behind a pty and the pipeline that
// interprets its output. It is the serialization point the core
// pipeline requires: the read loop and all snapshots go through one
// lock.
type Terminal interface {
	SetFrontend(f Frontend)

	StartCommand(c *exec.Cmd) error
	Write(b []byte) (int, error)
	Render(maxLines int) string
	RenderCursor(maxLines int) string
	Position() Position
	Resize(w, h int) error
	Wait() error
	Close() error
}

type terminal struct {
	mu         sync.Mutex
	frontend   Frontend
	grid       *Grid
	translator *Translator

	pty, tty *os.File
	cmd      *exec.Cmd

	cfg Config
}

// New returns a terminal with default configuration.
func New(f Frontend) Terminal {
	return NewWithConfig(f, DefaultConfig())
}

// NewWithConfig returns a terminal notifying f of grid changes. The
// child process is not started until StartCommand.
func NewWithConfig(f Frontend, cfg Config) Terminal {
	if f == nil {
		f = EmptyFrontend{}
	}
	grid := NewGridWithFrontend(f)
	return &terminal{
		frontend:   f,
		grid:       grid,
		translator: NewTranslator(grid),
		cfg:        cfg,
	}
}

func (t *terminal) SetFrontend(f Frontend) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f == nil {
		f = EmptyFrontend{}
	}
	t.frontend = f
	t.grid.SetFrontend(f)
}

// StartCommand starts c behind a fresh pty with TERM forced to the
// configured value, then begins feeding its output through the
// pipeline.
func (t *terminal) StartCommand(c *exec.Cmd) error {
	if t.cmd != nil {
		return errors.New("termloom: command already started")
	}

	ptmx, tty, err := pty.Open()
	if err != nil {
		return fmt.Errorf("open pty: %w", err)
	}

	termStr := "TERM=" + t.cfg.Term
	if c.Env == nil {
		c.Env = os.Environ()
	}
	found := false
	for i, v := range c.Env {
		if strings.HasPrefix(v, "TERM=") {
			c.Env[i] = termStr
			found = true
			break
		}
	}
	if !found {
		c.Env = append(c.Env, termStr)
	}

	c.Stdin = tty
	c.Stdout = tty
	c.Stderr = tty
	if c.SysProcAttr == nil {
		c.SysProcAttr = &syscall.SysProcAttr{}
	}
	c.SysProcAttr.Setsid = true
	c.SysProcAttr.Setctty = true

	if err := c.Start(); err != nil {
		ptmx.Close()
		tty.Close()
		return fmt.Errorf("start %s: %w", c.Path, err)
	}

	t.pty, t.tty, t.cmd = ptmx, tty, c
	go t.readFrom(ptmx)
	return nil
}

// readFrom feeds chunks from r into the translator, one Write per
// chunk, until r is exhausted.
func (t *terminal) readFrom(r io.Reader) {
	buf := make([]byte, t.cfg.ReadBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			t.mu.Lock()
			_, _ = t.translator.Write(buf[:n])
			t.mu.Unlock()
		}
		if err != nil {
			if err != io.EOF {
				debugPrintln(debugErrors, "ERR pty read:", err)
			}
			return
		}
	}
}

// Write forwards keystroke bytes to the child unmodified.
func (t *terminal) Write(b []byte) (int, error) {
	if t.pty == nil {
		return 0, errors.New("termloom: pty not started")
	}
	return t.pty.Write(b)
}

func (t *terminal) Render(maxLines int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid.Render(maxLines)
}

func (t *terminal) RenderCursor(maxLines int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid.RenderCursor(maxLines)
}

func (t *terminal) Position() Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid.Position()
}

// Resize propagates a new window size to the pty so the child sees
// SIGWINCH. The grid itself is unbounded and needs no resizing.
func (t *terminal) Resize(w, h int) error {
	if t.pty == nil {
		return errors.New("termloom: pty not started")
	}
	return pty.Setsize(t.pty, &pty.Winsize{
		Rows: uint16(h),
		Cols: uint16(w),
	})
}

// Wait blocks until the child exits.
func (t *terminal) Wait() error {
	if t.cmd == nil {
		return errors.New("termloom: command not started")
	}
	return t.cmd.Wait()
}

func (t *terminal) Close() error {
	var first error
	if t.pty != nil {
		first = t.pty.Close()
	}
	if t.tty != nil {
		if err := t.tty.Close(); first == nil {
			first = err
		}
	}
	return first
}
