package termloom

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Config controls the child process and the read loop.
type Config struct {
	// Shell is the program started behind the pty.
	Shell string
	// ShellArgs are passed to the shell verbatim.
	ShellArgs []string
	// ReadBufSize is the maximum chunk read from the pty per
	// Translator.Write call.
	ReadBufSize int
	// RenderLines is how many trailing grid lines front-ends show.
	RenderLines int
	// Term is the TERM value forced into the child's environment.
	Term string
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Shell:       "/usr/bin/bash",
		ShellArgs:   []string{"-i"},
		ReadBufSize: 1024,
		RenderLines: 24,
		Term:        "xterm-256color",
	}
}

// LoadConfig reads a JSON config file, filling in defaults for any
// field the file leaves out. A missing or unreadable file returns the
// defaults along with the error, so callers may run on defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if !gjson.ValidBytes(data) {
		return cfg, fmt.Errorf("config %s: not valid JSON", path)
	}
	if v := gjson.GetBytes(data, "shell"); v.Exists() {
		cfg.Shell = v.String()
	}
	if v := gjson.GetBytes(data, "shell_args"); v.Exists() {
		cfg.ShellArgs = nil
		for _, arg := range v.Array() {
			cfg.ShellArgs = append(cfg.ShellArgs, arg.String())
		}
	}
	if v := gjson.GetBytes(data, "read_buf_size"); v.Exists() && v.Int() > 0 {
		cfg.ReadBufSize = int(v.Int())
	}
	if v := gjson.GetBytes(data, "render_lines"); v.Exists() && v.Int() > 0 {
		cfg.RenderLines = int(v.Int())
	}
	if v := gjson.GetBytes(data, "term"); v.Exists() {
		cfg.Term = v.String()
	}
	return cfg, nil
}
