package termloom

import (
	"strconv"
	"strings"

	"github.com/rivo/uniseg"
)

// Cell holds at most one grapheme cluster. An empty Grapheme is a blank
// cell.
type Cell struct {
	Grapheme string
}

// Position is a zero-indexed cursor position, unlike the one-indexed
// coordinates of the wire protocol.
type Position struct {
	Row, Col int
}

// Grid is a ragged array of cells addressed through an active position
// (the cursor). Lines grow independently and only when the cursor
// advances onto a cell that does not exist yet; there is no fixed
// width or height. A Grid knows nothing about bytes or escape
// sequences; it is driven entirely by parsed nodes and cursor-relative
// operations.
type Grid struct {
	lines    [][]Cell
	pos      Position
	frontend Frontend
}

// NewGrid returns a grid with a single blank cell and the cursor on it.
func NewGrid() *Grid {
	return NewGridWithFrontend(EmptyFrontend{})
}

// NewGridWithFrontend is NewGrid with change notifications going to f.
func NewGridWithFrontend(f Frontend) *Grid {
	return &Grid{
		lines:    [][]Cell{{{}}},
		frontend: f,
	}
}

// SetFrontend replaces the notification target.
func (g *Grid) SetFrontend(f Frontend) {
	g.frontend = f
}

// Position returns the active position.
func (g *Grid) Position() Position {
	return g.pos
}

// Lines returns the number of lines in the grid.
func (g *Grid) Lines() int {
	return len(g.lines)
}

func (g *Grid) activeLine() []Cell {
	return g.lines[g.pos.Row]
}

func (g *Grid) activeCell() Cell {
	line := g.activeLine()
	if g.pos.Col >= len(line) {
		return Cell{}
	}
	return line[g.pos.Col]
}

// ensureCell grows the active line until the active column exists.
func (g *Grid) ensureCell() {
	line := g.activeLine()
	for len(line) <= g.pos.Col {
		line = append(line, Cell{})
	}
	g.lines[g.pos.Row] = line
}

func (g *Grid) setActiveGrapheme(grapheme string) {
	g.ensureCell()
	g.lines[g.pos.Row][g.pos.Col] = Cell{Grapheme: grapheme}
	g.frontend.LineChanged(g.pos.Row)
}

// AdvanceColumn moves the cursor right by one cell, appending a blank
// cell when the line ends there. There is no right-hand bound.
func (g *Grid) AdvanceColumn() {
	g.pos.Col++
	g.ensureCell()
	g.frontend.CursorMoved(g.pos.Row, g.pos.Col)
}

// RetreatColumn moves the cursor left by one cell, clamped at column 0.
// It never wraps to the previous line.
func (g *Grid) RetreatColumn() {
	if g.pos.Col == 0 {
		return
	}
	g.pos.Col--
	g.frontend.CursorMoved(g.pos.Row, g.pos.Col)
}

// AdvanceRow moves the cursor to column 0 of the next row, appending a
// fresh line when the grid ends there.
func (g *Grid) AdvanceRow() {
	g.pos.Row++
	g.pos.Col = 0
	if g.pos.Row == len(g.lines) {
		g.lines = append(g.lines, []Cell{{}})
	}
	g.frontend.CursorMoved(g.pos.Row, g.pos.Col)
}

// RetreatRow moves the cursor to column 0 of the previous row, clamped
// at row 0.
func (g *Grid) RetreatRow() {
	g.pos.Col = 0
	if g.pos.Row > 0 {
		g.pos.Row--
	}
	g.frontend.CursorMoved(g.pos.Row, g.pos.Col)
}

// HomeColumn moves the cursor to column 0 of the current row.
func (g *Grid) HomeColumn() {
	g.pos.Col = 0
	g.frontend.CursorMoved(g.pos.Row, g.pos.Col)
}

// EraseInLine applies EL to the active line. param carries the raw
// parameter bytes: "" or "0" truncates after the cursor inclusive, "1"
// blanks the whole line without resizing it, "2" clears the line to
// length zero. Anything else is reported and leaves the line alone.
func (g *Grid) EraseInLine(param string) {
	line := g.activeLine()
	switch param {
	case "", "0":
		if n := g.pos.Col + 1; n < len(line) {
			g.lines[g.pos.Row] = line[:n]
		}
	case "1":
		for i := range line {
			line[i] = Cell{}
		}
	case "2":
		g.lines[g.pos.Row] = line[:0]
	default:
		debugPrintf(debugErrors, "unexpected EL parameter %q\n", param)
		return
	}
	g.frontend.LineChanged(g.pos.Row)
}

// DeleteCharacters removes count cells starting one past the cursor,
// shifting the rest of the line left. The count is clamped to the
// cells that actually remain. An unparsable count is a no-op.
func (g *Grid) DeleteCharacters(count string) {
	n, err := strconv.Atoi(count)
	if err != nil || n < 0 {
		debugPrintf(debugErrors, "unable to parse DCH count %q\n", count)
		return
	}
	line := g.activeLine()
	i := g.pos.Col + 1
	if i >= len(line) || n == 0 {
		return
	}
	j := i + n
	if j > len(line) {
		j = len(line)
	}
	g.lines[g.pos.Row] = append(line[:i], line[j:]...)
	g.frontend.LineChanged(g.pos.Row)
}

// WriteText segments text into grapheme clusters and writes them from
// the cursor onward. The first cluster is merged with whatever partial
// grapheme the active cell already holds, so a base character and its
// combining marks still land in one cell when they arrive in separate
// text runs. Each following cluster occupies a freshly advanced cell.
func (g *Grid) WriteText(text string) {
	debugPrintf(debugText, "txt: %#v\n", text)
	combined := g.activeCell().Grapheme + text
	graphemes := uniseg.NewGraphemes(combined)
	if graphemes.Next() {
		g.setActiveGrapheme(graphemes.Str())
	}
	for graphemes.Next() {
		g.AdvanceColumn()
		g.setActiveGrapheme(graphemes.Str())
	}
}

const cursorMarker = '_'

// Render returns the last maxLines lines (all of them when fewer
// exist) as display text: one grapheme or space per cell, trailing
// blanks trimmed, lines joined with newlines.
func (g *Grid) Render(maxLines int) string {
	return g.render(maxLines, false)
}

// RenderCursor is Render with a marker after the active cell on the
// active row.
func (g *Grid) RenderCursor(maxLines int) string {
	return g.render(maxLines, true)
}

func (g *Grid) render(maxLines int, marker bool) string {
	start := 0
	if maxLines >= 0 && len(g.lines) > maxLines {
		start = len(g.lines) - maxLines
	}
	var sb strings.Builder
	for row := start; row < len(g.lines); row++ {
		if row > start {
			sb.WriteByte('\n')
		}
		var line strings.Builder
		for col, cell := range g.lines[row] {
			if cell.Grapheme != "" {
				line.WriteString(cell.Grapheme)
			} else {
				line.WriteByte(' ')
			}
			if marker && row == g.pos.Row && col == g.pos.Col {
				line.WriteRune(cursorMarker)
			}
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
	}
	return sb.String()
}

// Apply mutates the grid according to node. The supported command set
// is deliberately small; every valid but unsupported node is reported
// and dropped, never treated as an error, since real shells emit far
// more of the protocol than this grid models.
func (g *Grid) Apply(node Node) {
	debugPrintf(debugNodes, "node: %v\n", node)
	switch n := node.(type) {
	case TextNode:
		g.WriteText(n.Text)

	case C0ControlNode:
		switch n.Code {
		case 0x07: // BEL
			g.frontend.Bell()
		case 0x08: // BS
			g.RetreatColumn()
		case 0x0A: // LF
			g.AdvanceRow()
		case 0x0D: // CR
			g.HomeColumn()
		default:
			g.ignore(node)
		}

	case C1ControlNode:
		switch n.Code {
		case 0x45: // NEL
			g.HomeColumn()
		case 0x4D: // RI
			g.RetreatRow()
		default:
			g.ignore(node)
		}

	case ControlSequenceNode:
		switch {
		case n.FinalByte == 'C' && n.ParameterBytes == "" && n.IntermediateBytes == "": // CUF
			g.AdvanceColumn()
		case n.FinalByte == 'K': // EL
			g.EraseInLine(n.ParameterBytes)
		case n.FinalByte == 'P' && n.ParameterBytes != "" && n.IntermediateBytes == "": // DCH
			g.DeleteCharacters(n.ParameterBytes)
		default:
			g.ignore(node)
		}

	default:
		g.ignore(node)
	}
}

func (g *Grid) ignore(node Node) {
	debugPrintf(debugIgnored, "ignoring node %v\n", node)
}
