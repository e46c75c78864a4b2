package termloom

// Translator drives the decode → parse → apply pipeline. Each Write
// call decodes the chunk, appends the text to the pending buffer,
// drains every node the parser can classify into the grid, and keeps
// the unconsumed remainder (a sequence still missing its final
// characters) for the next call. Nothing here blocks on more input:
// waiting is always expressed as retained state.
//
// A Translator is not safe for concurrent use; the caller serializes
// Write against any grid reads.
type Translator struct {
	dec     ByteDecoder
	pending []rune
	grid    *Grid
}

// NewTranslator returns a translator applying nodes to grid.
func NewTranslator(grid *Grid) *Translator {
	return &Translator{grid: grid}
}

// Grid returns the grid the translator mutates.
func (t *Translator) Grid() *Grid {
	return t.grid
}

// Write consumes one chunk of raw bytes. It always succeeds: malformed
// bytes degrade to replacement characters and unsupported control
// functions are dropped by the grid.
func (t *Translator) Write(p []byte) (int, error) {
	if text := t.dec.Feed(p); len(text) > 0 {
		t.pending = append(t.pending, []rune(text)...)
	}

	// Each matched node advances the cursor by at least one character,
	// so this loop terminates within the length of the pending buffer.
	cur := NewCursor(t.pending)
	for {
		node, rest, ok := Parse(cur)
		if !ok {
			break
		}
		cur = rest
		t.grid.Apply(node)
	}
	t.pending = append(t.pending[:0], cur.Rest()...)
	return len(p), nil
}
