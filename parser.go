package termloom

import "unicode"

// Cursor is a position in an immutable run of decoded text. Copies are
// cheap, so alternatives can be tried from the same position without
// touching the underlying buffer.
type Cursor struct {
	text []rune
	pos  int
}

// NewCursor returns a cursor at the start of text. The parser never
// mutates text; the caller must not either while cursors into it live.
func NewCursor(text []rune) Cursor {
	return Cursor{text: text}
}

// Rest returns the characters from the cursor to the end of the buffer.
func (c Cursor) Rest() []rune {
	return c.text[c.pos:]
}

// Len returns the number of characters remaining.
func (c Cursor) Len() int {
	return len(c.text) - c.pos
}

func (c Cursor) next() (rune, Cursor, bool) {
	if c.pos >= len(c.text) {
		return 0, c, false
	}
	return c.text[c.pos], Cursor{text: c.text, pos: c.pos + 1}, true
}

// parseStatus is the three-way result every sub-parser reports.
// needMore always wins over noMatch: running out of characters before a
// sub-parser can decide must suspend the whole parse, never let a later
// alternative guess on a truncated prefix.
type parseStatus int

const (
	matched parseStatus = iota
	noMatch
	needMore
)

// Parse classifies the next node starting at c. ok is false when the
// input ran out before a node could be classified; the caller retains
// the text and retries once more arrives. A successful parse returns
// the node and the cursor past it.
func Parse(c Cursor) (Node, Cursor, bool) {
	for _, parse := range nodeParsers {
		rest, node, status := parse(c)
		switch status {
		case matched:
			return node, rest, true
		case needMore:
			return nil, c, false
		}
	}
	// parseUnknown matches any character and reports needMore only on
	// empty input, so the loop above always returns.
	panic("termloom: node classification fell through")
}

// Alternation order matters: several kinds share the ESC prefix, so the
// longer-prefixed kinds are tried first.
var nodeParsers = []func(Cursor) (Cursor, Node, parseStatus){
	parseControlString,
	parseIndependentControlFunction,
	parseControlSequence,
	parseC1Control,
	parseC0Control,
	parseText,
	parseUnknown,
}

// skipDelimiter consumes the exact characters of delim.
func skipDelimiter(c Cursor, delim string) (Cursor, parseStatus) {
	for _, want := range delim {
		ch, rest, ok := c.next()
		if !ok {
			return c, needMore
		}
		if ch != want {
			return c, noMatch
		}
		c = rest
	}
	return c, matched
}

// captureSingle consumes one character satisfying pred.
func captureSingle(c Cursor, pred func(rune) bool) (Cursor, rune, parseStatus) {
	ch, rest, ok := c.next()
	if !ok {
		return c, 0, needMore
	}
	if !pred(ch) {
		return c, 0, noMatch
	}
	return rest, ch, matched
}

func inRange(lo, hi rune) func(rune) bool {
	return func(ch rune) bool { return ch >= lo && ch <= hi }
}

// captureGroup consumes a greedy run of one or more characters
// satisfying pred. It needs to see a character past the run to know the
// run ended, so exhausting the input mid-group reports needMore.
func captureGroup(c Cursor, pred func(rune) bool) (Cursor, string, parseStatus) {
	c, first, status := captureSingle(c, pred)
	if status != matched {
		return c, "", status
	}
	run := []rune{first}
	for {
		ch, rest, ok := c.next()
		if !ok {
			return c, "", needMore
		}
		if !pred(ch) {
			return c, string(run), matched
		}
		run = append(run, ch)
		c = rest
	}
}

// captureGroupLazy is captureGroup except that exhausting the input
// ends the run with a match. Used for text runs, which may always be
// extended by a later chunk; the grid re-merges graphemes split across
// two runs.
func captureGroupLazy(c Cursor, pred func(rune) bool) (Cursor, string, parseStatus) {
	c, first, status := captureSingle(c, pred)
	if status != matched {
		return c, "", status
	}
	run := []rune{first}
	for {
		ch, rest, ok := c.next()
		if !ok || !pred(ch) {
			return c, string(run), matched
		}
		run = append(run, ch)
		c = rest
	}
}

// optionalGroup wraps a captureGroup result with match-zero-or-more,
// prefer-none semantics: noMatch becomes an absent group at the
// original position, while needMore still suspends the parse.
func optionalGroup(orig, c Cursor, group string, status parseStatus) (Cursor, string, parseStatus) {
	switch status {
	case matched:
		return c, group, matched
	case noMatch:
		return orig, "", matched
	default:
		return orig, "", needMore
	}
}

func parseC0Control(c Cursor) (Cursor, Node, parseStatus) {
	c, code, status := captureSingle(c, inRange(0x00, 0x1F))
	if status != matched {
		return c, nil, status
	}
	return c, C0ControlNode{Code: code}, matched
}

func parseC1Control(c Cursor) (Cursor, Node, parseStatus) {
	c, status := skipDelimiter(c, "\x1b")
	if status != matched {
		return c, nil, status
	}
	c, code, status := captureSingle(c, inRange(0x40, 0x5F))
	if status != matched {
		return c, nil, status
	}
	return c, C1ControlNode{Code: code}, matched
}

func parseControlSequence(c Cursor) (Cursor, Node, parseStatus) {
	c, status := skipDelimiter(c, "\x1b[")
	if status != matched {
		return c, nil, status
	}

	rest, params, status := captureGroup(c, inRange(0x30, 0x3F))
	c, params, status = optionalGroup(c, rest, params, status)
	if status != matched {
		return c, nil, status
	}

	rest, intermediates, status := captureGroup(c, inRange(0x20, 0x2F))
	c, intermediates, status = optionalGroup(c, rest, intermediates, status)
	if status != matched {
		return c, nil, status
	}

	c, final, status := captureSingle(c, inRange(0x40, 0x7E))
	if status != matched {
		return c, nil, status
	}
	return c, ControlSequenceNode{
		ParameterBytes:    params,
		IntermediateBytes: intermediates,
		FinalByte:         final,
	}, matched
}

func parseIndependentControlFunction(c Cursor) (Cursor, Node, parseStatus) {
	c, status := skipDelimiter(c, "\x1b")
	if status != matched {
		return c, nil, status
	}
	c, code, status := captureSingle(c, inRange(0x60, 0x7E))
	if status != matched {
		return c, nil, status
	}
	return c, IndependentControlFunctionNode{Code: code}, matched
}

// Control string openers: DCS, SOS, OSC, PM, APC.
func isControlStringOpener(ch rune) bool {
	switch ch {
	case 0x50, 0x58, 0x5D, 0x5E, 0x5F:
		return true
	}
	return false
}

func parseControlString(c Cursor) (Cursor, Node, parseStatus) {
	c, status := skipDelimiter(c, "\x1b")
	if status != matched {
		return c, nil, status
	}
	c, opening, status := captureSingle(c, isControlStringOpener)
	if status != matched {
		return c, nil, status
	}
	c, body, status := captureCharacterString(c)
	if status != matched {
		return c, nil, status
	}
	return c, ControlStringNode{Opening: opening, Body: body}, matched
}

// captureCharacterString reads the body of a control string up to a
// string terminator (ESC \) or BEL, whichever comes first. The
// terminator is consumed but not part of the result. ECMA-48 delimits
// the body by terminator only, so any other character belongs to it.
func captureCharacterString(c Cursor) (Cursor, string, parseStatus) {
	var body []rune
	for {
		if rest, status := skipDelimiter(c, "\x1b\\"); status != noMatch {
			if status == needMore {
				return c, "", needMore
			}
			return rest, string(body), matched
		}
		if rest, status := skipDelimiter(c, "\x07"); status != noMatch {
			if status == needMore {
				return c, "", needMore
			}
			return rest, string(body), matched
		}
		ch, rest, ok := c.next()
		if !ok {
			return c, "", needMore
		}
		body = append(body, ch)
		c = rest
	}
}

func parseText(c Cursor) (Cursor, Node, parseStatus) {
	c, text, status := captureGroupLazy(c, func(ch rune) bool {
		return !unicode.IsControl(ch)
	})
	if status != matched {
		return c, nil, status
	}
	return c, TextNode{Text: text}, matched
}

func parseUnknown(c Cursor) (Cursor, Node, parseStatus) {
	c, code, status := captureSingle(c, func(rune) bool { return true })
	if status != matched {
		return c, nil, status
	}
	return c, UnknownNode{Code: code}, matched
}
