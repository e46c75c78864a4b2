package termloom

import "fmt"

// Node is one classified element of the decoded character stream.
// The set of implementations is closed; Apply on a Grid handles every
// variant and ignores the ones the grid does not model.
//
// Classification follows ECMA-48:
// https://www.ecma-international.org/wp-content/uploads/ECMA-48_5th_edition_june_1991.pdf
type Node interface {
	node()
	fmt.Stringer
}

// TextNode is a maximal run of non-control characters.
type TextNode struct {
	Text string
}

// C0ControlNode is a single control character in \x00..\x1F.
type C0ControlNode struct {
	Code rune
}

// C1ControlNode is ESC followed by a character in \x40..\x5F.
type C1ControlNode struct {
	Code rune
}

// ControlSequenceNode is CSI (ESC [) followed by optional parameter
// bytes, optional intermediate bytes, and a final byte. An empty
// ParameterBytes or IntermediateBytes means the group was absent; the
// grammar never produces a present-but-empty group.
type ControlSequenceNode struct {
	ParameterBytes    string
	IntermediateBytes string
	FinalByte         rune
}

// IndependentControlFunctionNode is ESC followed by a character in
// \x60..\x7E.
type IndependentControlFunctionNode struct {
	Code rune
}

// ControlStringNode is ESC + one of APC, DCS, OSC, PM, SOS, followed by
// a character string running up to a string terminator (ESC \) or BEL.
// The terminator is consumed but not retained.
type ControlStringNode struct {
	Opening rune
	Body    string
}

// UnknownNode is the catch-all for any single character no other
// variant matched. It keeps classification total.
type UnknownNode struct {
	Code rune
}

func (TextNode) node()                       {}
func (C0ControlNode) node()                  {}
func (C1ControlNode) node()                  {}
func (ControlSequenceNode) node()            {}
func (IndependentControlFunctionNode) node() {}
func (ControlStringNode) node()              {}
func (UnknownNode) node()                    {}

func (n TextNode) String() string      { return fmt.Sprintf("Text(%q)", n.Text) }
func (n C0ControlNode) String() string { return fmt.Sprintf("C0(%q)", n.Code) }
func (n C1ControlNode) String() string { return fmt.Sprintf("C1(%q)", n.Code) }

func (n ControlSequenceNode) String() string {
	return fmt.Sprintf("CSI(params=%q intermediates=%q final=%q)",
		n.ParameterBytes, n.IntermediateBytes, n.FinalByte)
}

func (n IndependentControlFunctionNode) String() string {
	return fmt.Sprintf("ICF(%q)", n.Code)
}

func (n ControlStringNode) String() string {
	return fmt.Sprintf("ControlString(opening=%q body=%q)", n.Opening, n.Body)
}

func (n UnknownNode) String() string { return fmt.Sprintf("Unknown(%q)", n.Code) }
