package termloom

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func parseString(t *testing.T, input string) (Node, Cursor, bool) {
	t.Helper()
	return Parse(NewCursor([]rune(input)))
}

func mustParse(t *testing.T, input string) (Node, string) {
	t.Helper()
	node, rest, ok := parseString(t, input)
	if !ok {
		t.Fatalf("Parse(%q) reported need-more-input", input)
	}
	return node, string(rest.Rest())
}

func mustNeedMore(t *testing.T, input string) {
	t.Helper()
	node, _, ok := parseString(t, input)
	if ok {
		t.Fatalf("Parse(%q) = %v, expected need-more-input", input, node)
	}
}

func TestParseC0Control(t *testing.T) {
	node, rest := mustParse(t, "\x07world")
	if diff := cmp.Diff(C0ControlNode{Code: 0x07}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	if rest != "world" {
		t.Fatalf("rest = %q, want %q", rest, "world")
	}
}

func TestParseC1Control(t *testing.T) {
	node, _ := mustParse(t, "\x1b\x40world")
	if diff := cmp.Diff(C1ControlNode{Code: 0x40}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestParseControlSequence(t *testing.T) {
	tests := []struct {
		input string
		want  ControlSequenceNode
		rest  string
	}{
		{
			input: "\x1b[0;1;2!mREST",
			want:  ControlSequenceNode{ParameterBytes: "0;1;2", IntermediateBytes: "!", FinalByte: 'm'},
			rest:  "REST",
		},
		{
			input: "\x1b[!mworld",
			want:  ControlSequenceNode{IntermediateBytes: "!", FinalByte: 'm'},
			rest:  "world",
		},
		{
			input: "\x1b[0;1;2mworld",
			want:  ControlSequenceNode{ParameterBytes: "0;1;2", FinalByte: 'm'},
			rest:  "world",
		},
		{
			input: "\x1b[Cworld",
			want:  ControlSequenceNode{FinalByte: 'C'},
			rest:  "world",
		},
	}
	for _, tt := range tests {
		node, rest := mustParse(t, tt.input)
		if diff := cmp.Diff(tt.want, node); diff != "" {
			t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
		if rest != tt.rest {
			t.Errorf("Parse(%q) rest = %q, want %q", tt.input, rest, tt.rest)
		}
	}
}

func TestParseIndependentControlFunction(t *testing.T) {
	node, _ := mustParse(t, "\x1b\x60world")
	if diff := cmp.Diff(IndependentControlFunctionNode{Code: 0x60}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestParseControlString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  ControlStringNode
		rest  string
	}{
		{
			name:  "OSC terminated by BEL",
			input: "\x1b]0;title\x07REST",
			want:  ControlStringNode{Opening: ']', Body: "0;title"},
			rest:  "REST",
		},
		{
			name:  "OSC terminated by ST",
			input: "\x1b]0;Hello\x1b\\world",
			want:  ControlStringNode{Opening: ']', Body: "0;Hello"},
			rest:  "world",
		},
		{
			name:  "DCS with escape inside body",
			input: "\x1bPdata\x1bXmore\x1b\\tail",
			want:  ControlStringNode{Opening: 'P', Body: "data\x1bXmore"},
			rest:  "tail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, rest := mustParse(t, tt.input)
			if diff := cmp.Diff(tt.want, node); diff != "" {
				t.Fatalf("node mismatch (-want +got):\n%s", diff)
			}
			if rest != tt.rest {
				t.Fatalf("rest = %q, want %q", rest, tt.rest)
			}
		})
	}
}

func TestParseText(t *testing.T) {
	node, rest := mustParse(t, "Hello, world\nmore")
	if diff := cmp.Diff(TextNode{Text: "Hello, world"}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	if rest != "\nmore" {
		t.Fatalf("rest = %q, want %q", rest, "\nmore")
	}
}

func TestParseTextMatchesAtEndOfInput(t *testing.T) {
	// A trailing text run matches rather than suspending; if it turns
	// out to be half a grapheme cluster, the grid re-merges the rest
	// when it arrives.
	node, rest := mustParse(t, "Hello, world")
	if diff := cmp.Diff(TextNode{Text: "Hello, world"}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	if rest != "" {
		t.Fatalf("rest = %q, want empty", rest)
	}
}

func TestParseUnknown(t *testing.T) {
	node, _ := mustParse(t, "\x7fworld")
	if diff := cmp.Diff(UnknownNode{Code: 0x7f}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNeedMoreInput(t *testing.T) {
	inputs := []string{
		"",                 // nothing at all
		"\x1b",             // bare ESC: could become any ESC-prefixed kind
		"\x1b[",            // CSI without final byte
		"\x1b[0;1",         // CSI mid-parameters
		"\x1b[0;1;2!",      // CSI mid-intermediates
		"\x1b]0;title",     // control string without terminator
		"\x1b]0;title\x1b", // terminator split after its ESC
	}
	for _, input := range inputs {
		mustNeedMore(t, input)
	}
}

func TestParseEscAloneDoesNotFallThrough(t *testing.T) {
	// ESC followed by a character outside every ESC-prefixed grammar
	// resolves to a plain C0 control for the ESC itself; nothing longer
	// can match, and ESC is a C0 code.
	node, rest := mustParse(t, "\x1b\x01")
	if diff := cmp.Diff(C0ControlNode{Code: 0x1b}, node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	if rest != "\x01" {
		t.Fatalf("rest = %q, want %q", rest, "\x01")
	}
}

func TestParseDrainsSequentially(t *testing.T) {
	input := "abc\x0d\x0adef\x1b[3Pxyz"
	cur := NewCursor([]rune(input))
	var nodes []Node
	for {
		node, rest, ok := Parse(cur)
		if !ok {
			break
		}
		cur = rest
		nodes = append(nodes, node)
	}
	want := []Node{
		TextNode{Text: "abc"},
		C0ControlNode{Code: 0x0d},
		C0ControlNode{Code: 0x0a},
		TextNode{Text: "def"},
		ControlSequenceNode{ParameterBytes: "3", FinalByte: 'P'},
		TextNode{Text: "xyz"},
	}
	if diff := cmp.Diff(want, nodes); diff != "" {
		t.Fatalf("node stream mismatch (-want +got):\n%s", diff)
	}
	if cur.Len() != 0 {
		t.Fatalf("expected full consumption, %d characters left", cur.Len())
	}
}
