package termloom

import (
	"strings"
	"testing"
)

func TestByteDecoderASCII(t *testing.T) {
	var d ByteDecoder
	if got := d.Feed([]byte("hello world")); got != "hello world" {
		t.Fatalf("Feed = %q, want %q", got, "hello world")
	}
}

func TestByteDecoderSplitRune(t *testing.T) {
	// 0xD0 0xA3 is U+0423 CYRILLIC CAPITAL LETTER U, split across feeds.
	var d ByteDecoder
	if got := d.Feed([]byte{0xd0}); got != "" {
		t.Fatalf("first half decoded to %q, want nothing yet", got)
	}
	if got := d.Feed([]byte{0xa3}); got != "У" {
		t.Fatalf("second half decoded to %q, want %q", got, "У")
	}
}

func TestByteDecoderSplitFourByteRune(t *testing.T) {
	raw := []byte("\U0001F600") // four bytes
	var d ByteDecoder
	var out strings.Builder
	for _, b := range raw {
		out.WriteString(d.Feed([]byte{b}))
	}
	if out.String() != "\U0001F600" {
		t.Fatalf("byte-at-a-time decode = %q, want %q", out.String(), "\U0001F600")
	}
}

func TestByteDecoderInvalidByte(t *testing.T) {
	var d ByteDecoder
	if got := d.Feed([]byte{0xff}); got != "�" {
		t.Fatalf("Feed(0xFF) = %q, want one replacement character", got)
	}
	if got := d.Feed([]byte("ok")); got != "ok" {
		t.Fatalf("decoding after invalid byte = %q, want %q", got, "ok")
	}
}

func TestByteDecoderInvalidContinuation(t *testing.T) {
	// A pending lead byte completed by a non-continuation byte costs
	// one replacement character; the new byte is decoded normally.
	var d ByteDecoder
	if got := d.Feed([]byte{0xd0}); got != "" {
		t.Fatalf("lead byte decoded to %q, want nothing yet", got)
	}
	if got := d.Feed([]byte{'A'}); got != "�A" {
		t.Fatalf("Feed = %q, want %q", got, "�A")
	}
}

func TestByteDecoderInvalidMidChunk(t *testing.T) {
	var d ByteDecoder
	got := d.Feed([]byte{'a', 0xd0, 'b', 'c'})
	if got != "a�bc" {
		t.Fatalf("Feed = %q, want %q", got, "a�bc")
	}
}

func TestByteDecoderLiteralReplacementCharacter(t *testing.T) {
	// An actual encoded U+FFFD passes through untouched.
	var d ByteDecoder
	if got := d.Feed([]byte("�")); got != "�" {
		t.Fatalf("Feed = %q, want %q", got, "�")
	}
}

func TestByteDecoderMixedTailAcrossChunks(t *testing.T) {
	input := "héllo wörld У\U0001F600 end"
	raw := []byte(input)
	for split := 0; split <= len(raw); split++ {
		var d ByteDecoder
		got := d.Feed(raw[:split]) + d.Feed(raw[split:])
		if got != input {
			t.Fatalf("split at %d: decoded %q, want %q", split, got, input)
		}
	}
}
