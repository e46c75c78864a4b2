package termloom

import (
	"strings"
	"unicode/utf8"
)

// ByteDecoder turns arbitrarily chunked bytes into text. A chunk may end
// in the middle of a multi-byte UTF-8 sequence; the undecodable tail is
// carried to the next Feed call, so no byte is ever lost or decoded
// twice. Malformed input degrades to U+FFFD, never to an error.
type ByteDecoder struct {
	residual []byte
}

// Feed decodes chunk plus any residual bytes from the previous call and
// returns the decoded text. A valid-looking but incomplete trailing
// sequence is held back until more bytes arrive.
func (d *ByteDecoder) Feed(chunk []byte) string {
	buf := chunk
	if len(d.residual) > 0 {
		buf = append(d.residual, chunk...)
		d.residual = nil
	}

	var sb strings.Builder
	for len(buf) > 0 {
		if buf[0] < utf8.RuneSelf {
			n := 1
			for n < len(buf) && buf[n] < utf8.RuneSelf {
				n++
			}
			sb.Write(buf[:n])
			buf = buf[n:]
			continue
		}

		r, size := utf8.DecodeRune(buf)
		if r != utf8.RuneError || size > 1 {
			// size > 1 means the bytes really encoded U+FFFD.
			sb.WriteRune(r)
			buf = buf[size:]
			continue
		}

		if !utf8.FullRune(buf) {
			// Incomplete but still completable; at most utf8.UTFMax-1
			// bytes. Copied because buf may alias the caller's chunk.
			d.residual = append(d.residual, buf...)
			break
		}

		// Invalid byte: one replacement character, then resume after it.
		sb.WriteRune(utf8.RuneError)
		buf = buf[1:]
	}
	return sb.String()
}
