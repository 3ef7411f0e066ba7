// Package message implements the zero-copy text parser at the core of the
// engine: line iteration and header lookup over a single packet buffer
// (PacketView), the vendor DESC compound-value reader (ParseDesc), and the
// classifier that turns a validated inbound packet into a tagged search
// request (Classify).
//
// Grounded on original_source/src/UPnPBuffer.{h,cpp}: the parser never
// allocates and never copies the whole payload, only the bounded header
// values callers ask for. It borrows the caller's buffer for its entire
// lifetime and outlives nothing past a single packet.
package message

import (
	"bytes"
	"strings"
)

// maxLineBuffer bounds the length of the line GetNextLine returns. It is
// sized well above any legal SSDP header line; lines longer than this are
// truncated rather than rejected, matching the parser's general
// truncate-don't-fail posture.
const maxLineBuffer = 512

// PacketView is an immutable, borrowed view over one packet buffer. It
// never copies the payload; header lookups copy only the bounded value the
// caller asked for. A PacketView must not be retained past the lifetime of
// the buffer it was built from.
type PacketView struct {
	buf []byte
}

// NewPacketView skips any leading spaces before the first line (the source
// does this once, at construction) and returns a view ready for
// classification and header lookup.
func NewPacketView(buf []byte) PacketView {
	i := 0
	for i < len(buf) && buf[i] == ' ' {
		i++
	}
	return PacketView{buf: buf[i:]}
}

// IsSearchRequest is true iff the packet begins with "M-SEARCH".
func (p PacketView) IsSearchRequest() bool {
	return hasPrefix8(p.buf, "M-SEARCH")
}

// IsSearchResponse is true iff the packet begins with "HTTP/1.1". The
// status line is not otherwise validated; the 200 OK check, if wanted, is
// left to a higher layer.
func (p PacketView) IsSearchResponse() bool {
	return hasPrefix8(p.buf, "HTTP/1.1")
}

func hasPrefix8(buf []byte, want string) bool {
	if len(buf) < 8 {
		return false
	}
	return string(buf[:8]) == want
}

// HasNextLine is true iff a CRLF exists at or after cursor with at least
// one byte before it.
func HasNextLine(cursor []byte) bool {
	idx := indexCRLF(cursor)
	return idx > 0
}

// GetNextLine returns the line starting at cursor, up to but not including
// its terminating CRLF, as a sub-slice of cursor (no copy) truncated to
// maxLineBuffer bytes, and returns the
// remainder of the buffer positioned past the CRLF with leading spaces
// skipped. The second return value is false if no CRLF follows cursor.
func GetNextLine(cursor []byte) (line []byte, rest []byte, ok bool) {
	idx := indexCRLF(cursor)
	if idx < 0 {
		return nil, nil, false
	}
	line = cursor[:idx]
	if len(line) > maxLineBuffer {
		line = line[:maxLineBuffer]
	}
	rest = cursor[idx+2:]
	j := 0
	for j < len(rest) && rest[j] == ' ' {
		j++
	}
	return line, rest[j:], true
}

func indexCRLF(buf []byte) int {
	return bytes.Index(buf, []byte("\r\n"))
}

// MaxLineLength scans every line once and returns the length of the
// longest one. The source computes this to size a stack-resident line
// buffer for header lookups; this implementation only needs it for
// parity/tests, since Go slices need no such pre-sizing.
func (p PacketView) MaxLineLength() int {
	max := 0
	cursor := p.buf
	for HasNextLine(cursor) {
		line, rest, ok := GetNextLine(cursor)
		if !ok {
			break
		}
		if len(line) > max {
			max = len(line)
		}
		cursor = rest
	}
	return max
}

// HeaderValue looks up header by exact byte match at the start of a line,
// where the line begins with name and the next byte is ':' or ' '. It
// iterates every line without short-circuiting: if more than one line
// matches, the last one wins. This quirk is observable wire behavior and
// is preserved deliberately (a peer emitting two ST: lines produces the
// last value to any compliant parser here).
//
// The returned value is trimmed of leading and trailing spaces. ok is true
// iff at least one line matched, even if the trimmed value is empty.
func (p PacketView) HeaderValue(name string) (value string, ok bool) {
	cursor := p.buf
	for HasNextLine(cursor) {
		line, rest, more := GetNextLine(cursor)
		if !more {
			break
		}
		if v, matched := matchHeader(line, name); matched {
			value, ok = v, true
		}
		cursor = rest
	}
	return value, ok
}

func matchHeader(line []byte, name string) (string, bool) {
	if len(line) < len(name) {
		return "", false
	}
	if string(line[:len(name)]) != name {
		return "", false
	}
	if len(line) == len(name) {
		return "", false
	}
	next := line[len(name)]
	if next != ':' && next != ' ' {
		return "", false
	}
	colon := -1
	for i := len(name); i < len(line); i++ {
		if line[i] == ':' {
			colon = i
			break
		}
	}
	if colon < 0 {
		return "", false
	}
	value := line[colon+1:]
	i := 0
	for i < len(value) && value[i] == ' ' {
		i++
	}
	value = value[i:]
	j := len(value)
	for j > 0 && value[j-1] == ' ' {
		j--
	}
	return string(value[:j]), true
}

// DisplayName looks up the DESC header, then locates the literal substring
// ":name:"; the value is everything up to the next ':'.
func (p PacketView) DisplayName(descHeader string) (string, bool) {
	desc, ok := p.HeaderValue(descHeader)
	if !ok {
		return "", false
	}
	const key = ":name:"
	start := strings.Index(desc, key)
	if start < 0 {
		return "", false
	}
	start += len(key)
	end := strings.IndexByte(desc[start:], ':')
	if end < 0 {
		return "", false
	}
	return desc[start : start+end], true
}
