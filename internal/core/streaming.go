package core

// streaming.go cleans raw upload bytes before they reach encoding/csv.
//
// Spreadsheet exports often start with a UTF-8 byte order mark and, when
// saved from older tools, contain stray Latin-1 bytes. Both would otherwise
// end up inside header names or cell values:
//
//   - skipBOM drops a leading 0xEF 0xBB 0xBF
//   - UTF8Sanitizer replaces each invalid byte with '?'
//
// Use NewImportReader to apply both in the right order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer rewrites invalid UTF-8 to '?' as it streams. A multi-byte
// sequence split across two reads is carried over instead of being replaced.
type UTF8Sanitizer struct {
	r       io.Reader
	pending []byte
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, pending: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	offset := 0
	if len(s.pending) > 0 {
		offset = copy(p, s.pending)
		s.pending = s.pending[:0]
	}

	n, err := s.r.Read(p[offset:])
	n += offset
	// A chunk holding nothing but the start of a rune cannot be emitted yet.
	for err == nil && n > 0 && n < len(p) && incompleteTail(p[:n]) == n {
		var m int
		m, err = s.r.Read(p[n:])
		n += m
	}
	if n == 0 {
		return 0, err
	}

	return s.sanitize(p[:n], err == io.EOF), err
}

// sanitize rewrites data in place and returns the number of bytes to emit.
// Unless atEOF, an incomplete trailing sequence is moved to pending, as long
// as something else is left to emit.
func (s *UTF8Sanitizer) sanitize(data []byte, atEOF bool) int {
	if !atEOF {
		if tail := incompleteTail(data); tail > 0 && tail < len(data) {
			s.pending = append(s.pending, data[len(data)-tail:]...)
			data = data[:len(data)-tail]
		}
	}
	if utf8.Valid(data) {
		return len(data)
	}

	write := 0
	for read := 0; read < len(data); {
		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			data[write] = '?'
			write++
			read++
			continue
		}
		copy(data[write:], data[read:read+size])
		write += size
		read += size
	}
	return write
}

// incompleteTail reports how many trailing bytes start a multi-byte rune
// that is not yet complete.
func incompleteTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(b) {
			if need := leadLen(b); need > i {
				return i
			}
			return 0
		}
	}
	return 0
}

// leadLen returns the encoded length announced by a UTF-8 lead byte.
func leadLen(b byte) int {
	switch {
	case b >= 0xF0:
		return 4
	case b >= 0xE0:
		return 3
	case b >= 0xC0:
		return 2
	}
	return 1
}

// NewImportReader strips a BOM and then sanitizes UTF-8.
func NewImportReader(r io.Reader) io.Reader {
	return NewUTF8Sanitizer(skipBOM(r))
}
