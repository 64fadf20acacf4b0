package core

// streaming.go provides the io.Reader wrappers applied to uploaded import files.
//
//   - SkipBOM drops the UTF-8 byte order mark spreadsheet tools prepend to CSV exports
//   - DecodeGB18030 transcodes CSVs saved by Chinese-locale Excel
//   - UTF8Sanitizer replaces invalid UTF-8 bytes with '?' without buffering the file
//   - CountingReader tracks bytes read and enforces the upload size limit
//
// WrapForImport applies them in the right order.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ErrFileTooLarge is returned once a CountingReader passes its limit.
var ErrFileTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SkipBOM returns a reader positioned after a leading UTF-8 BOM, if any.
func SkipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// UTF8Sanitizer rewrites invalid UTF-8 on the fly. A multi-byte rune split
// across two reads is carried over rather than treated as invalid.
type UTF8Sanitizer struct {
	r     io.Reader
	carry []byte
}

// NewUTF8Sanitizer wraps r.
func NewUTF8Sanitizer(r io.Reader) *UTF8Sanitizer {
	return &UTF8Sanitizer{r: r, carry: make([]byte, 0, utf8.UTFMax)}
}

// Read implements io.Reader.
func (s *UTF8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n := copy(p, s.carry)
	s.carry = s.carry[:0]

	m, err := s.r.Read(p[n:])
	n += m
	if n == 0 {
		return 0, err
	}

	data := p[:n]
	if err == nil {
		if k := incompleteTail(data); k > 0 {
			s.carry = append(s.carry, data[n-k:]...)
			data = data[:n-k]
		}
	}

	if isASCII(data) {
		return len(data), err
	}
	return sanitizeInPlace(data), err
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// incompleteTail returns how many trailing bytes form the start of a
// multi-byte rune that has not been fully read yet.
func incompleteTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		b := data[len(data)-i]
		if b < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(b) {
			if want := leadLen(b); want > i {
				return i
			}
			return 0
		}
	}
	return 0
}

func leadLen(b byte) int {
	switch {
	case b >= 0xF0:
		return 4
	case b >= 0xE0:
		return 3
	case b >= 0xC0:
		return 2
	default:
		return 1
	}
}

// sanitizeInPlace compacts data, replacing each invalid byte with '?'.
// The result never grows, so the write index never passes the read index.
func sanitizeInPlace(data []byte) int {
	w := 0
	for r := 0; r < len(data); {
		ch, size := utf8.DecodeRune(data[r:])
		if ch == utf8.RuneError && size == 1 {
			data[w] = '?'
			w++
			r++
			continue
		}
		copy(data[w:], data[r:r+size])
		w += size
		r += size
	}
	return w
}

// sniffLen is how much of the file DecodeGB18030 inspects.
const sniffLen = 4096

// DecodeGB18030 transcodes r from GB18030 when its first bytes are not
// valid UTF-8. UTF-8 input is returned unchanged.
func DecodeGB18030(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)
	if looksUTF8(head, len(head) == sniffLen) {
		return br
	}
	return transform.NewReader(br, simplifiedchinese.GB18030.NewDecoder())
}

// looksUTF8 reports whether head is valid UTF-8. When truncated, a rune cut
// at the end of head is allowed.
func looksUTF8(head []byte, truncated bool) bool {
	if utf8.Valid(head) {
		return true
	}
	if !truncated {
		return false
	}
	for cut := 1; cut < utf8.UTFMax && cut <= len(head); cut++ {
		if utf8.Valid(head[:len(head)-cut]) {
			return true
		}
	}
	return false
}

// CountingReader counts bytes and fails with ErrFileTooLarge past limit.
// A limit of zero or less disables the check.
type CountingReader struct {
	r     io.Reader
	n     int64
	limit int64
}

// NewCountingReader wraps r.
func NewCountingReader(r io.Reader, limit int64) *CountingReader {
	return &CountingReader{r: r, limit: limit}
}

// Read implements io.Reader.
func (c *CountingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	if c.limit > 0 && c.n > c.limit {
		return n, ErrFileTooLarge
	}
	return n, err
}

// BytesRead returns the number of bytes read so far.
func (c *CountingReader) BytesRead() int64 {
	return c.n
}

// WrapForImport prepares a CSV stream: the size limit applies to the raw
// bytes, then the BOM is dropped, legacy encodings decoded and the text
// sanitized.
func WrapForImport(r io.Reader, limit int64) (io.Reader, *CountingReader) {
	counter := NewCountingReader(r, limit)
	return NewUTF8Sanitizer(DecodeGB18030(SkipBOM(counter))), counter
}
