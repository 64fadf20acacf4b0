package core

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"
)

func TestSkipBOM(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("sku,name")...),
			expected: "sku,name",
		},
		{
			name:     "file without BOM",
			input:    []byte("sku,name"),
			expected: "sku,name",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "partial BOM at start",
			input:    []byte{0xEF, 0xBB, 'a', 'b', 'c'},
			expected: string([]byte{0xEF, 0xBB, 'a', 'b', 'c'}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(SkipBOM(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "valid ASCII",
			input:    []byte("sku,name"),
			expected: "sku,name",
		},
		{
			name:     "valid multibyte",
			input:    []byte("货号,产品名称"),
			expected: "货号,产品名称",
		},
		{
			name:     "invalid single byte replaced",
			input:    []byte{'h', 'e', 0x80, 'l', 'o'},
			expected: "he?lo",
		},
		{
			name:     "truncated rune at EOF replaced",
			input:    []byte{'a', 0xE8, 0xB4},
			expected: "a??",
		},
		{
			name:     "empty input",
			input:    []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(NewUTF8Sanitizer(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestUTF8Sanitizer_RuneSplitAcrossReads(t *testing.T) {
	input := "洗衣液,清洁用品"

	// OneByteReader forces every multi-byte rune to arrive in pieces.
	result, err := io.ReadAll(NewUTF8Sanitizer(iotest.OneByteReader(strings.NewReader(input))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != input {
		t.Errorf("got %q, want %q", string(result), input)
	}
}

func TestCountingReader_Limit(t *testing.T) {
	input := strings.Repeat("x", 1000)

	under := NewCountingReader(strings.NewReader(input), 2000)
	if _, err := io.ReadAll(under); err != nil {
		t.Fatalf("unexpected error under limit: %v", err)
	}
	if under.BytesRead() != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", under.BytesRead(), len(input))
	}

	over := NewCountingReader(strings.NewReader(input), 100)
	_, err := io.ReadAll(over)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestWrapForImport(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, []byte("货号,名称\nPRD001,洗衣液\n")...)

	reader, counter := WrapForImport(bytes.NewReader(input), 0)
	result, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(result) != "货号,名称\nPRD001,洗衣液\n" {
		t.Errorf("got %q", string(result))
	}
	if counter.BytesRead() != int64(len(input)) {
		t.Errorf("BytesRead = %d, want %d", counter.BytesRead(), len(input))
	}
}

func TestDecodeGB18030(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "gb18030 header and name",
			input:    []byte{0xbb, 0xf5, 0xba, 0xc5, ',', 0xc3, 0xfb, 0xb3, 0xc6, '\n', 'A', ',', 0xcf, 0xb4, 0xd2, 0xc2, 0xd2, 0xba},
			expected: "货号,名称\nA,洗衣液",
		},
		{
			name:     "utf-8 passes through",
			input:    []byte("货号,名称\nA,洗衣液"),
			expected: "货号,名称\nA,洗衣液",
		},
		{
			name:     "ascii",
			input:    []byte("sku,name"),
			expected: "sku,name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(DecodeGB18030(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestLooksUTF8_RuneCutAtSniffBoundary(t *testing.T) {
	head := []byte("ab洗")
	head = head[:len(head)-1]
	if !looksUTF8(head, true) {
		t.Error("truncated rune at the end should still count as UTF-8")
	}
	if looksUTF8(head, false) {
		t.Error("a cut rune in a complete file is not UTF-8")
	}
}
