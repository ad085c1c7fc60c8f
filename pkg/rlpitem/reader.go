package rlpitem

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/0xsequence/ethkit/go-ethereum/rlp"
)

// DefaultMaxDepth bounds list nesting when no explicit bound is given.
const DefaultMaxDepth = 1024

// Parse reads one item from the start of buf using DefaultMaxDepth.
// It returns the item and the number of bytes it occupies; bytes after the
// item are left untouched.
func Parse(buf []byte) (Item, int, error) {
	return ParseWithDepth(buf, DefaultMaxDepth)
}

// ParseWithDepth reads one item from the start of buf. The root item sits at
// depth zero and a list found deeper than maxDepth fails with ErrDepthExceeded.
func ParseWithDepth(buf []byte, maxDepth int) (Item, int, error) {
	if maxDepth < 0 {
		return nil, 0, fmt.Errorf("invalid max depth %d", maxDepth)
	}

	r := reader{maxDepth: maxDepth}

	return r.read(buf, 0, 0)
}

type reader struct {
	maxDepth int
}

// read parses the item at the start of buf. offset is the absolute position of
// buf within the root buffer and is only used for error reporting.
func (r reader) read(buf []byte, offset, depth int) (Item, int, error) {
	if len(buf) == 0 {
		return nil, 0, &ParseError{Offset: offset, Kind: ErrTruncatedInput, Err: io.ErrUnexpectedEOF}
	}

	kind, content, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, 0, classify(buf, offset, err)
	}

	size := len(buf) - len(rest)
	raw := buf[:size]

	if kind != rlp.List {
		return Scalar{content: content, raw: raw}, size, nil
	}

	if depth > r.maxDepth {
		return nil, 0, &ParseError{
			Offset: offset,
			Kind:   ErrDepthExceeded,
			Err:    fmt.Errorf("list at depth %d, limit %d", depth, r.maxDepth),
		}
	}

	header := size - len(content)
	items := make([]Item, 0, countHint(content))

	for pos := 0; pos < len(content); {
		child, n, err := r.read(content[pos:], offset+header+pos, depth+1)
		if err != nil {
			return nil, 0, err
		}

		items = append(items, child)
		pos += n
	}

	return List{items: items, raw: raw}, size, nil
}

// classify maps header errors from the rlp package onto this package's kinds.
// A declared size that no buffer could hold is a length encoding error rather
// than a truncation.
func classify(buf []byte, offset int, err error) error {
	kind := ErrInvalidLengthEncoding

	if errors.Is(err, rlp.ErrValueTooLarge) {
		kind = ErrTruncatedInput

		if size, ok := longSize(buf); ok && size > math.MaxInt {
			kind = ErrInvalidLengthEncoding
		}
	}

	return &ParseError{Offset: offset, Kind: kind, Err: err}
}

// longSize decodes the big-endian length field of a long-form header.
func longSize(buf []byte) (uint64, bool) {
	var n int

	switch b := buf[0]; {
	case b >= 0xb8 && b < 0xc0:
		n = int(b - 0xb7)
	case b >= 0xf8:
		n = int(b - 0xf7)
	default:
		return 0, false
	}

	if len(buf) < 1+n {
		return 0, false
	}

	var size uint64
	for _, c := range buf[1 : 1+n] {
		size = size<<8 | uint64(c)
	}

	return size, true
}

// countHint returns a capacity hint for a list payload. Malformed payloads
// simply yield a zero hint; the real error surfaces while reading children.
func countHint(content []byte) int {
	n, err := rlp.CountValues(content)
	if err != nil {
		return 0
	}

	return n
}
