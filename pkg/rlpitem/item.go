// Package rlpitem parses RLP encoded buffers into a tree of untyped items.
//
// An Item is either a Scalar (a byte string) or a List of further items. Items
// borrow from the parsed buffer, so the buffer must outlive every item derived
// from it.
package rlpitem

// Item is a node of a parsed RLP tree. The only implementations are Scalar
// and List; consumers are expected to type switch over both.
type Item interface {
	// Raw returns the complete encoding of the item, header included.
	Raw() []byte
	// Empty reports whether the item is a zero-length scalar or an empty list.
	Empty() bool

	isItem()
}

// Compile-time interface checks.
var (
	_ Item = Scalar{}
	_ Item = List{}
)

// Scalar is an opaque byte string.
type Scalar struct {
	content []byte
	raw     []byte
}

// Bytes returns the scalar content without its header.
func (s Scalar) Bytes() []byte { return s.content }

// Len returns the content length in bytes.
func (s Scalar) Len() int { return len(s.content) }

func (s Scalar) Raw() []byte { return s.raw }

func (s Scalar) Empty() bool { return len(s.content) == 0 }

func (Scalar) isItem() {}

// List is an ordered sequence of items.
type List struct {
	items []Item
	raw   []byte
}

// Items returns the children in encoding order.
func (l List) Items() []Item { return l.items }

// Len returns the number of children.
func (l List) Len() int { return len(l.items) }

// At returns the i-th child.
func (l List) At(i int) Item { return l.items[i] }

func (l List) Raw() []byte { return l.raw }

func (l List) Empty() bool { return len(l.items) == 0 }

func (List) isItem() {}
