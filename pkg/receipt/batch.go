package receipt

// RootShape describes the top-level item of a payload.
type RootShape int

const (
	// RootNone means the payload was empty.
	RootNone RootShape = iota
	// RootScalar means the payload held a byte string instead of a list.
	RootScalar
	// RootList means the payload held a list, the expected shape.
	RootList
)

func (s RootShape) String() string {
	switch s {
	case RootNone:
		return "none"
	case RootScalar:
		return "scalar"
	case RootList:
		return "list"
	default:
		return "unknown"
	}
}

// Stats counts what the flattener walked past on its way to the receipts.
type Stats struct {
	// Placeholders is the number of empty entries skipped.
	Placeholders int
	// Containers is the number of lists walked as containers, excluding the root.
	Containers int
	// MaxDepth is the deepest container level seen.
	MaxDepth int
}

func (s *Stats) merge(o Stats) {
	s.Placeholders += o.Placeholders
	s.Containers += o.Containers

	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

// Batch is the result of decoding one payload.
type Batch struct {
	// Receipts in depth-first, left-to-right order of discovery.
	Receipts []Receipt
	// FormatTag is the leading byte of an export file. Zero for bare payloads.
	FormatTag byte
	// Root is the shape of the payload's top-level item.
	Root RootShape
	// PayloadSize is the payload length in bytes, format tag excluded.
	PayloadSize int
	// TrailingBytes counts payload bytes after the top-level item.
	TrailingBytes int
	Stats         Stats
}

// Len returns the number of decoded receipts.
func (b *Batch) Len() int {
	return len(b.Receipts)
}
