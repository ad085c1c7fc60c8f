package receipt

import (
	"errors"
	"fmt"

	"github.com/ethpandaops/receipt-importer/pkg/rlpitem"
)

// Sentinel errors returned by the decoder. Every error returned from Decode or
// DecodeFile matches exactly one of these (or wraps an I/O error).
var (
	// ErrTruncatedInput indicates a length prefix declares more bytes than remain.
	ErrTruncatedInput = rlpitem.ErrTruncatedInput

	// ErrInvalidLengthEncoding indicates a malformed long-form length header.
	ErrInvalidLengthEncoding = rlpitem.ErrInvalidLengthEncoding

	// ErrDecodeDepthExceeded indicates nesting beyond the configured bound.
	ErrDecodeDepthExceeded = rlpitem.ErrDepthExceeded

	// ErrMalformedReceiptEntry indicates an entry that is neither a receipt,
	// a placeholder nor a nested list.
	ErrMalformedReceiptEntry = errors.New("malformed receipt entry")

	// ErrEmptyBatch is returned when non-empty input is required but no receipt was found.
	ErrEmptyBatch = errors.New("no receipts decoded")

	errMissingFormatTag = errors.New("missing format tag byte")
)

// Reasons a list fails to decode directly as a receipt.
var (
	errNotAList       = errors.New("entry is not a list")
	errFieldCount     = errors.New("unexpected field count")
	errExpectedScalar = errors.New("expected scalar, found list")
	errTooLarge       = errors.New("value too large")
	errLeadingZero    = errors.New("non-canonical integer with leading zero")
	errHashSize       = errors.New("invalid hash length")
	errInvalidUTF8    = errors.New("invalid utf-8 string")
)

// FieldError describes the receipt field that prevented a direct decode.
type FieldError struct {
	Index int
	Name  string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %d (%s): %v", e.Index, e.Name, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// EntryError reports a fatal problem with one entry of the receipt tree.
type EntryError struct {
	// Path holds the child indexes leading from the root list to the entry.
	Path []int
	// Kind is ErrMalformedReceiptEntry or ErrDecodeDepthExceeded.
	Kind error
	// Err describes the entry itself.
	Err error
	// Container explains why the enclosing list was walked as a container
	// instead of being decoded as a receipt. Nil for top-level entries.
	Container error
}

func (e *EntryError) Error() string {
	msg := fmt.Sprintf("%v at %v: %v", e.Kind, e.Path, e.Err)

	if e.Container != nil {
		msg += fmt.Sprintf(" (enclosing list is not a receipt: %v)", e.Container)
	}

	return msg
}

func (e *EntryError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// IsFormatError reports whether err was caused by the content of the input
// rather than by I/O or configuration.
func IsFormatError(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrTruncatedInput) ||
		errors.Is(err, ErrInvalidLengthEncoding) ||
		errors.Is(err, ErrDecodeDepthExceeded) ||
		errors.Is(err, ErrMalformedReceiptEntry)
}
