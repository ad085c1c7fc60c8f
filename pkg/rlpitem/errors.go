package rlpitem

import (
	"errors"
	"fmt"
)

// Sentinel errors describing why a buffer could not be parsed.
var (
	// ErrTruncatedInput indicates a length prefix declares more bytes than remain.
	ErrTruncatedInput = errors.New("truncated input")

	// ErrInvalidLengthEncoding indicates a malformed or non-canonical length header.
	ErrInvalidLengthEncoding = errors.New("invalid length encoding")

	// ErrDepthExceeded indicates lists are nested deeper than the configured bound.
	ErrDepthExceeded = errors.New("decode depth exceeded")
)

// ParseError reports a parse failure together with the byte offset of the
// item header that failed.
type ParseError struct {
	// Offset is the position of the failing item relative to the start of the parsed buffer.
	Offset int
	// Kind is one of the package sentinel errors.
	Kind error
	// Err is the underlying cause, if any.
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%v at offset %d", e.Kind, e.Offset)
	}

	return fmt.Sprintf("%v at offset %d: %v", e.Kind, e.Offset, e.Err)
}

// Unwrap exposes both the sentinel kind and the underlying cause to errors.Is.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}
