package canvas

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports image bytes that could not be decoded.
	ErrFormat = errors.New("unsupported image data")
	// ErrEncode reports a failure to serialise the surface.
	ErrEncode = errors.New("image encode failed")
)

// FormatError is returned by Surface.Load when the input cannot be decoded.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("decode image: %v", e.Err)
}

func (e *FormatError) Unwrap() []error { return []error{ErrFormat, e.Err} }

// EncodeError is returned by Surface.Export when the pixels cannot be
// encoded.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("encode %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() []error { return []error{ErrEncode, e.Err} }
