// Package blockerr defines the fatal error taxonomy shared by every layer
// of the container: usage, I/O, format, codec, and range errors. Every kind
// except RangeError can carry an underlying cause, exposed through Unwrap
// so callers can still reach it; RangeError never has a cause.
package blockerr

import "fmt"

// UsageError signals a bad or missing CLI argument, or a parameter
// combination that is impossible for the selected strategy.
type UsageError struct {
	Msg string
	Err error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usage: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("usage: %s", e.Msg)
}

func (e *UsageError) Unwrap() error { return e.Err }

// Usage constructs a UsageError.
func Usage(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// UsageWrap constructs a UsageError wrapping an underlying cause.
func UsageWrap(err error, format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// IoError signals an open/read/write/seek failure, including a short read
// where a full length was required.
type IoError struct {
	Msg string
	Err error
}

func (e *IoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("io: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("io: %s", e.Msg)
}

func (e *IoError) Unwrap() error { return e.Err }

// Io constructs an IoError wrapping an underlying cause.
func Io(err error, format string, args ...any) error {
	return &IoError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// FormatError signals a bad magic, an implausible header size, an
// out-of-bounds stripe/block offset, or an intra-stripe index whose entry
// sizes don't sum to the stripe size.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("format: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("format: %s", e.Msg)
}

func (e *FormatError) Unwrap() error { return e.Err }

// Format constructs a FormatError.
func Format(format string, args ...any) error {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}

// FormatWrap constructs a FormatError wrapping an underlying cause.
func FormatWrap(err error, format string, args ...any) error {
	return &FormatError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// CodecError signals that the underlying block codec returned a failure,
// or that a decompressed length disagrees with the declared raw length.
type CodecError struct {
	Msg string
	Err error
}

func (e *CodecError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("codec: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("codec: %s", e.Msg)
}

func (e *CodecError) Unwrap() error { return e.Err }

// Codec constructs a CodecError wrapping an underlying cause.
func Codec(err error, format string, args ...any) error {
	return &CodecError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// RangeError signals a random-block index outside [0, total_blocks), or
// an intra-stripe block index outside [0, n_blocks).
type RangeError struct {
	Msg string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range: %s", e.Msg)
}

// Range constructs a RangeError.
func Range(format string, args ...any) error {
	return &RangeError{Msg: fmt.Sprintf(format, args...)}
}
