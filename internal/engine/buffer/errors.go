package buffer

import (
	"errors"
	"fmt"
)

// Errors returned by store operations.
var (
	// ErrOutOfRange indicates an offset, line or range outside the text, or
	// a byte offset that falls inside a multi-byte code point.
	ErrOutOfRange = errors.New("out of range")
)

// RangeError describes a rejected coordinate. It matches ErrOutOfRange.
type RangeError struct {
	Op    string // operation that rejected the value
	Unit  string // "char", "byte" or "line"
	Value uint64 // rejected value
	Limit uint64 // largest accepted value
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("buffer: %s: %s %d out of range [0, %d]", e.Op, e.Unit, e.Value, e.Limit)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error {
	return ErrOutOfRange
}

func outOfRange(op, unit string, value, limit uint64) error {
	return &RangeError{Op: op, Unit: unit, Value: value, Limit: limit}
}

// BoundaryError reports a byte offset inside a multi-byte code point.
// It matches ErrOutOfRange.
type BoundaryError struct {
	Op     string
	Offset ByteOffset
}

func (e *BoundaryError) Error() string {
	return fmt.Sprintf("buffer: %s: byte %d is not a character boundary", e.Op, e.Offset)
}

// Unwrap returns ErrOutOfRange.
func (e *BoundaryError) Unwrap() error {
	return ErrOutOfRange
}
