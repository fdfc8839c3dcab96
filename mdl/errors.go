package mdl

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lwexport/mdlfile"
)

var (
	// Indicates that the first block of a stream is not a FILE block.
	ErrNotFile = errors.New("first block is not a FILE block")
	// Indicates a FILE block that does not have exactly one child.
	ErrFileChildren = errors.New("FILE block must have exactly one child")
	// Indicates a FILE block that is not the root of the tree.
	ErrNestedFile = errors.New("FILE block is not the root")
	// Indicates a block with no payload.
	ErrNoPayload = errors.New("block has no payload")
	// Indicates a data array whose length does not match its declared
	// counts.
	ErrDataLength = errors.New("length of data does not match element count")
	// Indicates a data array whose element type does not match the data and
	// variable types of a vertex array.
	ErrArrayKind = errors.New("data array has the wrong element type")
	// Indicates a vertex array whose stored elements count differs from the
	// count derived from its data type.
	ErrElementsOverride = errors.New("stored elements count overridden")
	// Indicates bytes following the root block.
	ErrTrailingData = errors.New("unexpected data after root block")
)

// ErrUnsupportedVersion indicates a format version not known by the codec.
type ErrUnsupportedVersion int32

func (err ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported format version %d", int32(err))
}

// UnknownBlockTypeError indicates a type code that has no known field layout.
// Decoding cannot continue past such a block.
type UnknownBlockTypeError struct {
	// Code is the type code that was read.
	Code int32
	// Offset is the byte offset of the block header.
	Offset int64
}

func (err UnknownBlockTypeError) Error() string {
	return fmt.Sprintf("unknown block type %d at offset %d", err.Code, err.Offset)
}

// TruncatedStreamError indicates that the stream ended in the middle of a
// field or string.
type TruncatedStreamError struct {
	// Offset is the number of bytes read before the end of the stream.
	Offset int64

	Cause error
}

func (err TruncatedStreamError) Error() string {
	var s strings.Builder
	s.WriteString("truncated stream at ")
	s.Write(strconv.AppendInt(nil, err.Offset, 10))
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err TruncatedStreamError) Unwrap() error {
	return err.Cause
}

// EncodingError indicates a string that cannot be encoded as a null-terminated
// ASCII string.
type EncodingError struct {
	// Value is the offending string.
	Value string
	// Index is the byte index of the first offending character.
	Index int
}

func (err EncodingError) Error() string {
	return fmt.Sprintf("string %q has non-ASCII or null character at index %d", err.Value, err.Index)
}

// RangeError indicates a value that cannot be represented by the width of
// its field.
type RangeError struct {
	// Field names the offending field.
	Field string
	// Index is the position of the value within an array, or -1.
	Index int
	Value int64
	Max   int64
}

func (err RangeError) Error() string {
	if err.Index >= 0 {
		return fmt.Sprintf("%s[%d]: value %d out of range [0, %d]", err.Field, err.Index, err.Value, err.Max)
	}
	return fmt.Sprintf("%s: value %d out of range [0, %d]", err.Field, err.Value, err.Max)
}

// SizeMismatchError indicates a stored byte size that differs from the size
// computed from the content of the block.
type SizeMismatchError struct {
	Kind     mdlfile.Kind
	Offset   int64
	Stored   int32
	Computed int32
}

func (err SizeMismatchError) Error() string {
	return fmt.Sprintf("%s block at offset %d: stored size %d, computed size %d", err.Kind, err.Offset, err.Stored, err.Computed)
}

// BlockError wraps an error that occurred within a block.
type BlockError struct {
	// Kind is the kind of the block.
	Kind mdlfile.Kind
	// Path lists the index of each block from the root to the failing block.
	Path []int
	// Offset is the byte offset of the block header, or -1 if unknown.
	Offset int64

	Cause error
}

func (err BlockError) Error() string {
	var s strings.Builder
	s.WriteString(err.Kind.String())
	s.WriteString(" block")
	if len(err.Path) > 0 {
		s.WriteString(" ")
		for i, n := range err.Path {
			if i > 0 {
				s.WriteByte('.')
			}
			s.Write(strconv.AppendInt(nil, int64(n), 10))
		}
	}
	if err.Offset >= 0 {
		s.WriteString(" at offset ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err BlockError) Unwrap() error {
	return err.Cause
}
