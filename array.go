package mdlfile

import "math"

// ArrayKind identifies the element type of an Array.
type ArrayKind uint8

const (
	ArrayInvalid ArrayKind = iota
	ArrayFloat32
	ArrayUint8
	ArrayUint16
	ArrayInt32
)

func (k ArrayKind) String() string {
	switch k {
	case ArrayFloat32:
		return "float32"
	case ArrayUint8:
		return "uint8"
	case ArrayUint16:
		return "uint16"
	case ArrayInt32:
		return "int32"
	}
	return "invalid"
}

// Width returns the number of bytes occupied by one element of the kind.
func (k ArrayKind) Width() int {
	switch k {
	case ArrayUint8:
		return 1
	case ArrayUint16:
		return 2
	case ArrayFloat32, ArrayInt32:
		return 4
	}
	return 0
}

// Array is a homogeneous list of numbers.
type Array interface {
	ArrayKind() ArrayKind
	Len() int
	CopyArray() Array
}

// NewArray returns a zeroed array of the given kind and length, or nil if
// the kind is invalid.
func NewArray(k ArrayKind, n int) Array {
	switch k {
	case ArrayFloat32:
		return make(Float32Array, n)
	case ArrayUint8:
		return make(Uint8Array, n)
	case ArrayUint16:
		return make(Uint16Array, n)
	case ArrayInt32:
		return make(Int32Array, n)
	}
	return nil
}

type Float32Array []float32

func (Float32Array) ArrayKind() ArrayKind { return ArrayFloat32 }
func (a Float32Array) Len() int          { return len(a) }
func (a Float32Array) CopyArray() Array {
	c := make(Float32Array, len(a))
	copy(c, a)
	return c
}

type Uint8Array []uint8

func (Uint8Array) ArrayKind() ArrayKind { return ArrayUint8 }
func (a Uint8Array) Len() int          { return len(a) }
func (a Uint8Array) CopyArray() Array {
	c := make(Uint8Array, len(a))
	copy(c, a)
	return c
}

type Uint16Array []uint16

func (Uint16Array) ArrayKind() ArrayKind { return ArrayUint16 }
func (a Uint16Array) Len() int          { return len(a) }
func (a Uint16Array) CopyArray() Array {
	c := make(Uint16Array, len(a))
	copy(c, a)
	return c
}

type Int32Array []int32

func (Int32Array) ArrayKind() ArrayKind { return ArrayInt32 }
func (a Int32Array) Len() int          { return len(a) }
func (a Int32Array) CopyArray() Array {
	c := make(Int32Array, len(a))
	copy(c, a)
	return c
}

// ArrayLen returns the length of a, or 0 if a is nil.
func ArrayLen(a Array) int {
	if a == nil {
		return 0
	}
	return a.Len()
}

// ArraysEqual returns whether a and b have the same kind and elements. A nil
// array equals an empty array of any kind. Floats are compared by their bits.
func ArraysEqual(a, b Array) bool {
	if ArrayLen(a) == 0 && ArrayLen(b) == 0 {
		return true
	}
	if a == nil || b == nil || a.ArrayKind() != b.ArrayKind() || a.Len() != b.Len() {
		return false
	}
	switch a := a.(type) {
	case Float32Array:
		b := b.(Float32Array)
		for i := range a {
			if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
				return false
			}
		}
	case Uint8Array:
		b := b.(Uint8Array)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	case Uint16Array:
		b := b.(Uint16Array)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	case Int32Array:
		b := b.(Int32Array)
		for i := range a {
			if a[i] != b[i] {
				return false
			}
		}
	default:
		return false
	}
	return true
}
