package mdlfile

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Payload holds the fixed fields of a block. Each kind of block has exactly
// one payload type.
type Payload interface {
	// Kind returns the kind of block that the payload belongs to.
	Kind() Kind

	// Copy returns a deep copy of the payload.
	Copy() Payload
}

// NewPayload returns an empty payload of the given kind, or nil if the kind
// is not valid.
func NewPayload(k Kind) Payload {
	switch k {
	case KindFile:
		return &File{}
	case KindNode:
		return &Node{}
	case KindMesh:
		return &Mesh{}
	case KindBone:
		return &Bone{}
	case KindVertexArray:
		return &VertexArray{}
	case KindIndiceArray:
		return &IndiceArray{}
	case KindProperties:
		return &Properties{}
	case KindAnimationKeys:
		return &AnimationKeys{}
	case KindSurface:
		return &Surface{}
	}
	return nil
}

////////////////////////////////////////////////////////////////

// File is the payload of the root block.
type File struct {
	Version int32
}

func (*File) Kind() Kind { return KindFile }

func (p *File) Copy() Payload {
	c := *p
	return &c
}

// Node is the payload of a NODE block, a transformed container of other
// blocks.
//
// The elements of each matrix in this package are in storage order; element i
// is the i-th float of the stream.
type Node struct {
	Matrix mgl32.Mat4
}

func (*Node) Kind() Kind { return KindNode }

func (p *Node) Copy() Payload {
	c := *p
	return &c
}

// Mesh is the payload of a MESH block. A mesh contains surfaces.
type Mesh struct {
	Matrix mgl32.Mat4
}

func (*Mesh) Kind() Kind { return KindMesh }

func (p *Mesh) Copy() Payload {
	c := *p
	return &c
}

// Bone is the payload of a BONE block, a node of a skeleton.
type Bone struct {
	Matrix mgl32.Mat4
	ID     int32
}

func (*Bone) Kind() Kind { return KindBone }

func (p *Bone) Copy() Payload {
	c := *p
	return &c
}

// Surface is the payload of a SURFACE block. It has no fields; the surface
// is made of its vertex array and indice array children.
type Surface struct{}

func (*Surface) Kind() Kind { return KindSurface }

func (p *Surface) Copy() Payload {
	return &Surface{}
}

////////////////////////////////////////////////////////////////

// Property is a key-value pair.
type Property struct {
	Key   string
	Value string
}

// Properties is the payload of a PROPERTIES block, an ordered list of
// key-value pairs.
type Properties struct {
	Pairs []Property
}

func (*Properties) Kind() Kind { return KindProperties }

func (p *Properties) Copy() Payload {
	c := &Properties{}
	if p.Pairs != nil {
		c.Pairs = make([]Property, len(p.Pairs))
		copy(c.Pairs, p.Pairs)
	}
	return c
}

// Get returns the value of the first pair with the given key, and whether it
// exists.
func (p *Properties) Get(key string) (value string, ok bool) {
	for _, pair := range p.Pairs {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return "", false
}

// Set replaces the value of the first pair with the given key, or appends a
// new pair if there is none.
func (p *Properties) Set(key, value string) {
	for i, pair := range p.Pairs {
		if pair.Key == key {
			p.Pairs[i].Value = value
			return
		}
	}
	p.Pairs = append(p.Pairs, Property{Key: key, Value: value})
}

////////////////////////////////////////////////////////////////

// VertexArray is the payload of a VERTEXARRAY block, a stream of per-vertex
// attribute data.
type VertexArray struct {
	// Vertices is the number of vertices.
	Vertices int32

	// DataType indicates what the array holds.
	DataType DataType

	// VarType is the stored variable type. For byte vectors, the data is
	// bytes regardless of this value.
	VarType VarType

	// Elements is the number of elements per vertex. If zero, ElementsFor
	// the data type is used. Byte vectors always have 4.
	Elements int32

	// Data holds Vertices*Elements values.
	Data Array
}

func (*VertexArray) Kind() Kind { return KindVertexArray }

func (p *VertexArray) Copy() Payload {
	c := *p
	if p.Data != nil {
		c.Data = p.Data.CopyArray()
	}
	return &c
}

// ElementsPerVertex returns the number of elements that are encoded per
// vertex.
func (p *VertexArray) ElementsPerVertex() int32 {
	if IsByteVector(p.DataType) {
		return 4
	}
	if p.Elements == 0 {
		return ElementsFor(p.DataType)
	}
	return p.Elements
}

// IndiceArray is the payload of an INDICEARRAY block, the index buffer of a
// surface.
type IndiceArray struct {
	Primitive Primitive
	VarType   VarType

	// Indices are stored as unsigned 16-bit integers. Larger values cannot
	// be encoded.
	Indices []uint32
}

func (*IndiceArray) Kind() Kind { return KindIndiceArray }

func (p *IndiceArray) Copy() Payload {
	c := *p
	if p.Indices != nil {
		c.Indices = make([]uint32, len(p.Indices))
		copy(c.Indices, p.Indices)
	}
	return &c
}

// Count returns the number of indices.
func (p *IndiceArray) Count() int {
	return len(p.Indices)
}

// AnimationKeys is the payload of an ANIMATIONKEYS block, the baked
// per-frame transforms of the parent bone.
type AnimationKeys struct {
	Frames []mgl32.Mat4

	// Name is the name of the animation. It is encoded only in version 2
	// and later.
	Name string
}

func (*AnimationKeys) Kind() Kind { return KindAnimationKeys }

func (p *AnimationKeys) Copy() Payload {
	c := *p
	if p.Frames != nil {
		c.Frames = make([]mgl32.Mat4, len(p.Frames))
		copy(c.Frames, p.Frames)
	}
	return &c
}

////////////////////////////////////////////////////////////////

func payloadEqual(a, b Payload) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case *File:
		b, ok := b.(*File)
		return ok && *a == *b
	case *Node:
		b, ok := b.(*Node)
		return ok && matrixEqual(a.Matrix, b.Matrix)
	case *Mesh:
		b, ok := b.(*Mesh)
		return ok && matrixEqual(a.Matrix, b.Matrix)
	case *Bone:
		b, ok := b.(*Bone)
		return ok && a.ID == b.ID && matrixEqual(a.Matrix, b.Matrix)
	case *Surface:
		_, ok := b.(*Surface)
		return ok
	case *Properties:
		b, ok := b.(*Properties)
		if !ok || len(a.Pairs) != len(b.Pairs) {
			return false
		}
		for i := range a.Pairs {
			if a.Pairs[i] != b.Pairs[i] {
				return false
			}
		}
		return true
	case *VertexArray:
		b, ok := b.(*VertexArray)
		if !ok {
			return false
		}
		if a.Vertices != b.Vertices ||
			a.DataType != b.DataType ||
			a.VarType != b.VarType ||
			a.ElementsPerVertex() != b.ElementsPerVertex() {
			return false
		}
		return ArraysEqual(a.Data, b.Data)
	case *IndiceArray:
		b, ok := b.(*IndiceArray)
		if !ok || a.Primitive != b.Primitive || a.VarType != b.VarType {
			return false
		}
		if len(a.Indices) != len(b.Indices) {
			return false
		}
		for i := range a.Indices {
			if a.Indices[i] != b.Indices[i] {
				return false
			}
		}
		return true
	case *AnimationKeys:
		b, ok := b.(*AnimationKeys)
		if !ok || a.Name != b.Name || len(a.Frames) != len(b.Frames) {
			return false
		}
		for i := range a.Frames {
			if !matrixEqual(a.Frames[i], b.Frames[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// matrixEqual compares matrices by the bits of each element, so that NaN
// elements equal themselves.
func matrixEqual(a, b mgl32.Mat4) bool {
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			return false
		}
	}
	return true
}
