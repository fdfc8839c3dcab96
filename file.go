// The mdlfile package handles the in-memory representation of Leadwerks model
// (MDL) files.
//
// An MDL file is a tree of blocks. The root block is always a FILE block
// carrying the format version, with a single child that holds the rest of the
// model. Each Block has a Payload, whose concrete type determines the kind of
// the block, and a list of child blocks.
//
// Block trees can be decoded from and encoded to the binary format with the
// "mdl" sub-package, and rendered to and parsed from an XML debugging format
// with the "mdlx" sub-package. Trees can also be created manually. The
// easiest way to do this is through the "declare" sub-package.
package mdlfile

import (
	"fmt"
)

// Block represents a single block in a model tree.
type Block struct {
	// Payload holds the fixed fields of the block. The type of the payload
	// determines the kind of the block.
	Payload Payload

	// Children contains the child blocks, in order.
	Children []*Block

	// Diag holds information about how the block was stored. It is set only
	// by decoders, and is ignored by encoders and Equal.
	Diag *Diagnostics
}

// Diagnostics describes a block as it was found in a decoded stream.
type Diagnostics struct {
	// Offset is the byte offset of the block header.
	Offset int64

	// ChildCount is the stored number of children.
	ChildCount int32

	// Size is the stored byte size of the payload.
	Size int32

	// Elements is the stored elements count of a vertex array, before any
	// override was applied.
	Elements int32
}

// NewBlock returns a block with the given payload and children.
func NewBlock(payload Payload, children ...*Block) *Block {
	return &Block{Payload: payload, Children: children}
}

// NewFile returns a FILE block of the given version containing child.
func NewFile(version int32, child *Block) *Block {
	b := &Block{Payload: &File{Version: version}}
	if child != nil {
		b.Children = []*Block{child}
	}
	return b
}

// Kind returns the kind of the block, as determined by its payload. Returns
// KindInvalid if the block has no payload.
func (b *Block) Kind() Kind {
	if b == nil || b.Payload == nil {
		return KindInvalid
	}
	return b.Payload.Kind()
}

// Version returns the format version of a FILE block, and whether the block
// is a FILE block.
func (b *Block) Version() (version int32, ok bool) {
	if b == nil {
		return 0, false
	}
	f, ok := b.Payload.(*File)
	if !ok {
		return 0, false
	}
	return f.Version, true
}

// AddChild appends child to the children of the block.
func (b *Block) AddChild(child *Block) {
	b.Children = append(b.Children, child)
}

// FindChild returns the first child of the given kind, or nil.
func (b *Block) FindChild(kind Kind) *Block {
	for _, child := range b.Children {
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// Properties returns the payload of the first PROPERTIES child, or nil.
func (b *Block) Properties() *Properties {
	if child := b.FindChild(KindProperties); child != nil {
		p, _ := child.Payload.(*Properties)
		return p
	}
	return nil
}

// Copy returns a deep copy of the block and its descendants. Diagnostics are
// not copied.
func (b *Block) Copy() *Block {
	if b == nil {
		return nil
	}
	c := &Block{}
	if b.Payload != nil {
		c.Payload = b.Payload.Copy()
	}
	if b.Children != nil {
		c.Children = make([]*Block, len(b.Children))
		for i, child := range b.Children {
			c.Children[i] = child.Copy()
		}
	}
	return c
}

// String implements the fmt.Stringer interface by returning the kind of the
// block and its number of children.
func (b *Block) String() string {
	return fmt.Sprintf("%s(%d)", b.Kind(), len(b.Children))
}

// Walk calls fn for b and each of its descendants, depth-first, in order.
// depth is 0 for b. If fn returns false, the descendants of the block are
// skipped.
func Walk(b *Block, fn func(b *Block, depth int) bool) {
	walk(b, 0, fn)
}

func walk(b *Block, depth int, fn func(b *Block, depth int) bool) {
	if b == nil {
		return
	}
	if !fn(b, depth) {
		return
	}
	for _, child := range b.Children {
		walk(child, depth+1, fn)
	}
}

// Equal returns whether two trees have the same payloads and structure.
// Diagnostics are ignored. Floats are compared by their bits, so a NaN equals
// itself and 0 differs from -0.
func Equal(a, b *Block) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	if !payloadEqual(a.Payload, b.Payload) {
		return false
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}
