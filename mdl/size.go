package mdl

import (
	"fmt"
	"math"

	"github.com/lwexport/mdlfile"
)

const (
	// Size of a block header: type code, child count and byte size.
	headerSize = 3 * 4
	// Size of a matrix of 16 floats.
	matrixSize = 16 * 4
)

// Size returns the byte size of a block payload, as stored in the block
// header. It excludes the header itself and any children. version is the
// format version of the file that contains the block.
//
// Size is always computed from the content of the payload.
func Size(p mdlfile.Payload, version int32) (int32, error) {
	var n int64
	switch p := p.(type) {
	case *mdlfile.File:
		n = 4
	case *mdlfile.Node, *mdlfile.Mesh:
		n = matrixSize
	case *mdlfile.Bone:
		n = matrixSize + 4
	case *mdlfile.Surface:
		n = 0
	case *mdlfile.Properties:
		n = 4
		for _, pair := range p.Pairs {
			n += int64(len(pair.Key)) + 1 + int64(len(pair.Value)) + 1
		}
	case *mdlfile.VertexArray:
		kind, err := mdlfile.ArrayKindFor(p.DataType, p.VarType)
		if err != nil {
			return 0, err
		}
		n = int64(p.Vertices)*int64(p.ElementsPerVertex())*int64(kind.Width()) + 4*4
	case *mdlfile.IndiceArray:
		n = int64(len(p.Indices))*2 + 3*4
	case *mdlfile.AnimationKeys:
		n = int64(len(p.Frames))*matrixSize + 4
		if version >= mdlfile.Version2 {
			if p.Name != "" {
				n += int64(len(p.Name)) + 1
			} else {
				// Empty names are accounted as two bytes, although only the
				// terminator is written.
				n += 2
			}
		}
	case nil:
		return 0, ErrNoPayload
	default:
		return 0, fmt.Errorf("unknown payload type %T", p)
	}
	if n > math.MaxInt32 {
		return 0, RangeError{Field: "byte_size", Index: -1, Value: n, Max: math.MaxInt32}
	}
	return int32(n), nil
}

// EncodedSize returns the total number of bytes that the block and its
// descendants occupy when encoded.
func EncodedSize(b *mdlfile.Block, version int32) (int64, error) {
	var total int64
	var err error
	mdlfile.Walk(b, func(b *mdlfile.Block, depth int) bool {
		if err != nil {
			return false
		}
		var n int32
		if n, err = Size(b.Payload, version); err != nil {
			return false
		}
		total += headerSize + int64(n)
		if b.Kind() == mdlfile.KindAnimationKeys && version >= mdlfile.Version2 && b.Payload.(*mdlfile.AnimationKeys).Name == "" {
			total--
		}
		return true
	})
	return total, err
}
