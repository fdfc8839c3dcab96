package mdl

import (
	"errors"
	"io"
	"math"

	"github.com/anaminus/parse"
	"github.com/lwexport/mdlfile"
)

// Encoder encodes a block tree into the binary format.
type Encoder struct {
	// Version, if non-zero, overrides the version of the FILE block.
	Version int32
}

// Encode writes root to w. root must be a FILE block with exactly one child.
//
// Encoding stops at the first error. Bytes already written to w are not a
// valid model; WriteFile can be used to publish a file only on success.
func (e Encoder) Encode(w io.Writer, root *mdlfile.Block) (err error) {
	if w == nil {
		return errors.New("nil writer")
	}
	if root == nil {
		return errors.New("nil root")
	}

	version, ok := root.Version()
	if !ok {
		return BlockError{Kind: root.Kind(), Offset: -1, Cause: ErrNotFile}
	}
	if e.Version != 0 {
		version = e.Version
	}
	if version != mdlfile.Version1 && version != mdlfile.Version2 {
		return BlockError{Kind: mdlfile.KindFile, Offset: -1, Cause: ErrUnsupportedVersion(version)}
	}
	if len(root.Children) != 1 {
		return BlockError{Kind: mdlfile.KindFile, Offset: -1, Cause: ErrFileChildren}
	}

	enc := &encoder{
		fw:      parse.NewBinaryWriter(w),
		version: version,
	}

	// FILE header: type code, child count, size, version.
	if writeInt32s(enc.fw, int32(mdlfile.KindFile), 1, 4, version) {
		return enc.error(root, nil)
	}
	if err := enc.encodeBlock(root.Children[0], []int{0}); err != nil {
		return err
	}
	_, err = enc.fw.End()
	return err
}

// EncodeBlock writes a single block and its descendants to w, without a FILE
// header. The version of the encoder determines the layout of animation keys;
// if it is zero, CurrentVersion is used.
func (e Encoder) EncodeBlock(w io.Writer, b *mdlfile.Block) (err error) {
	if w == nil {
		return errors.New("nil writer")
	}
	version := e.Version
	if version == 0 {
		version = mdlfile.CurrentVersion
	}
	if version != mdlfile.Version1 && version != mdlfile.Version2 {
		return BlockError{Kind: b.Kind(), Offset: -1, Cause: ErrUnsupportedVersion(version)}
	}
	enc := &encoder{
		fw:      parse.NewBinaryWriter(w),
		version: version,
	}
	if err := enc.encodeBlock(b, nil); err != nil {
		return err
	}
	_, err = enc.fw.End()
	return err
}

type encoder struct {
	fw      *parse.BinaryWriter
	version int32
}

// error returns the error of the writer as a BlockError for b.
func (enc *encoder) error(b *mdlfile.Block, path []int) error {
	err := enc.fw.Err()
	if err == nil {
		return nil
	}
	p := make([]int, len(path))
	copy(p, path)
	return BlockError{Kind: b.Kind(), Path: p, Offset: -1, Cause: err}
}

func (enc *encoder) fail(b *mdlfile.Block, path []int, err error) error {
	enc.fw.Add(0, err)
	return enc.error(b, path)
}

func (enc *encoder) encodeBlock(b *mdlfile.Block, path []int) error {
	if b == nil || b.Payload == nil {
		return enc.fail(b, path, ErrNoPayload)
	}
	if b.Kind() == mdlfile.KindFile {
		return enc.fail(b, path, ErrNestedFile)
	}
	if err := enc.validate(b.Payload); err != nil {
		return enc.fail(b, path, err)
	}

	size, err := Size(b.Payload, enc.version)
	if err != nil {
		return enc.fail(b, path, err)
	}
	if len(b.Children) > math.MaxInt32 {
		return enc.fail(b, path, RangeError{Field: "child_count", Index: -1, Value: int64(len(b.Children)), Max: math.MaxInt32})
	}

	if writeInt32s(enc.fw, int32(b.Kind()), int32(len(b.Children)), size) {
		return enc.error(b, path)
	}
	if enc.encodePayload(b.Payload) {
		return enc.error(b, path)
	}

	for i, child := range b.Children {
		if err := enc.encodeBlock(child, append(path, i)); err != nil {
			return err
		}
	}
	return nil
}

// validate checks that the payload can be represented in the format.
func (enc *encoder) validate(p mdlfile.Payload) error {
	switch p := p.(type) {
	case *mdlfile.Properties:
		for _, pair := range p.Pairs {
			if err := checkASCII(pair.Key); err != nil {
				return err
			}
			if err := checkASCII(pair.Value); err != nil {
				return err
			}
		}
	case *mdlfile.VertexArray:
		kind, err := mdlfile.ArrayKindFor(p.DataType, p.VarType)
		if err != nil {
			return err
		}
		if p.Vertices < 0 {
			return RangeError{Field: "number_of_vertices", Index: -1, Value: int64(p.Vertices), Max: math.MaxInt32}
		}
		if n := mdlfile.ArrayLen(p.Data); n > 0 && p.Data.ArrayKind() != kind {
			return ErrArrayKind
		}
		if int64(mdlfile.ArrayLen(p.Data)) != int64(p.Vertices)*int64(p.ElementsPerVertex()) {
			return ErrDataLength
		}
	case *mdlfile.IndiceArray:
		for i, v := range p.Indices {
			if v > math.MaxUint16 {
				return RangeError{Field: "indices", Index: i, Value: int64(v), Max: math.MaxUint16}
			}
		}
	case *mdlfile.AnimationKeys:
		if enc.version >= mdlfile.Version2 {
			if err := checkASCII(p.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (enc *encoder) encodePayload(p mdlfile.Payload) (failed bool) {
	fw := enc.fw
	switch p := p.(type) {
	case *mdlfile.Node:
		return writeMatrix(fw, p.Matrix)

	case *mdlfile.Mesh:
		return writeMatrix(fw, p.Matrix)

	case *mdlfile.Bone:
		if writeMatrix(fw, p.Matrix) {
			return true
		}
		return writeInt32(fw, p.ID)

	case *mdlfile.Surface:
		return false

	case *mdlfile.Properties:
		if writeInt32(fw, int32(len(p.Pairs))) {
			return true
		}
		for _, pair := range p.Pairs {
			if writeCString(fw, pair.Key) {
				return true
			}
			if writeCString(fw, pair.Value) {
				return true
			}
		}
		return false

	case *mdlfile.VertexArray:
		if writeInt32s(fw,
			p.Vertices,
			int32(p.DataType),
			int32(p.VarType),
			p.ElementsPerVertex(),
		) {
			return true
		}
		return writeArray(fw, p.Data)

	case *mdlfile.IndiceArray:
		if writeInt32s(fw,
			int32(len(p.Indices)),
			int32(p.Primitive),
			int32(p.VarType),
		) {
			return true
		}
		indices := make(mdlfile.Uint16Array, len(p.Indices))
		for i, v := range p.Indices {
			indices[i] = uint16(v)
		}
		return writeArray(fw, indices)

	case *mdlfile.AnimationKeys:
		if writeInt32(fw, int32(len(p.Frames))) {
			return true
		}
		for _, frame := range p.Frames {
			if writeMatrix(fw, frame) {
				return true
			}
		}
		if enc.version >= mdlfile.Version2 {
			return writeCString(fw, p.Name)
		}
		return false
	}
	fw.Add(0, ErrNoPayload)
	return true
}
