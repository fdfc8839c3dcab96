package mdl

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/anaminus/parse"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/errors"
)

// Decoder decodes a stream of bytes into a block tree.
type Decoder struct {
	// If StrictSizes is true, a stored byte size that differs from the
	// computed size is an error. Otherwise, it is a warning.
	StrictSizes bool

	// If AllowTrailing is true, data following the root block is ignored
	// without a warning.
	AllowTrailing bool
}

// Decode reads data from r and decodes it into a tree rooted at a FILE block.
//
// Non-fatal problems are returned as warn. Any error aborts the decoding, in
// which case root is nil.
func (d Decoder) Decode(r io.Reader) (root *mdlfile.Block, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}

	br := bufio.NewReader(r)
	dec := &decoder{
		fr:     parse.NewBinaryReader(br),
		strict: d.StrictSizes,
	}
	root, err = dec.decodeRoot()
	if err != nil {
		return nil, dec.warn.Return(), err
	}

	if !d.AllowTrailing {
		if _, err := br.Peek(1); err == nil {
			dec.warn = append(dec.warn, DataError{Offset: dec.fr.N(), Cause: ErrTrailingData})
		}
	}
	return root, dec.warn.Return(), nil
}

// DataError wraps a warning with the byte offset where it was detected.
type DataError struct {
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	return "offset " + strconv.FormatInt(err.Offset, 10) + ": " + err.Cause.Error()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

type decoder struct {
	fr      *parse.BinaryReader
	strict  bool
	version int32
	warn    errors.List
}

// header is the common prefix of each block.
type header struct {
	offset int64
	code   int32
	count  int32
	size   int32
}

func (dec *decoder) readHeader(h *header) (failed bool) {
	h.offset = dec.fr.N()
	if readInt32(dec.fr, &h.code) {
		return true
	}
	if readInt32(dec.fr, &h.count) {
		return true
	}
	return readInt32(dec.fr, &h.size)
}

func (dec *decoder) decodeRoot() (*mdlfile.Block, error) {
	var h header
	if dec.readHeader(&h) {
		return nil, streamError(dec.fr)
	}
	switch kind := mdlfile.Kind(h.code); {
	case kind == mdlfile.KindFile:
	case kind.Valid():
		return nil, BlockError{Kind: kind, Offset: h.offset, Cause: ErrNotFile}
	default:
		return nil, UnknownBlockTypeError{Code: h.code, Offset: h.offset}
	}

	file := &mdlfile.File{}
	if readInt32(dec.fr, &file.Version) {
		return nil, streamError(dec.fr)
	}
	if file.Version != mdlfile.Version1 && file.Version != mdlfile.Version2 {
		return nil, BlockError{Kind: mdlfile.KindFile, Offset: h.offset, Cause: ErrUnsupportedVersion(file.Version)}
	}
	dec.version = file.Version

	root := &mdlfile.Block{
		Payload: file,
		Diag: &mdlfile.Diagnostics{
			Offset:     h.offset,
			ChildCount: h.count,
			Size:       h.size,
		},
	}
	if err := dec.checkSize(root); err != nil {
		return nil, err
	}
	if h.count != 1 {
		dec.warn = append(dec.warn, BlockError{Kind: mdlfile.KindFile, Offset: h.offset, Cause: ErrFileChildren})
	}
	if err := dec.decodeChildren(root, []int{}); err != nil {
		return nil, err
	}
	return root, nil
}

func (dec *decoder) decodeChildren(parent *mdlfile.Block, path []int) error {
	count := parent.Diag.ChildCount
	if count < 0 {
		return BlockError{Kind: parent.Kind(), Path: path, Offset: parent.Diag.Offset, Cause: RangeError{Field: "child_count", Index: -1, Value: int64(count), Max: 1<<31 - 1}}
	}
	for i := int32(0); i < count; i++ {
		child, err := dec.decodeBlock(append(path, int(i)))
		if err != nil {
			return err
		}
		parent.Children = append(parent.Children, child)
	}
	return nil
}

func (dec *decoder) decodeBlock(path []int) (*mdlfile.Block, error) {
	var h header
	if dec.readHeader(&h) {
		return nil, streamError(dec.fr)
	}

	kind := mdlfile.Kind(h.code)
	payload := mdlfile.NewPayload(kind)
	if payload == nil || kind == mdlfile.KindFile {
		return nil, UnknownBlockTypeError{Code: h.code, Offset: h.offset}
	}

	b := &mdlfile.Block{
		Payload: payload,
		Diag: &mdlfile.Diagnostics{
			Offset:     h.offset,
			ChildCount: h.count,
			Size:       h.size,
		},
	}

	if err := dec.decodePayload(b); err != nil {
		p := make([]int, len(path))
		copy(p, path)
		return nil, BlockError{Kind: kind, Path: p, Offset: h.offset, Cause: err}
	}
	if err := dec.checkSize(b); err != nil {
		return nil, err
	}
	if err := dec.decodeChildren(b, path); err != nil {
		return nil, err
	}
	return b, nil
}

// checkSize compares the stored size of b with its computed size.
func (dec *decoder) checkSize(b *mdlfile.Block) error {
	size, err := Size(b.Payload, dec.version)
	if err != nil {
		return BlockError{Kind: b.Kind(), Offset: b.Diag.Offset, Cause: err}
	}
	if size == b.Diag.Size {
		return nil
	}
	mismatch := SizeMismatchError{
		Kind:     b.Kind(),
		Offset:   b.Diag.Offset,
		Stored:   b.Diag.Size,
		Computed: size,
	}
	if dec.strict {
		return mismatch
	}
	dec.warn = append(dec.warn, mismatch)
	return nil
}

func (dec *decoder) decodePayload(b *mdlfile.Block) error {
	fr := dec.fr
	switch p := b.Payload.(type) {
	case *mdlfile.Node:
		if readMatrix(fr, &p.Matrix) {
			return streamError(fr)
		}

	case *mdlfile.Mesh:
		if readMatrix(fr, &p.Matrix) {
			return streamError(fr)
		}

	case *mdlfile.Bone:
		if readMatrix(fr, &p.Matrix) {
			return streamError(fr)
		}
		if readInt32(fr, &p.ID) {
			return streamError(fr)
		}

	case *mdlfile.Surface:

	case *mdlfile.Properties:
		var count int32
		if readInt32(fr, &count) {
			return streamError(fr)
		}
		if count < 0 {
			return RangeError{Field: "count", Index: -1, Value: int64(count), Max: 1<<31 - 1}
		}
		for i := int32(0); i < count; i++ {
			var pair mdlfile.Property
			if readCString(fr, &pair.Key) {
				return streamError(fr)
			}
			if readCString(fr, &pair.Value) {
				return streamError(fr)
			}
			p.Pairs = append(p.Pairs, pair)
		}

	case *mdlfile.VertexArray:
		var dataType, varType int32
		if readInt32(fr, &p.Vertices) {
			return streamError(fr)
		}
		if readInt32(fr, &dataType) {
			return streamError(fr)
		}
		if readInt32(fr, &varType) {
			return streamError(fr)
		}
		if readInt32(fr, &b.Diag.Elements) {
			return streamError(fr)
		}
		p.DataType = mdlfile.DataType(dataType)
		p.VarType = mdlfile.VarType(varType)
		p.Elements = b.Diag.Elements
		if mdlfile.IsByteVector(p.DataType) {
			// Byte vectors are always four bytes per vertex; older encoders
			// did not always store a consistent count.
			p.Elements = 4
			if b.Diag.Elements != 4 {
				dec.warn = append(dec.warn, BlockError{
					Kind:   mdlfile.KindVertexArray,
					Offset: b.Diag.Offset,
					Cause:  ErrElementsOverride,
				})
			}
		}
		if p.Vertices < 0 {
			return RangeError{Field: "number_of_vertices", Index: -1, Value: int64(p.Vertices), Max: math.MaxInt32}
		}
		if p.Elements <= 0 {
			// Zero means the default count in the model, which the stored
			// data would not match.
			return RangeError{Field: "elements_count", Index: -1, Value: int64(p.Elements), Max: math.MaxInt32}
		}
		kind, err := mdlfile.ArrayKindFor(p.DataType, p.VarType)
		if err != nil {
			return err
		}
		count := int64(p.Vertices) * int64(p.Elements)
		if count > maxArrayBytes/int64(kind.Width()) {
			return RangeError{Field: "number_of_vertices", Index: -1, Value: count, Max: maxArrayBytes / int64(kind.Width())}
		}
		data, failed := readArray(fr, kind, int(count))
		if failed {
			return streamError(fr)
		}
		p.Data = data

	case *mdlfile.IndiceArray:
		var count, primitive, varType int32
		if readInt32(fr, &count) {
			return streamError(fr)
		}
		if readInt32(fr, &primitive) {
			return streamError(fr)
		}
		if readInt32(fr, &varType) {
			return streamError(fr)
		}
		if count < 0 {
			return RangeError{Field: "number_of_indexes", Index: -1, Value: int64(count), Max: 1<<31 - 1}
		}
		p.Primitive = mdlfile.Primitive(primitive)
		p.VarType = mdlfile.VarType(varType)
		data, failed := readArray(fr, mdlfile.ArrayUint16, int(count))
		if failed {
			return streamError(fr)
		}
		p.Indices = make([]uint32, count)
		for i, v := range data.(mdlfile.Uint16Array) {
			p.Indices[i] = uint32(v)
		}

	case *mdlfile.AnimationKeys:
		var count int32
		if readInt32(fr, &count) {
			return streamError(fr)
		}
		if count < 0 {
			return RangeError{Field: "number_of_frames", Index: -1, Value: int64(count), Max: 1<<31 - 1}
		}
		for i := int32(0); i < count; i++ {
			var frame mgl32.Mat4
			if readMatrix(fr, &frame) {
				return streamError(fr)
			}
			p.Frames = append(p.Frames, frame)
		}
		if dec.version >= mdlfile.Version2 {
			if readCString(fr, &p.Name) {
				return streamError(fr)
			}
		}
	}
	return nil
}
