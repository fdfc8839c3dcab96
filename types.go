package mdlfile

import (
	"errors"
	"fmt"
)

// Version1 and Version2 are the known format versions. Version 2 adds a name
// to animation keys.
const (
	Version1 int32 = 1
	Version2 int32 = 2

	CurrentVersion = Version2
)

// Kind identifies the kind of a block. The value is the type code stored in
// the block header.
type Kind int32

const (
	KindInvalid       Kind = 0
	KindFile          Kind = 1
	KindNode          Kind = 2
	KindMesh          Kind = 3
	KindBone          Kind = 4
	KindVertexArray   Kind = 5
	KindIndiceArray   Kind = 6
	KindProperties    Kind = 7
	KindAnimationKeys Kind = 8
	KindSurface       Kind = 10
)

// Kinds lists every valid Kind.
var Kinds = []Kind{
	KindFile,
	KindNode,
	KindMesh,
	KindBone,
	KindVertexArray,
	KindIndiceArray,
	KindProperties,
	KindAnimationKeys,
	KindSurface,
}

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "FILE"
	case KindNode:
		return "NODE"
	case KindMesh:
		return "MESH"
	case KindBone:
		return "BONE"
	case KindVertexArray:
		return "VERTEXARRAY"
	case KindIndiceArray:
		return "INDICEARRAY"
	case KindProperties:
		return "PROPERTIES"
	case KindAnimationKeys:
		return "ANIMATIONKEYS"
	case KindSurface:
		return "SURFACE"
	}
	return "UNKNOWN"
}

// Valid returns whether the kind is a known block kind.
func (k Kind) Valid() bool {
	return k.String() != "UNKNOWN"
}

// KindFromString returns the Kind with the given name, or KindInvalid.
func KindFromString(s string) Kind {
	for _, k := range Kinds {
		if k.String() == s {
			return k
		}
	}
	return KindInvalid
}

// DataType indicates what a vertex array holds.
type DataType int32

const (
	DataPosition     DataType = 1
	DataNormal       DataType = 2
	DataTextureCoord DataType = 3
	DataColor        DataType = 4
	DataTangent      DataType = 5
	DataBinormal     DataType = 6
	DataBoneIndice   DataType = 7
	DataBoneWeight   DataType = 8
)

var dataTypeNames = [...]string{
	DataPosition:     "POSITION",
	DataNormal:       "NORMAL",
	DataTextureCoord: "TEXTURE_COORD",
	DataColor:        "COLOR",
	DataTangent:      "TANGENT",
	DataBinormal:     "BINORMAL",
	DataBoneIndice:   "BONEINDICE",
	DataBoneWeight:   "BONEWEIGHT",
}

func (t DataType) String() string {
	if t <= 0 || int(t) >= len(dataTypeNames) {
		return "UNKNOWN"
	}
	return dataTypeNames[t]
}

// DataTypeFromString returns the DataType with the given name, or 0.
func DataTypeFromString(s string) DataType {
	for i, name := range dataTypeNames {
		if name != "" && name == s {
			return DataType(i)
		}
	}
	return 0
}

// IsByteVector returns whether vertex data of the type is always stored as
// four unsigned bytes per vertex, regardless of the stored variable type and
// elements count.
func IsByteVector(t DataType) bool {
	switch t {
	case DataColor, DataBoneIndice, DataBoneWeight:
		return true
	}
	return false
}

// ElementsFor returns the number of elements per vertex for the data type.
func ElementsFor(t DataType) int32 {
	switch {
	case t == DataTextureCoord:
		return 2
	case IsByteVector(t):
		return 4
	}
	return 3
}

// VarType indicates the numeric type of array elements.
type VarType int32

const (
	VarByte          VarType = 1
	VarUnsignedByte  VarType = 2
	VarShort         VarType = 3
	VarUnsignedShort VarType = 4
	VarHalf          VarType = 5
	VarInt           VarType = 6
	VarUnsignedInt   VarType = 7
	VarFloat         VarType = 8
	VarDouble        VarType = 9
)

var varTypeNames = [...]string{
	VarByte:          "BYTE",
	VarUnsignedByte:  "UNSIGNED_BYTE",
	VarShort:         "SHORT",
	VarUnsignedShort: "UNSIGNED_SHORT",
	VarHalf:          "HALF",
	VarInt:           "INT",
	VarUnsignedInt:   "UNSIGNED_INT",
	VarFloat:         "FLOAT",
	VarDouble:        "DOUBLE",
}

func (t VarType) String() string {
	if t <= 0 || int(t) >= len(varTypeNames) {
		return "UNKNOWN"
	}
	return varTypeNames[t]
}

// VarTypeFromString returns the VarType with the given name, or 0.
func VarTypeFromString(s string) VarType {
	for i, name := range varTypeNames {
		if name != "" && name == s {
			return VarType(i)
		}
	}
	return 0
}

// Primitive indicates how indices are assembled into primitives.
type Primitive int32

const (
	PrimitiveTriangles Primitive = 7
)

func (p Primitive) String() string {
	if p == PrimitiveTriangles {
		return "TRIANGLES"
	}
	return "UNKNOWN"
}

// ErrUnknownVarType indicates a variable type that has no wire width.
var ErrUnknownVarType = errors.New("unknown variable type")

// ArrayKindFor returns the kind of array that holds vertex data of the given
// data and variable types. Byte vectors are always ArrayUint8.
func ArrayKindFor(d DataType, v VarType) (ArrayKind, error) {
	if IsByteVector(d) {
		return ArrayUint8, nil
	}
	switch v {
	case VarFloat:
		return ArrayFloat32, nil
	case VarUnsignedByte:
		return ArrayUint8, nil
	case VarUnsignedShort:
		return ArrayUint16, nil
	case VarInt:
		return ArrayInt32, nil
	}
	return ArrayInvalid, fmt.Errorf("%w %s (%d)", ErrUnknownVarType, v, int32(v))
}
