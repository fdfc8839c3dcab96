package mdlfile_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
)

func TestKind_String(t *testing.T) {
	names := map[mdlfile.Kind]string{
		mdlfile.KindInvalid:       "UNKNOWN",
		mdlfile.KindFile:          "FILE",
		mdlfile.KindNode:          "NODE",
		mdlfile.KindMesh:          "MESH",
		mdlfile.KindBone:          "BONE",
		mdlfile.KindVertexArray:   "VERTEXARRAY",
		mdlfile.KindIndiceArray:   "INDICEARRAY",
		mdlfile.KindProperties:    "PROPERTIES",
		mdlfile.KindAnimationKeys: "ANIMATIONKEYS",
		mdlfile.KindSurface:       "SURFACE",
		mdlfile.Kind(9):           "UNKNOWN",
	}
	for k, name := range names {
		if k.String() != name {
			t.Errorf("unexpected result from String (%d): %s", int32(k), k.String())
		}
	}
}

func TestKindFromString(t *testing.T) {
	for _, k := range mdlfile.Kinds {
		if !k.Valid() {
			t.Errorf("expected %s to be valid", k)
		}
		if f := mdlfile.KindFromString(k.String()); f != k {
			t.Errorf("unexpected result from KindFromString (%s): %d", k, int32(f))
		}
	}
	if k := mdlfile.KindFromString("UNKNOWN"); k != mdlfile.KindInvalid {
		t.Errorf("expected invalid kind from unknown name, got %d", int32(k))
	}
	if mdlfile.Kind(9).Valid() {
		t.Error("expected kind 9 to be invalid")
	}
}

func TestDataType(t *testing.T) {
	tests := []struct {
		t        mdlfile.DataType
		name     string
		elements int32
		bytes    bool
	}{
		{mdlfile.DataPosition, "POSITION", 3, false},
		{mdlfile.DataNormal, "NORMAL", 3, false},
		{mdlfile.DataTextureCoord, "TEXTURE_COORD", 2, false},
		{mdlfile.DataColor, "COLOR", 4, true},
		{mdlfile.DataTangent, "TANGENT", 3, false},
		{mdlfile.DataBinormal, "BINORMAL", 3, false},
		{mdlfile.DataBoneIndice, "BONEINDICE", 4, true},
		{mdlfile.DataBoneWeight, "BONEWEIGHT", 4, true},
	}
	for _, test := range tests {
		if test.t.String() != test.name {
			t.Errorf("unexpected result from String (%d): %s", int32(test.t), test.t)
		}
		if d := mdlfile.DataTypeFromString(test.name); d != test.t {
			t.Errorf("unexpected result from DataTypeFromString (%s): %d", test.name, int32(d))
		}
		if e := mdlfile.ElementsFor(test.t); e != test.elements {
			t.Errorf("unexpected result from ElementsFor (%s): %d", test.name, e)
		}
		if b := mdlfile.IsByteVector(test.t); b != test.bytes {
			t.Errorf("unexpected result from IsByteVector (%s): %t", test.name, b)
		}
	}
	if s := mdlfile.DataType(0).String(); s != "UNKNOWN" {
		t.Errorf("unexpected result from String (0): %s", s)
	}
	if s := mdlfile.DataType(42).String(); s != "UNKNOWN" {
		t.Errorf("unexpected result from String (42): %s", s)
	}
	if d := mdlfile.DataTypeFromString(""); d != 0 {
		t.Errorf("expected 0 from empty name, got %d", int32(d))
	}
}

func TestVarType(t *testing.T) {
	names := map[mdlfile.VarType]string{
		mdlfile.VarByte:          "BYTE",
		mdlfile.VarUnsignedByte:  "UNSIGNED_BYTE",
		mdlfile.VarShort:         "SHORT",
		mdlfile.VarUnsignedShort: "UNSIGNED_SHORT",
		mdlfile.VarHalf:          "HALF",
		mdlfile.VarInt:           "INT",
		mdlfile.VarUnsignedInt:   "UNSIGNED_INT",
		mdlfile.VarFloat:         "FLOAT",
		mdlfile.VarDouble:        "DOUBLE",
	}
	for v, name := range names {
		if v.String() != name {
			t.Errorf("unexpected result from String (%d): %s", int32(v), v)
		}
		if f := mdlfile.VarTypeFromString(name); f != v {
			t.Errorf("unexpected result from VarTypeFromString (%s): %d", name, int32(f))
		}
	}
	if s := mdlfile.VarType(10).String(); s != "UNKNOWN" {
		t.Errorf("unexpected result from String (10): %s", s)
	}
	if s := mdlfile.PrimitiveTriangles.String(); s != "TRIANGLES" {
		t.Errorf("unexpected result from String: %s", s)
	}
}

func TestArrayKindFor(t *testing.T) {
	tests := []struct {
		d    mdlfile.DataType
		v    mdlfile.VarType
		kind mdlfile.ArrayKind
	}{
		{mdlfile.DataPosition, mdlfile.VarFloat, mdlfile.ArrayFloat32},
		{mdlfile.DataNormal, mdlfile.VarUnsignedShort, mdlfile.ArrayUint16},
		{mdlfile.DataTangent, mdlfile.VarInt, mdlfile.ArrayInt32},
		{mdlfile.DataTextureCoord, mdlfile.VarUnsignedByte, mdlfile.ArrayUint8},
		// Byte vectors ignore the variable type.
		{mdlfile.DataColor, mdlfile.VarFloat, mdlfile.ArrayUint8},
		{mdlfile.DataBoneWeight, mdlfile.VarDouble, mdlfile.ArrayUint8},
	}
	for _, test := range tests {
		kind, err := mdlfile.ArrayKindFor(test.d, test.v)
		if err != nil {
			t.Errorf("%s/%s: unexpected error: %s", test.d, test.v, err)
			continue
		}
		if kind != test.kind {
			t.Errorf("%s/%s: expected %s, got %s", test.d, test.v, test.kind, kind)
		}
	}

	for _, v := range []mdlfile.VarType{mdlfile.VarDouble, mdlfile.VarHalf, mdlfile.VarByte, 0} {
		if _, err := mdlfile.ArrayKindFor(mdlfile.DataPosition, v); !errors.Is(err, mdlfile.ErrUnknownVarType) {
			t.Errorf("%s: expected ErrUnknownVarType, got %v", v, err)
		}
	}
}

func TestNewPayload(t *testing.T) {
	for _, k := range mdlfile.Kinds {
		p := mdlfile.NewPayload(k)
		if p == nil {
			t.Errorf("expected payload for %s", k)
			continue
		}
		if p.Kind() != k {
			t.Errorf("payload of %s has kind %s", k, p.Kind())
		}
	}
	if p := mdlfile.NewPayload(mdlfile.KindInvalid); p != nil {
		t.Errorf("expected nil payload for invalid kind, got %T", p)
	}
	if p := mdlfile.NewPayload(mdlfile.Kind(9)); p != nil {
		t.Errorf("expected nil payload for kind 9, got %T", p)
	}
}

func TestPayloadCopy(t *testing.T) {
	props := &mdlfile.Properties{Pairs: []mdlfile.Property{{Key: "name", Value: "Cube"}}}
	pc := props.Copy().(*mdlfile.Properties)
	pc.Pairs[0].Value = "Sphere"
	if props.Pairs[0].Value != "Cube" {
		t.Error("Properties copy shares pairs with original")
	}

	va := &mdlfile.VertexArray{
		Vertices: 1,
		DataType: mdlfile.DataPosition,
		VarType:  mdlfile.VarFloat,
		Data:     mdlfile.Float32Array{1, 2, 3},
	}
	vc := va.Copy().(*mdlfile.VertexArray)
	vc.Data.(mdlfile.Float32Array)[0] = 9
	if va.Data.(mdlfile.Float32Array)[0] != 1 {
		t.Error("VertexArray copy shares data with original")
	}

	ia := &mdlfile.IndiceArray{Primitive: mdlfile.PrimitiveTriangles, Indices: []uint32{0, 1, 2}}
	ic := ia.Copy().(*mdlfile.IndiceArray)
	ic.Indices[0] = 7
	if ia.Indices[0] != 0 {
		t.Error("IndiceArray copy shares indices with original")
	}
	if ic.Count() != 3 {
		t.Errorf("unexpected result from Count: %d", ic.Count())
	}

	ak := &mdlfile.AnimationKeys{Name: "idle", Frames: []mgl32.Mat4{mgl32.Ident4()}}
	ac := ak.Copy().(*mdlfile.AnimationKeys)
	ac.Frames[0][0] = 5
	if ak.Frames[0][0] != 1 {
		t.Error("AnimationKeys copy shares frames with original")
	}
	if ac.Name != "idle" {
		t.Errorf("unexpected name in copy: %q", ac.Name)
	}

	bone := &mdlfile.Bone{ID: 3, Matrix: mgl32.Translate3D(1, 2, 3)}
	if bc := bone.Copy().(*mdlfile.Bone); *bc != *bone || bc == bone {
		t.Error("unexpected Bone copy")
	}
}

func TestProperties(t *testing.T) {
	var p mdlfile.Properties
	if _, ok := p.Get("name"); ok {
		t.Error("expected missing key")
	}
	p.Set("name", "Cube")
	p.Set("collision", "1")
	p.Set("name", "Box")
	if len(p.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(p.Pairs))
	}
	if p.Pairs[0].Key != "name" || p.Pairs[0].Value != "Box" {
		t.Errorf("unexpected first pair: %+v", p.Pairs[0])
	}
	if v, ok := p.Get("collision"); !ok || v != "1" {
		t.Errorf("unexpected result from Get: %q, %t", v, ok)
	}
}

func TestElementsPerVertex(t *testing.T) {
	tests := []struct {
		p    mdlfile.VertexArray
		want int32
	}{
		{mdlfile.VertexArray{DataType: mdlfile.DataPosition}, 3},
		{mdlfile.VertexArray{DataType: mdlfile.DataTextureCoord}, 2},
		{mdlfile.VertexArray{DataType: mdlfile.DataTextureCoord, Elements: 3}, 3},
		{mdlfile.VertexArray{DataType: mdlfile.DataColor, Elements: 3}, 4},
		{mdlfile.VertexArray{DataType: mdlfile.DataBoneIndice}, 4},
	}
	for _, test := range tests {
		if n := test.p.ElementsPerVertex(); n != test.want {
			t.Errorf("%s (elements %d): expected %d, got %d", test.p.DataType, test.p.Elements, test.want, n)
		}
	}
}

func TestArraysEqual(t *testing.T) {
	tests := []struct {
		a, b  mdlfile.Array
		equal bool
	}{
		{nil, nil, true},
		{nil, mdlfile.Float32Array{}, true},
		{mdlfile.Uint8Array{}, mdlfile.Float32Array{}, true},
		{mdlfile.Float32Array{1, 2}, mdlfile.Float32Array{1, 2}, true},
		{mdlfile.Float32Array{1, 2}, mdlfile.Float32Array{1, 3}, false},
		{mdlfile.Float32Array{1}, mdlfile.Float32Array{1, 2}, false},
		{mdlfile.Uint8Array{1}, mdlfile.Uint16Array{1}, false},
		{mdlfile.Int32Array{-1}, mdlfile.Int32Array{-1}, true},
		{nil, mdlfile.Uint16Array{0}, false},
	}
	for i, test := range tests {
		if eq := mdlfile.ArraysEqual(test.a, test.b); eq != test.equal {
			t.Errorf("test %d: expected %t, got %t", i, test.equal, eq)
		}
	}

	a := mdlfile.NewArray(mdlfile.ArrayUint16, 3)
	if a.ArrayKind() != mdlfile.ArrayUint16 || a.Len() != 3 {
		t.Errorf("unexpected result from NewArray: %s, %d", a.ArrayKind(), a.Len())
	}
	if w := mdlfile.ArrayFloat32.Width(); w != 4 {
		t.Errorf("unexpected width of float32: %d", w)
	}
}
