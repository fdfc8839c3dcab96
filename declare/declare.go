// The declare package is used to generate model block trees in a declarative
// style.
//
// Each function returns a new block whose counts are derived from the
// declared content. The easiest way to use this package is to import it
// directly into the current package:
//
//     import . "github.com/lwexport/mdlfile/declare"
//
// This allows the package's identifiers to be used directly without a
// qualifier.
package declare

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
)

// File declares the root FILE block of the given version.
func File(version int32, child *mdlfile.Block) *mdlfile.Block {
	return mdlfile.NewFile(version, child)
}

// Node declares a NODE block.
func Node(matrix mgl32.Mat4, children ...*mdlfile.Block) *mdlfile.Block {
	return mdlfile.NewBlock(&mdlfile.Node{Matrix: matrix}, children...)
}

// Mesh declares a MESH block.
func Mesh(matrix mgl32.Mat4, children ...*mdlfile.Block) *mdlfile.Block {
	return mdlfile.NewBlock(&mdlfile.Mesh{Matrix: matrix}, children...)
}

// Bone declares a BONE block.
func Bone(id int32, matrix mgl32.Mat4, children ...*mdlfile.Block) *mdlfile.Block {
	return mdlfile.NewBlock(&mdlfile.Bone{Matrix: matrix, ID: id}, children...)
}

// Surface declares a SURFACE block.
func Surface(children ...*mdlfile.Block) *mdlfile.Block {
	return mdlfile.NewBlock(&mdlfile.Surface{}, children...)
}

// Props declares a PROPERTIES block from alternating keys and values. A key
// without a value receives an empty value.
func Props(kv ...string) *mdlfile.Block {
	p := &mdlfile.Properties{Pairs: make([]mdlfile.Property, 0, (len(kv)+1)/2)}
	for i := 0; i < len(kv); i += 2 {
		pair := mdlfile.Property{Key: kv[i]}
		if i+1 < len(kv) {
			pair.Value = kv[i+1]
		}
		p.Pairs = append(p.Pairs, pair)
	}
	return mdlfile.NewBlock(p)
}

// Matrix declares a matrix from up to 16 numbers in storage order. Missing
// elements are zero. Any number type except for complex numbers may be
// given.
func Matrix(values ...interface{}) (m mgl32.Mat4) {
	for i := 0; i < len(values) && i < len(m); i++ {
		m[i] = normFloat32(values[i])
	}
	return m
}

// Vertices declares a VERTEXARRAY block of the given data type. The values
// are grouped by the number of elements per vertex of the data type; a
// trailing incomplete group is dropped.
//
// Byte vector data types produce unsigned bytes. Other data types produce
// floats. Any number type except for complex numbers may be given.
func Vertices(dataType mdlfile.DataType, values ...interface{}) *mdlfile.Block {
	elements := mdlfile.ElementsFor(dataType)
	n := len(values) / int(elements)
	values = values[:n*int(elements)]

	va := &mdlfile.VertexArray{
		Vertices: int32(n),
		DataType: dataType,
		Elements: elements,
	}
	if mdlfile.IsByteVector(dataType) {
		va.VarType = mdlfile.VarUnsignedByte
		data := make(mdlfile.Uint8Array, len(values))
		for i, v := range values {
			data[i] = normUint8(v)
		}
		va.Data = data
	} else {
		va.VarType = mdlfile.VarFloat
		data := make(mdlfile.Float32Array, len(values))
		for i, v := range values {
			data[i] = normFloat32(v)
		}
		va.Data = data
	}
	return mdlfile.NewBlock(va)
}

// Colors declares a VERTEXARRAY block of vertex colors, four bytes per
// vertex.
func Colors(values ...interface{}) *mdlfile.Block {
	return Vertices(mdlfile.DataColor, values...)
}

// Indices declares an INDICEARRAY block of triangles with unsigned short
// indices.
func Indices(values ...interface{}) *mdlfile.Block {
	ia := &mdlfile.IndiceArray{
		Primitive: mdlfile.PrimitiveTriangles,
		VarType:   mdlfile.VarUnsignedShort,
		Indices:   make([]uint32, len(values)),
	}
	for i, v := range values {
		ia.Indices[i] = normUint32(v)
	}
	return mdlfile.NewBlock(ia)
}

// Animation declares an ANIMATIONKEYS block with one matrix per frame.
func Animation(name string, frames ...mgl32.Mat4) *mdlfile.Block {
	return mdlfile.NewBlock(&mdlfile.AnimationKeys{Frames: frames, Name: name})
}
