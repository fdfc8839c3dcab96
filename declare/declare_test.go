package declare_test

import (
	"fmt"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	. "github.com/lwexport/mdlfile/declare"
)

func Example() {
	root := File(2,
		Node(mgl32.Ident4(),
			Props("name", "Cube"),
			Mesh(mgl32.Ident4(),
				Surface(
					Props("material", "brick.mat"),
					Vertices(mdlfile.DataPosition, 0, 0, 0, 1, 0, 0, 0, 1, 0),
					Colors(255, 0, 0, 255, 0, 255, 0, 255, 0, 0, 255, 255),
					Indices(0, 1, 2),
				),
			),
		),
	)
	mdlfile.Walk(root, func(b *mdlfile.Block, depth int) bool {
		fmt.Printf("%*s%s\n", depth*2, "", b)
		return true
	})
	// Output:
	// FILE(1)
	//   NODE(2)
	//     PROPERTIES(0)
	//     MESH(1)
	//       SURFACE(4)
	//         PROPERTIES(0)
	//         VERTEXARRAY(0)
	//         VERTEXARRAY(0)
	//         INDICEARRAY(0)
}

func TestVertices(t *testing.T) {
	b := Vertices(mdlfile.DataTextureCoord, 0, 0.5, 1, 1, 0.25)
	va := b.Payload.(*mdlfile.VertexArray)
	if va.Vertices != 2 {
		t.Errorf("expected 2 vertices, got %d", va.Vertices)
	}
	if va.VarType != mdlfile.VarFloat {
		t.Errorf("expected FLOAT, got %s", va.VarType)
	}
	data, ok := va.Data.(mdlfile.Float32Array)
	if !ok || len(data) != 4 || data[1] != 0.5 {
		t.Errorf("unexpected data: %v", va.Data)
	}

	b = Colors(uint8(1), 2, 3, 4.0)
	va = b.Payload.(*mdlfile.VertexArray)
	if va.Vertices != 1 || va.VarType != mdlfile.VarUnsignedByte || va.ElementsPerVertex() != 4 {
		t.Errorf("unexpected color array: %+v", va)
	}
	if bytes, ok := va.Data.(mdlfile.Uint8Array); !ok || string(bytes) != "\x01\x02\x03\x04" {
		t.Errorf("unexpected data: %v", va.Data)
	}
}

func TestProps(t *testing.T) {
	p := Props("a", "1", "b").Payload.(*mdlfile.Properties)
	if len(p.Pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(p.Pairs))
	}
	if v, ok := p.Get("b"); !ok || v != "" {
		t.Errorf("expected empty value for b, got %q (%t)", v, ok)
	}
}

func TestMatrix(t *testing.T) {
	m := Matrix(1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1)
	if m != mgl32.Ident4() {
		t.Errorf("expected identity, got %v", m)
	}
	if Matrix(2) != (mgl32.Mat4{2}) {
		t.Error("expected missing elements to be zero")
	}
}
