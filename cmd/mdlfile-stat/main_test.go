package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	. "github.com/lwexport/mdlfile/declare"
	"github.com/lwexport/mdlfile/mdl"
)

func testModel() *mdlfile.Block {
	return File(2,
		Node(mgl32.Ident4(),
			Props("name", "Scene"),
			Mesh(mgl32.Ident4(),
				Props("name", "Quad"),
				Surface(
					Vertices(mdlfile.DataPosition, 0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0),
					Vertices(mdlfile.DataNormal, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0, 1),
					Indices(0, 1, 2, 0, 2, 3),
				),
			),
			Bone(0, mgl32.Ident4(),
				Animation("idle", mgl32.Ident4(), mgl32.Ident4(), mgl32.Ident4()),
			),
		),
	)
}

func TestFill(t *testing.T) {
	var s Stats
	s.Fill(testModel())

	if s.Version != 2 {
		t.Errorf("expected version 2, got %d", s.Version)
	}
	if s.BlockCount != 11 {
		t.Errorf("expected 11 blocks, got %d", s.BlockCount)
	}
	if s.MaxDepth != 4 {
		t.Errorf("expected depth 4, got %d", s.MaxDepth)
	}
	if s.VertexCount != 4 {
		t.Errorf("expected 4 vertices, got %d", s.VertexCount)
	}
	if s.TriangleCount != 2 {
		t.Errorf("expected 2 triangles, got %d", s.TriangleCount)
	}
	if s.FrameCount != 3 {
		t.Errorf("expected 3 frames, got %d", s.FrameCount)
	}
	if len(s.Animations) != 1 || s.Animations[0] != "idle" {
		t.Errorf("unexpected animations: %v", s.Animations)
	}
	if s.Properties["name"] != 2 {
		t.Errorf("expected 2 name properties, got %d", s.Properties["name"])
	}

	va := s.Kinds["VERTEXARRAY"]
	if va == nil || va.Count != 2 || va.PayloadBytes != 2*(4*3*4+16) {
		t.Errorf("unexpected vertex array stats: %+v", va)
	}
	if va != nil && va.CompressedBytes <= 0 {
		t.Errorf("expected compressed size, got %d", va.CompressedBytes)
	}
	if s.Kinds["FILE"].CompressedBytes != 0 {
		t.Error("expected FILE block to be excluded from compression")
	}
	if s.DuplicateSurfaces != 0 {
		t.Errorf("expected no duplicate surfaces, got %d", s.DuplicateSurfaces)
	}
}

func TestDuplicateSurfaces(t *testing.T) {
	root := testModel()
	mesh := root.Children[0].FindChild(mdlfile.KindMesh)
	mesh.AddChild(mesh.FindChild(mdlfile.KindSurface).Copy())
	mesh.AddChild(Surface(
		Vertices(mdlfile.DataPosition, 0, 0, 0, 1, 0, 0, 1, 1, 0),
		Indices(0, 1, 2),
	))

	var s Stats
	s.Fill(root)
	if s.DuplicateSurfaces != 1 {
		t.Errorf("expected 1 duplicate surface, got %d", s.DuplicateSurfaces)
	}
}

func TestStat(t *testing.T) {
	data, err := mdl.Marshal(testModel())
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := stat(&out, bytes.NewReader(data)); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	var s struct {
		Bytes      int64
		Digest     string
		BlockCount int
		Properties []struct {
			Key   string
			Count int
		}
	}
	if err := json.Unmarshal(out.Bytes(), &s); err != nil {
		t.Fatalf("invalid JSON: %s\n%s", err, out.String())
	}
	if s.Bytes != int64(len(data)) {
		t.Errorf("expected %d bytes, got %d", len(data), s.Bytes)
	}
	if len(s.Digest) != 64 {
		t.Errorf("expected 64 digit digest, got %q", s.Digest)
	}
	if s.BlockCount != 11 {
		t.Errorf("expected 11 blocks, got %d", s.BlockCount)
	}
	if len(s.Properties) != 1 || s.Properties[0].Key != "name" || s.Properties[0].Count != 2 {
		t.Errorf("unexpected properties: %+v", s.Properties)
	}

	if err := stat(&out, bytes.NewReader([]byte{1, 0})); err == nil {
		t.Error("expected error for truncated input")
	}
}
