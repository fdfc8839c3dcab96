package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	. "github.com/lwexport/mdlfile/declare"
	"github.com/lwexport/mdlfile/mdl"
)

func testModel() *mdlfile.Block {
	return File(2,
		Node(mgl32.Ident4(),
			Props("name", "Cube"),
			Mesh(mgl32.Ident4(),
				Surface(
					Vertices(mdlfile.DataPosition, 0, 0, 0, 1, 0, 0, 0, 1, 0),
					Indices(0, 1, 2),
				),
			),
		),
	)
}

func writeModel(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cube.mdl")
	if err := mdl.WriteFile(path, mdl.Encoder{}, testModel()); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDumpAndCompile(t *testing.T) {
	dir := t.TempDir()
	input := writeModel(t, dir)

	if code := run([]string{input}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("dump: expected exit code 0, got %d", code)
	}
	text := input + ".xml"
	content, err := os.ReadFile(text)
	if err != nil {
		t.Fatalf("dump: missing output: %v", err)
	}
	if !strings.Contains(string(content), `name="VERTEXARRAY" code="5"`) {
		t.Errorf("dump: unexpected output:\n%s", content)
	}

	if code := run([]string{text}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("compile: expected exit code 0, got %d", code)
	}
	// cube.mdl.xml compiles back to cube.mdl.
	root, warn, err := mdl.ReadFile(input, mdl.Decoder{})
	if err != nil || warn != nil {
		t.Fatalf("compile: unexpected error: %v (warn: %v)", err, warn)
	}
	if !mdlfile.Equal(root, testModel()) {
		t.Error("compile: round trip mismatch")
	}
}

func TestCompileVersion(t *testing.T) {
	dir := t.TempDir()
	input := writeModel(t, dir)
	if code := run([]string{input, filepath.Join(dir, "cube.xml")}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("dump: expected exit code 0, got %d", code)
	}

	var out bytes.Buffer
	if code := run([]string{"-version", "1", filepath.Join(dir, "cube.xml"), "-"}, &out, io.Discard); code != 0 {
		t.Fatalf("compile: expected exit code 0, got %d", code)
	}
	root, _, err := mdl.Unmarshal(out.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := root.Version(); v != 1 {
		t.Errorf("expected version 1, got %d", v)
	}
}

func TestTextDump(t *testing.T) {
	input := writeModel(t, t.TempDir())
	var out bytes.Buffer
	if code := run([]string{"-text", input}, &out, io.Discard); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "#0: NODE (2) @16") {
		t.Errorf("unexpected output:\n%s", out.String())
	}

	out.Reset()
	if code := run([]string{"-spew", input}, &out, io.Discard); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out.String(), "mdlfile.Block") {
		t.Errorf("unexpected output:\n%s", out.String())
	}
}

func TestFailures(t *testing.T) {
	dir := t.TempDir()

	unknown := filepath.Join(dir, "unknown.mdl")
	data := []byte{
		1, 0, 0, 0, 1, 0, 0, 0, 4, 0, 0, 0, 2, 0, 0, 0,
		99, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	if err := os.WriteFile(unknown, data, 0644); err != nil {
		t.Fatal(err)
	}

	bad := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(bad, []byte(`<block code="1"><version>2</version><subblocks><block code="2"/></subblocks></block>`), 0644); err != nil {
		t.Fatal(err)
	}

	other := filepath.Join(dir, "model.obj")
	if err := os.WriteFile(other, nil, 0644); err != nil {
		t.Fatal(err)
	}

	for _, args := range [][]string{
		{},
		{filepath.Join(dir, "missing.mdl")},
		{unknown},
		{bad},
		{other},
		{"-version", "7", unknown},
	} {
		if code := run(args, io.Discard, io.Discard); code != 1 {
			t.Errorf("%v: expected exit code 1, got %d", args, code)
		}
	}

	// Failed conversions leave no output behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		switch e.Name() {
		case "unknown.mdl", "bad.xml", "model.obj":
		default:
			t.Errorf("unexpected file %s", e.Name())
		}
	}
}

func TestCompileOutput(t *testing.T) {
	for input, want := range map[string]string{
		"cube.mdl.xml": "cube.mdl",
		"cube.xml":     "cube.mdl",
		"dir/a.XML":    "dir/a.mdl",
	} {
		if got := compileOutput(input); got != want {
			t.Errorf("compileOutput(%q): expected %q, got %q", input, want, got)
		}
	}
}
