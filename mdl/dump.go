package mdl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/errors"
)

// Dump writes to w a readable representation of the binary format decoded from
// r.
func (d Decoder) Dump(w io.Writer, r io.Reader) (warn, err error) {
	if r == nil {
		return nil, errors.New("nil reader")
	}
	if w == nil {
		return nil, errors.New("nil writer")
	}

	root, warn, err := d.Decode(r)
	if err != nil {
		return warn, err
	}

	bw := bufio.NewWriter(w)
	DumpTree(bw, root)
	return warn, bw.Flush()
}

// DumpTree writes to w a readable representation of a block tree.
func DumpTree(w *bufio.Writer, root *mdlfile.Block) {
	version, _ := root.Version()
	fmt.Fprintf(w, "Version: %d", version)
	fmt.Fprint(w, "\nBlocks: {")
	dumpBlock(w, 1, 0, root, version)
	fmt.Fprint(w, "\n}\n")
}

func dumpBlock(w *bufio.Writer, indent, i int, b *mdlfile.Block, version int32) {
	dumpNewline(w, indent)
	fmt.Fprintf(w, "#%d: %s (%d)", i, b.Kind(), int32(b.Kind()))
	if b.Diag != nil {
		fmt.Fprintf(w, " @%d", b.Diag.Offset)
	}
	w.WriteString(" {")

	size, err := Size(b.Payload, version)
	dumpNewline(w, indent+1)
	if err != nil {
		fmt.Fprintf(w, "Size: <%s>", err)
	} else if b.Diag != nil && b.Diag.Size != size {
		fmt.Fprintf(w, "Size: %d (stored:%d)", size, b.Diag.Size)
	} else {
		fmt.Fprintf(w, "Size: %d", size)
	}

	switch p := b.Payload.(type) {
	case *mdlfile.File:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Version: %d", p.Version)
	case *mdlfile.Node:
		dumpMatrix(w, indent+1, "Matrix", p.Matrix)
	case *mdlfile.Mesh:
		dumpMatrix(w, indent+1, "Matrix", p.Matrix)
	case *mdlfile.Bone:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "BoneID: %d", p.ID)
		dumpMatrix(w, indent+1, "Matrix", p.Matrix)
	case *mdlfile.Properties:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Count: %d", len(p.Pairs))
		for _, pair := range p.Pairs {
			dumpNewline(w, indent+1)
			w.WriteByte('{')
			dumpNewline(w, indent+2)
			w.WriteString("Key: ")
			dumpString(w, indent+2, pair.Key)
			dumpNewline(w, indent+2)
			w.WriteString("Value: ")
			dumpString(w, indent+2, pair.Value)
			dumpNewline(w, indent+1)
			w.WriteByte('}')
		}
	case *mdlfile.VertexArray:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Vertices: %d", p.Vertices)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "DataType: %d (%s)", int32(p.DataType), p.DataType)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "VarType: %d (%s)", int32(p.VarType), p.VarType)
		dumpNewline(w, indent+1)
		if b.Diag != nil && b.Diag.Elements != p.ElementsPerVertex() {
			fmt.Fprintf(w, "Elements: %d (stored:%d)", p.ElementsPerVertex(), b.Diag.Elements)
		} else {
			fmt.Fprintf(w, "Elements: %d", p.ElementsPerVertex())
		}
		dumpArray(w, indent+1, p.Data, int(p.ElementsPerVertex()))
	case *mdlfile.IndiceArray:
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Primitive: %d (%s)", int32(p.Primitive), p.Primitive)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "VarType: %d (%s)", int32(p.VarType), p.VarType)
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Indices: (count:%d) {", len(p.Indices))
		for j := 0; j < len(p.Indices); j += 3 {
			dumpNewline(w, indent+2)
			for k := j; k < j+3 && k < len(p.Indices); k++ {
				if k > j {
					w.WriteByte(' ')
				}
				w.WriteString(strconv.FormatUint(uint64(p.Indices[k]), 10))
			}
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	case *mdlfile.AnimationKeys:
		if version >= mdlfile.Version2 {
			dumpNewline(w, indent+1)
			w.WriteString("Name: ")
			dumpString(w, indent+1, p.Name)
		}
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Frames: (count:%d) {", len(p.Frames))
		for j, frame := range p.Frames {
			dumpMatrix(w, indent+2, strconv.Itoa(j), frame)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	}

	if len(b.Children) > 0 {
		dumpNewline(w, indent+1)
		fmt.Fprintf(w, "Children: (count:%d) {", len(b.Children))
		for j, child := range b.Children {
			dumpBlock(w, indent+2, j, child, version)
		}
		dumpNewline(w, indent+1)
		w.WriteByte('}')
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpNewline(w *bufio.Writer, indent int) {
	w.WriteByte('\n')
	for i := 0; i < indent; i++ {
		w.WriteByte('\t')
	}
}

func dumpFloat(w *bufio.Writer, f float32) {
	w.WriteString(strconv.FormatFloat(float64(f), 'g', -1, 32))
}

func dumpMatrix(w *bufio.Writer, indent int, label string, m mgl32.Mat4) {
	dumpNewline(w, indent)
	w.WriteString(label)
	w.WriteString(": {")
	for row := 0; row < 4; row++ {
		dumpNewline(w, indent+1)
		for col := 0; col < 4; col++ {
			if col > 0 {
				w.WriteString(", ")
			}
			dumpFloat(w, m[row*4+col])
		}
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpArray(w *bufio.Writer, indent int, a mdlfile.Array, width int) {
	dumpNewline(w, indent)
	if a == nil {
		w.WriteString("Data: (count:0) {}")
		return
	}
	fmt.Fprintf(w, "Data: (%s) (count:%d) {", a.ArrayKind(), a.Len())
	if width <= 0 {
		width = 1
	}
	for j := 0; j < a.Len(); j++ {
		if j%width == 0 {
			dumpNewline(w, indent+1)
		} else {
			w.WriteString(", ")
		}
		switch a := a.(type) {
		case mdlfile.Float32Array:
			dumpFloat(w, a[j])
		case mdlfile.Uint8Array:
			w.WriteString(strconv.FormatUint(uint64(a[j]), 10))
		case mdlfile.Uint16Array:
			w.WriteString(strconv.FormatUint(uint64(a[j]), 10))
		case mdlfile.Int32Array:
			w.WriteString(strconv.FormatInt(int64(a[j]), 10))
		}
	}
	dumpNewline(w, indent)
	w.WriteByte('}')
}

func dumpString(w *bufio.Writer, indent int, s string) {
	for _, r := range s {
		if !unicode.IsGraphic(r) {
			dumpBytes(w, indent, []byte(s))
			return
		}
	}
	fmt.Fprintf(w, "(len:%d) ", len(s))
	w.WriteString(strconv.Quote(s))
}

func dumpBytes(w *bufio.Writer, indent int, b []byte) {
	fmt.Fprintf(w, "(len:%d)", len(b))
	const width = 16
	for j := 0; j < len(b); j += width {
		dumpNewline(w, indent+1)
		w.WriteString("| ")
		n := len(b)
		if j+width < n {
			n = j + width
		}
		for i := j; i < j+width; i++ {
			if i < n {
				fmt.Fprintf(w, "%02x ", b[i])
			} else {
				w.WriteString("   ")
			}
		}
		w.WriteString("|")
		for i := j; i < n; i++ {
			if 32 <= b[i] && b[i] <= 126 {
				w.WriteByte(b[i])
			} else {
				w.WriteByte('.')
			}
		}
		w.WriteByte('|')
	}
}
