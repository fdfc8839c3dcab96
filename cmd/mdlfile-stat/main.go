// The mdlfile-stat command displays stats for a Leadwerks model file.
package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/bkaradzic/go-lz4"
	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/mdl"
	"golang.org/x/crypto/blake2b"
)

const usage = `usage: mdlfile-stat [INPUT] [OUTPUT]

Reads a binary MDL file from INPUT, and writes to OUTPUT statistics for the
file.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.
`

// KindStats holds statistics for blocks of one kind.
type KindStats struct {
	// Number of blocks.
	Count int

	// Sum of the payload sizes of the blocks.
	PayloadBytes int64

	// Size of the encoded blocks, without children, after LZ4 compression.
	CompressedBytes int64
}

// PropCount is the number of times a property key occurs.
type PropCount map[string]int

func (p PropCount) MarshalJSON() ([]byte, error) {
	type entry struct {
		Key   string
		Count int
	}
	list := []entry{}
	for k, n := range p {
		list = append(list, entry{Key: k, Count: n})
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Count != list[j].Count {
			return list[i].Count > list[j].Count
		}
		return list[i].Key < list[j].Key
	})
	if len(list) > 20 {
		list = list[:20]
	}
	return json.Marshal(list)
}

type Stats struct {
	// Format version of the file.
	Version int32

	// Size of the file in bytes.
	Bytes int64

	// BLAKE2b-256 digest of the file.
	Digest string

	// Number of blocks overall.
	BlockCount int

	// Depth of the deepest block; the root has depth 0.
	MaxDepth int

	// Statistics per block kind.
	Kinds map[string]*KindStats

	// Number of vertices over all position arrays.
	VertexCount int64

	// Number of triangles over all index arrays.
	TriangleCount int64

	// Number of animation frames overall.
	FrameCount int64

	// Number of surfaces whose content is identical to an earlier surface.
	DuplicateSurfaces int

	// Names of animations, in order of appearance.
	Animations []string `json:",omitempty"`

	// Most common property keys.
	Properties PropCount `json:",omitempty"`
}

// Fill computes the statistics of root.
func (s *Stats) Fill(root *mdlfile.Block) {
	if root == nil {
		return
	}
	s.Version, _ = root.Version()

	s.BlockCount = 0
	s.MaxDepth = 0
	s.Kinds = map[string]*KindStats{}
	s.Properties = PropCount{}
	surfaces := map[[blake2b.Size256]byte]bool{}
	mdlfile.Walk(root, func(b *mdlfile.Block, depth int) bool {
		s.BlockCount++
		if depth > s.MaxDepth {
			s.MaxDepth = depth
		}

		ks := s.Kinds[b.Kind().String()]
		if ks == nil {
			ks = &KindStats{}
			s.Kinds[b.Kind().String()] = ks
		}
		ks.Count++
		if size, err := mdl.Size(b.Payload, s.Version); err == nil {
			ks.PayloadBytes += int64(size)
		}
		ks.CompressedBytes += compressedSize(b, s.Version)

		switch p := b.Payload.(type) {
		case *mdlfile.VertexArray:
			if p.DataType == mdlfile.DataPosition {
				s.VertexCount += int64(p.Vertices)
			}
		case *mdlfile.IndiceArray:
			if p.Primitive == mdlfile.PrimitiveTriangles {
				s.TriangleCount += int64(len(p.Indices) / 3)
			}
		case *mdlfile.Surface:
			if sum, err := mdl.Digest(b, s.Version); err == nil {
				if surfaces[sum] {
					s.DuplicateSurfaces++
				}
				surfaces[sum] = true
			}
		case *mdlfile.AnimationKeys:
			s.FrameCount += int64(len(p.Frames))
			if p.Name != "" {
				s.Animations = append(s.Animations, p.Name)
			}
		case *mdlfile.Properties:
			for _, pair := range p.Pairs {
				s.Properties[pair.Key]++
			}
		}
		return true
	})
}

// compressedSize returns the size of b, excluding its children, after LZ4
// compression, or 0 if it cannot be encoded.
func compressedSize(b *mdlfile.Block, version int32) int64 {
	if b.Kind() == mdlfile.KindFile {
		return 0
	}
	if version == 0 {
		version = mdlfile.CurrentVersion
	}
	var buf bytes.Buffer
	if err := (mdl.Encoder{Version: version}).EncodeBlock(&buf, &mdlfile.Block{Payload: b.Payload}); err != nil {
		return 0
	}
	compressed, err := lz4.Encode(nil, buf.Bytes())
	if err != nil {
		return 0
	}
	// lz4 prepends the uncompressed length.
	return int64(len(compressed) - 4)
}

func main() {
	flag.Usage = func() { fmt.Fprint(flag.CommandLine.Output(), usage) }
	flag.Parse()
	if err := run(flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		defer func() {
			if serr := out.Sync(); serr != nil && err == nil {
				err = fmt.Errorf("sync output: %w", serr)
			}
		}()
		output = out
	}

	return stat(output, input)
}

func stat(output io.Writer, input io.Reader) error {
	h, err := blake2b.New256(nil)
	if err != nil {
		return err
	}
	data, err := io.ReadAll(io.TeeReader(input, h))
	if err != nil {
		return fmt.Errorf("read error: %w", err)
	}

	root, warn, err := mdl.Decoder{}.Decode(bytes.NewReader(data))
	if warn != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("decode warning: %w", warn))
	}
	if err != nil {
		return fmt.Errorf("decode error: %w", err)
	}

	stats := Stats{
		Bytes:  int64(len(data)),
		Digest: hex.EncodeToString(h.Sum(nil)),
	}
	stats.Fill(root)

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}
