package mdlx

import (
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/mdl"
)

const (
	blockTag    = "block"
	subTag      = "subblocks"
	oldBlockTag = "node"
	oldSubTag   = "subnodes"
)

var (
	// Indicates that a required tag is missing.
	ErrMissingTag = errors.New("missing tag")
	// Indicates that a required attribute is missing.
	ErrMissingAttr = errors.New("missing attribute")
	// Indicates a count that disagrees with the number of items present.
	ErrCountMismatch = errors.New("count does not match number of items")
	// Indicates a tag that is not a block tag where a block is expected.
	ErrNotBlock = errors.New("expected block tag")
	// Indicates an encoding attribute with an unknown value.
	ErrUnknownEncoding = errors.New("unknown string encoding")
)

// hexEncoding is the value of the encoding attribute of a tag whose strings
// are written as hexadecimal bytes.
const hexEncoding = "hex"

// needsHex returns whether s contains bytes that cannot be carried as XML
// text.
func needsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\t', c == '\n', c == '\r':
		case c < 0x20, c >= 0x80:
			return true
		}
	}
	return false
}

func hexString(s string) string {
	return hex.EncodeToString([]byte(s))
}

// MalformedTreeError indicates a document that does not describe a valid
// block tree.
type MalformedTreeError struct {
	// Path lists the index of each block from the root to the failing block.
	Path []int
	// Tag is the name of the offending tag or attribute, if any.
	Tag string

	Cause error
}

func (err MalformedTreeError) Error() string {
	var s strings.Builder
	s.WriteString("block ")
	if len(err.Path) == 0 {
		s.WriteString("root")
	}
	for i, n := range err.Path {
		if i > 0 {
			s.WriteByte('.')
		}
		s.WriteString(strconv.Itoa(n))
	}
	if err.Tag != "" {
		s.WriteString(": ")
		s.WriteString(err.Tag)
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err MalformedTreeError) Unwrap() error {
	return err.Cause
}

////////////////////////////////////////////////////////////////

// RenderOptions configures Render.
type RenderOptions struct {
	// Diagnostics adds the attributes _num_kids, _block_size and, for
	// decoded blocks, _offset to each block tag. They are ignored by Parse.
	Diagnostics bool
}

// Render returns a document representing the tree rooted at root.
func Render(root *mdlfile.Block, opts RenderOptions) *Document {
	version, ok := root.Version()
	if !ok {
		version = mdlfile.CurrentVersion
	}
	r := renderer{opts: opts, version: version}
	return &Document{Indent: "\t", Root: r.renderBlock(root)}
}

type renderer struct {
	opts    RenderOptions
	version int32
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatInt(i int32) string {
	return strconv.FormatInt(int64(i), 10)
}

func formatMatrix(m mgl32.Mat4) string {
	return formatArray(mdlfile.Float32Array(m[:]))
}

func formatArray(a mdlfile.Array) string {
	var s strings.Builder
	switch a := a.(type) {
	case mdlfile.Float32Array:
		for i, v := range a {
			if i > 0 {
				s.WriteByte(',')
			}
			s.WriteString(formatFloat(v))
		}
	case mdlfile.Uint8Array:
		for i, v := range a {
			if i > 0 {
				s.WriteByte(',')
			}
			s.WriteString(strconv.FormatUint(uint64(v), 10))
		}
	case mdlfile.Uint16Array:
		for i, v := range a {
			if i > 0 {
				s.WriteByte(',')
			}
			s.WriteString(strconv.FormatUint(uint64(v), 10))
		}
	case mdlfile.Int32Array:
		for i, v := range a {
			if i > 0 {
				s.WriteByte(',')
			}
			s.WriteString(strconv.FormatInt(int64(v), 10))
		}
	}
	return s.String()
}

// valueTag returns a tag holding a value tag annotated with the name of the
// value.
func valueTag(name string, value int32, means string) *Tag {
	return &Tag{
		Name: name,
		Tags: []*Tag{{
			Name: "value",
			Attr: []Attr{{Name: "means", Value: means}},
			Text: formatInt(value),
		}},
	}
}

func (r renderer) renderBlock(b *mdlfile.Block) *Tag {
	kind := b.Kind()
	tag := &Tag{
		Name: blockTag,
		Attr: []Attr{
			{Name: "name", Value: kind.String()},
			{Name: "code", Value: formatInt(int32(kind))},
		},
	}
	if r.opts.Diagnostics {
		tag.SetAttrValue("_num_kids", strconv.Itoa(len(b.Children)))
		if size, err := mdl.Size(b.Payload, r.version); err == nil {
			tag.SetAttrValue("_block_size", formatInt(size))
		}
		if b.Diag != nil {
			tag.SetAttrValue("_offset", strconv.FormatInt(b.Diag.Offset, 10))
		}
	}

	switch p := b.Payload.(type) {
	case *mdlfile.File:
		tag.Tags = append(tag.Tags, NewTag("version", formatInt(p.Version)))
	case *mdlfile.Node:
		tag.Tags = append(tag.Tags, NewTag("matrix", formatMatrix(p.Matrix)))
	case *mdlfile.Mesh:
		tag.Tags = append(tag.Tags, NewTag("matrix", formatMatrix(p.Matrix)))
	case *mdlfile.Bone:
		tag.Tags = append(tag.Tags,
			NewTag("matrix", formatMatrix(p.Matrix)),
			NewTag("bone_id", formatInt(p.ID)),
		)
	case *mdlfile.Surface:
	case *mdlfile.Properties:
		props := &Tag{Name: "properties"}
		for _, pair := range p.Pairs {
			v := &Tag{
				Name: "value",
				Attr: []Attr{{Name: "means", Value: pair.Key}},
				Text: pair.Value,
			}
			if needsHex(pair.Key) || needsHex(pair.Value) {
				v.Attr[0].Value = hexString(pair.Key)
				v.Text = hexString(pair.Value)
				v.SetAttrValue("encoding", hexEncoding)
			}
			props.Tags = append(props.Tags, v)
		}
		tag.Tags = append(tag.Tags,
			NewTag("count", strconv.Itoa(len(p.Pairs))),
			props,
		)
	case *mdlfile.VertexArray:
		tag.Tags = append(tag.Tags,
			NewTag("number_of_vertices", formatInt(p.Vertices)),
			valueTag("data_type", int32(p.DataType), p.DataType.String()),
			valueTag("variable_type", int32(p.VarType), p.VarType.String()),
			NewTag("elements_count", formatInt(p.ElementsPerVertex())),
			NewTag("data", formatArray(p.Data)),
		)
	case *mdlfile.IndiceArray:
		indices := make(mdlfile.Int32Array, len(p.Indices))
		for i, v := range p.Indices {
			indices[i] = int32(v)
		}
		tag.Tags = append(tag.Tags,
			NewTag("number_of_indexes", strconv.Itoa(len(p.Indices))),
			NewTag("primitive_type", formatInt(int32(p.Primitive))),
			valueTag("variable_type", int32(p.VarType), p.VarType.String()),
			NewTag("data", formatArray(indices)),
		)
	case *mdlfile.AnimationKeys:
		frames := &Tag{Name: "frames"}
		for _, frame := range p.Frames {
			frames.Tags = append(frames.Tags, NewTag("frame", formatMatrix(frame)))
		}
		name := NewTag("animation_name", p.Name)
		if needsHex(p.Name) {
			name.Text = hexString(p.Name)
			name.SetAttrValue("encoding", hexEncoding)
		}
		tag.Tags = append(tag.Tags,
			NewTag("number_of_frames", strconv.Itoa(len(p.Frames))),
			frames,
			name,
		)
	}

	if len(b.Children) > 0 {
		sub := &Tag{Name: subTag}
		for _, child := range b.Children {
			sub.Tags = append(sub.Tags, r.renderBlock(child))
		}
		tag.Tags = append(tag.Tags, sub)
	}
	return tag
}

////////////////////////////////////////////////////////////////

// Parse returns the block tree described by doc. The type of each block is
// determined by its code attribute; the name attribute and any attribute
// beginning with an underscore are ignored. Counts that can be derived from
// the content of a block are checked, but not required.
func Parse(doc *Document) (*mdlfile.Block, error) {
	if doc == nil || doc.Root == nil {
		return nil, ErrNoRoot
	}
	return parseBlock(doc.Root, []int{})
}

type blockParser struct {
	tag  *Tag
	path []int
}

func (bp blockParser) error(tag string, err error) error {
	p := make([]int, len(bp.path))
	copy(p, bp.path)
	return MalformedTreeError{Path: p, Tag: tag, Cause: err}
}

func (bp blockParser) child(name string) (*Tag, error) {
	if c := bp.tag.Child(name); c != nil {
		return c, nil
	}
	return nil, bp.error(name, ErrMissingTag)
}

func (bp blockParser) int32(name string) (int32, error) {
	c, err := bp.child(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseInt(strings.TrimSpace(c.Text), 10, 32)
	if err != nil {
		return 0, bp.error(name, err)
	}
	return int32(v), nil
}

// value parses the content of the value tag within the tag of the given
// name.
func (bp blockParser) value(name string) (int32, error) {
	c, err := bp.child(name)
	if err != nil {
		return 0, err
	}
	return blockParser{tag: c, path: bp.path}.int32("value")
}

// checkCount verifies the optional count tag of the given name against n.
func (bp blockParser) checkCount(name string, n int) error {
	if bp.tag.Child(name) == nil {
		return nil
	}
	count, err := bp.int32(name)
	if err != nil {
		return err
	}
	if int(count) != n {
		return bp.error(name, ErrCountMismatch)
	}
	return nil
}

// decodeString returns s, a string held by tag, decoded according to the
// encoding attribute of tag.
func (bp blockParser) decodeString(tag *Tag, s string) (string, error) {
	enc, ok := tag.AttrValue("encoding")
	if !ok {
		return s, nil
	}
	if enc != hexEncoding {
		return "", bp.error("encoding", ErrUnknownEncoding)
	}
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return "", bp.error(tag.Name, err)
	}
	return string(b), nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	items := strings.Split(s, ",")
	for i, item := range items {
		items[i] = strings.TrimSpace(item)
	}
	return items
}

func parseArray(kind mdlfile.ArrayKind, s string) (mdlfile.Array, error) {
	items := splitList(s)
	a := mdlfile.NewArray(kind, len(items))
	for i, item := range items {
		switch a := a.(type) {
		case mdlfile.Float32Array:
			v, err := strconv.ParseFloat(item, 32)
			if err != nil {
				return nil, err
			}
			a[i] = float32(v)
		case mdlfile.Uint8Array:
			v, err := strconv.ParseUint(item, 10, 8)
			if err != nil {
				return nil, err
			}
			a[i] = uint8(v)
		case mdlfile.Uint16Array:
			v, err := strconv.ParseUint(item, 10, 16)
			if err != nil {
				return nil, err
			}
			a[i] = uint16(v)
		case mdlfile.Int32Array:
			v, err := strconv.ParseInt(item, 10, 32)
			if err != nil {
				return nil, err
			}
			a[i] = int32(v)
		}
	}
	return a, nil
}

func (bp blockParser) matrix(tag *Tag) (m mgl32.Mat4, err error) {
	a, err := parseArray(mdlfile.ArrayFloat32, tag.Text)
	if err != nil {
		return m, bp.error(tag.Name, err)
	}
	if a.Len() != len(m) {
		return m, bp.error(tag.Name, ErrCountMismatch)
	}
	copy(m[:], a.(mdlfile.Float32Array))
	return m, nil
}

func parseBlock(tag *Tag, path []int) (*mdlfile.Block, error) {
	bp := blockParser{tag: tag, path: path}
	if tag.Name != blockTag && tag.Name != oldBlockTag {
		return nil, bp.error(tag.Name, ErrNotBlock)
	}
	code, ok := tag.AttrValue("code")
	if !ok {
		return nil, bp.error("code", ErrMissingAttr)
	}
	n, err := strconv.ParseInt(strings.TrimSpace(code), 10, 32)
	if err != nil {
		return nil, bp.error("code", err)
	}
	payload := mdlfile.NewPayload(mdlfile.Kind(n))
	if payload == nil {
		return nil, bp.error("code", mdl.UnknownBlockTypeError{Code: int32(n), Offset: -1})
	}

	if err := bp.parsePayload(payload); err != nil {
		return nil, err
	}
	b := mdlfile.NewBlock(payload)

	sub := tag.Child(subTag)
	if sub == nil {
		sub = tag.Child(oldSubTag)
	}
	if sub != nil {
		for i, c := range sub.Tags {
			child, err := parseBlock(c, append(path, i))
			if err != nil {
				return nil, err
			}
			b.Children = append(b.Children, child)
		}
	}
	return b, nil
}

func (bp blockParser) parsePayload(payload mdlfile.Payload) (err error) {
	switch p := payload.(type) {
	case *mdlfile.File:
		p.Version, err = bp.int32("version")
		return err

	case *mdlfile.Node:
		m, err := bp.child("matrix")
		if err != nil {
			return err
		}
		p.Matrix, err = bp.matrix(m)
		return err

	case *mdlfile.Mesh:
		m, err := bp.child("matrix")
		if err != nil {
			return err
		}
		p.Matrix, err = bp.matrix(m)
		return err

	case *mdlfile.Bone:
		m, err := bp.child("matrix")
		if err != nil {
			return err
		}
		if p.Matrix, err = bp.matrix(m); err != nil {
			return err
		}
		p.ID, err = bp.int32("bone_id")
		return err

	case *mdlfile.Surface:
		return nil

	case *mdlfile.Properties:
		if props := bp.tag.Child("properties"); props != nil {
			for _, v := range props.Tags {
				key, ok := v.AttrValue("means")
				if !ok {
					return bp.error("means", ErrMissingAttr)
				}
				if key, err = bp.decodeString(v, key); err != nil {
					return err
				}
				value, err := bp.decodeString(v, v.Text)
				if err != nil {
					return err
				}
				p.Pairs = append(p.Pairs, mdlfile.Property{Key: key, Value: value})
			}
		}
		return bp.checkCount("count", len(p.Pairs))

	case *mdlfile.VertexArray:
		if p.Vertices, err = bp.int32("number_of_vertices"); err != nil {
			return err
		}
		dataType, err := bp.value("data_type")
		if err != nil {
			return err
		}
		varType, err := bp.value("variable_type")
		if err != nil {
			return err
		}
		p.DataType = mdlfile.DataType(dataType)
		p.VarType = mdlfile.VarType(varType)
		if bp.tag.Child("elements_count") != nil {
			if p.Elements, err = bp.int32("elements_count"); err != nil {
				return err
			}
		}
		kind, err := mdlfile.ArrayKindFor(p.DataType, p.VarType)
		if err != nil {
			return bp.error("variable_type", err)
		}
		data, err := bp.child("data")
		if err != nil {
			return err
		}
		if p.Data, err = parseArray(kind, data.Text); err != nil {
			return bp.error("data", err)
		}
		if int64(p.Data.Len()) != int64(p.Vertices)*int64(p.ElementsPerVertex()) {
			return bp.error("data", ErrCountMismatch)
		}
		return nil

	case *mdlfile.IndiceArray:
		primitive, err := bp.int32("primitive_type")
		if err != nil {
			return err
		}
		varType, err := bp.value("variable_type")
		if err != nil {
			return err
		}
		p.Primitive = mdlfile.Primitive(primitive)
		p.VarType = mdlfile.VarType(varType)
		data, err := bp.child("data")
		if err != nil {
			return err
		}
		a, err := parseArray(mdlfile.ArrayInt32, data.Text)
		if err != nil {
			return bp.error("data", err)
		}
		p.Indices = make([]uint32, a.Len())
		for i, v := range a.(mdlfile.Int32Array) {
			if v < 0 {
				return bp.error("data", mdl.RangeError{Field: "indices", Index: i, Value: int64(v), Max: 1<<16 - 1})
			}
			p.Indices[i] = uint32(v)
		}
		return bp.checkCount("number_of_indexes", len(p.Indices))

	case *mdlfile.AnimationKeys:
		if frames := bp.tag.Child("frames"); frames != nil {
			for _, f := range frames.Tags {
				m, err := bp.matrix(f)
				if err != nil {
					return err
				}
				p.Frames = append(p.Frames, m)
			}
		}
		if name := bp.tag.Child("animation_name"); name != nil {
			if p.Name, err = bp.decodeString(name, name.Text); err != nil {
				return err
			}
		}
		return bp.checkCount("number_of_frames", len(p.Frames))
	}
	return nil
}
