package mdlx

import (
	"bufio"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Tag represents an element of the text format. Content is restricted to
// text followed by child tags; mixed content is not preserved.
type Tag struct {
	// Name is the local name of the tag.
	Name string

	// The attributes of the tag.
	Attr []Attr

	// Text is the textual content of the tag. When decoding, whitespace
	// surrounding the text of a tag that has child tags is discarded. Text
	// of a tag without children is kept as is.
	Text string

	// Tags is a list of child tags within the tag.
	Tags []*Tag
}

// Attr represents an attribute of a tag.
type Attr struct {
	Name  string
	Value string
}

// AttrValue returns the value of the first attribute of the given name, and
// whether or not it exists.
func (t Tag) AttrValue(name string) (value string, exists bool) {
	for _, a := range t.Attr {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttrValue sets the value of the first attribute of the given name, or
// adds the attribute if it does not exist.
func (t *Tag) SetAttrValue(name, value string) {
	for i, a := range t.Attr {
		if a.Name == name {
			t.Attr[i].Value = value
			return
		}
	}
	t.Attr = append(t.Attr, Attr{Name: name, Value: value})
}

// Child returns the first child tag of the given name, or nil.
func (t *Tag) Child(name string) *Tag {
	for _, c := range t.Tags {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NewTag returns a tag with the given name and text.
func NewTag(name, text string) *Tag {
	return &Tag{Name: name, Text: text}
}

////////////////////////////////////////////////////////////////

// Document represents an entire text document.
type Document struct {
	// Prefix is a string that appears at the start of each line in the
	// document. When encoding, newlines are added automatically when either
	// Prefix or Indent is not empty.
	Prefix string

	// Indent is a string that indicates one level of indentation.
	Indent string

	// Root is the root tag in the document.
	Root *Tag
}

// ErrNoRoot indicates a document that has no root tag.
var ErrNoRoot = errors.New("document has no root tag")

// ErrMultipleRoots indicates a document with more than one top-level tag.
var ErrMultipleRoots = errors.New("document has more than one root tag")

type countReader struct {
	r io.Reader
	n int64
}

func (c *countReader) Read(p []byte) (n int, err error) {
	n, err = c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// ReadFrom decodes data from r into the Document. Processing instructions,
// comments and directives are skipped.
func (doc *Document) ReadFrom(r io.Reader) (n int64, err error) {
	cr := &countReader{r: r}
	d := xml.NewDecoder(cr)

	var root *Tag
	var stack []*Tag
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cr.n, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			tag := &Tag{Name: tok.Name.Local}
			for _, a := range tok.Attr {
				tag.Attr = append(tag.Attr, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Tags = append(parent.Tags, tag)
			} else if root != nil {
				return cr.n, ErrMultipleRoots
			} else {
				root = tag
			}
			stack = append(stack, tag)
		case xml.EndElement:
			tag := stack[len(stack)-1]
			if len(tag.Tags) > 0 {
				tag.Text = strings.TrimSpace(tag.Text)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(tok)
			}
		}
	}
	if root == nil {
		return cr.n, ErrNoRoot
	}
	doc.Root = root
	return cr.n, nil
}

type encoder struct {
	w   *bufio.Writer
	d   *Document
	n   int64
	err error
}

func (e *encoder) writeString(s string) (failed bool) {
	if e.err != nil {
		return true
	}
	n, err := e.w.WriteString(s)
	e.n += int64(n)
	if err != nil {
		e.err = err
		return true
	}
	return false
}

func (e *encoder) escapeString(s string) (failed bool) {
	var buf strings.Builder
	xml.EscapeText(&buf, []byte(s))
	return e.writeString(buf.String())
}

func (e *encoder) writeIndent(depth int) (failed bool) {
	if e.d.Prefix == "" && e.d.Indent == "" {
		return false
	}
	if e.writeString("\n") || e.writeString(e.d.Prefix) {
		return true
	}
	for i := 0; i < depth; i++ {
		if e.writeString(e.d.Indent) {
			return true
		}
	}
	return false
}

func (e *encoder) encodeTag(tag *Tag, depth int) (failed bool) {
	if e.writeString("<") || e.writeString(tag.Name) {
		return true
	}
	for _, a := range tag.Attr {
		if e.writeString(" ") ||
			e.writeString(a.Name) ||
			e.writeString(`="`) ||
			e.escapeString(a.Value) ||
			e.writeString(`"`) {
			return true
		}
	}
	if tag.Text == "" && len(tag.Tags) == 0 {
		return e.writeString("/>")
	}
	if e.writeString(">") || e.escapeString(tag.Text) {
		return true
	}
	if len(tag.Tags) > 0 {
		for _, sub := range tag.Tags {
			if e.writeIndent(depth+1) || e.encodeTag(sub, depth+1) {
				return true
			}
		}
		if e.writeIndent(depth) {
			return true
		}
	}
	return e.writeString("</") || e.writeString(tag.Name) || e.writeString(">")
}

// WriteTo encodes the Document as bytes to w.
func (doc *Document) WriteTo(w io.Writer) (n int64, err error) {
	if doc.Root == nil {
		return 0, ErrNoRoot
	}
	e := &encoder{w: bufio.NewWriter(w), d: doc}
	if e.writeString(doc.Prefix) || e.encodeTag(doc.Root, 0) {
		return e.n, e.err
	}
	if doc.Prefix != "" || doc.Indent != "" {
		e.writeString("\n")
	}
	if e.err == nil {
		e.err = e.w.Flush()
	}
	return e.n, e.err
}
