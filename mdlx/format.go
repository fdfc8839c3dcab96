// Package mdlx implements a text representation of model block trees, used
// to inspect and hand-edit models.
//
// Each block is a block tag whose code attribute holds the type code of the
// block. The fields of the block follow as child tags, and the children of
// the block are placed within a subblocks tag:
//
//     <block name="SURFACE" code="10">
//         <subblocks>
//             <block name="INDICEARRAY" code="6">
//                 <number_of_indexes>3</number_of_indexes>
//                 <primitive_type>7</primitive_type>
//                 <variable_type><value means="UNSIGNED_SHORT">4</value></variable_type>
//                 <data>0,1,2</data>
//             </block>
//         </subblocks>
//     </block>
package mdlx

import (
	"fmt"
	"io"

	"github.com/lwexport/mdlfile"
)

// Decoder decodes a text document into a block tree.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (root *mdlfile.Block, err error) {
	document := new(Document)
	if _, err = document.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("error parsing document: %w", err)
	}
	root, err = Parse(document)
	if err != nil {
		return nil, fmt.Errorf("error decoding data: %w", err)
	}
	return root, nil
}

// Encoder encodes a block tree into a text document.
type Encoder struct {
	// Indent is the string used for one level of indentation. If empty, the
	// document is written without line breaks.
	Indent string

	// Diagnostics adds informational attributes to each block.
	Diagnostics bool
}

func (e Encoder) Encode(w io.Writer, root *mdlfile.Block) (err error) {
	if root == nil {
		return fmt.Errorf("error encoding data: nil root")
	}
	document := Render(root, RenderOptions{Diagnostics: e.Diagnostics})
	document.Indent = e.Indent
	if _, err = document.WriteTo(w); err != nil {
		return fmt.Errorf("error encoding format: %w", err)
	}
	return nil
}
