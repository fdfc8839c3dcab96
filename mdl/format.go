// Package mdl implements a decoder and encoder for the Leadwerks binary model
// (MDL) format.
//
// A file is a sequence of blocks, each made of a header of three
// little-endian int32 values (type code, number of children, byte size of
// the payload), followed by the payload fields of the block, followed by the
// children of the block, each encoded the same way. The first block is always
// a FILE block, whose payload is the format version:
//
//     int32 type code (1)
//     int32 child count (1)
//     int32 byte size (4)
//     int32 version (1 or 2)
//     <child block>
//
// The byte size of a block is derived from its content. The decoder never
// uses it to skip data; the layout of each block is known from its type code,
// and the stored size is only compared with the computed size.
//
// Decoder and Encoder translate between byte streams and mdlfile.Block trees.
// ReadFile and WriteFile do the same for files on disk.
package mdl
