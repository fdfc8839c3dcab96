package mdl

import (
	"encoding/binary"
	"errors"
	"io"
	"math"

	"github.com/anaminus/parse"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lwexport/mdlfile"
)

// All numbers are little-endian. Strings are ASCII, terminated by a single
// null byte.

// maxArrayBytes limits the size of a single data array read from a stream.
const maxArrayBytes = 1 << 30

func readInt32(fr *parse.BinaryReader, data *int32) (failed bool) {
	return fr.Number(data)
}

func writeInt32(fw *parse.BinaryWriter, data int32) (failed bool) {
	return fw.Number(data)
}

func writeInt32s(fw *parse.BinaryWriter, data ...int32) (failed bool) {
	for _, v := range data {
		if fw.Number(v) {
			return true
		}
	}
	return false
}

func readCString(fr *parse.BinaryReader, data *string) (failed bool) {
	if fr.Err() != nil {
		return true
	}

	var s []byte
	var c [1]byte
	for {
		if fr.Bytes(c[:]) {
			return true
		}
		if c[0] == 0 {
			break
		}
		s = append(s, c[0])
	}

	*data = string(s)

	return false
}

// checkASCII returns an EncodingError if s cannot be written as a
// null-terminated ASCII string.
func checkASCII(s string) error {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c == 0 || c > 0x7F {
			return EncodingError{Value: s, Index: i}
		}
	}
	return nil
}

func writeCString(fw *parse.BinaryWriter, data string) (failed bool) {
	if fw.Err() != nil {
		return true
	}

	if fw.Add(0, checkASCII(data)) {
		return true
	}

	if fw.Bytes([]byte(data)) {
		return true
	}

	return fw.Bytes([]byte{0})
}

func readArray(fr *parse.BinaryReader, kind mdlfile.ArrayKind, count int) (a mdlfile.Array, failed bool) {
	if fr.Err() != nil {
		return nil, true
	}

	width := int64(kind.Width())
	if width == 0 {
		fr.Add(0, errors.New("invalid array kind"))
		return nil, true
	}
	if count < 0 || int64(count) > maxArrayBytes/width {
		fr.Add(0, RangeError{Field: "array length", Index: -1, Value: int64(count), Max: maxArrayBytes / width})
		return nil, true
	}

	b := make([]byte, count*kind.Width())
	if fr.Bytes(b) {
		return nil, true
	}

	switch kind {
	case mdlfile.ArrayFloat32:
		v := make(mdlfile.Float32Array, count)
		for i := range v {
			v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return v, false
	case mdlfile.ArrayUint8:
		return mdlfile.Uint8Array(b), false
	case mdlfile.ArrayUint16:
		v := make(mdlfile.Uint16Array, count)
		for i := range v {
			v[i] = binary.LittleEndian.Uint16(b[i*2:])
		}
		return v, false
	case mdlfile.ArrayInt32:
		v := make(mdlfile.Int32Array, count)
		for i := range v {
			v[i] = int32(binary.LittleEndian.Uint32(b[i*4:]))
		}
		return v, false
	}
	fr.Add(0, errors.New("invalid array kind"))
	return nil, true
}

func writeArray(fw *parse.BinaryWriter, a mdlfile.Array) (failed bool) {
	if fw.Err() != nil {
		return true
	}

	var b []byte
	switch a := a.(type) {
	case nil:
		return false
	case mdlfile.Float32Array:
		b = make([]byte, len(a)*4)
		for i, v := range a {
			binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(v))
		}
	case mdlfile.Uint8Array:
		b = []byte(a)
	case mdlfile.Uint16Array:
		b = make([]byte, len(a)*2)
		for i, v := range a {
			binary.LittleEndian.PutUint16(b[i*2:], v)
		}
	case mdlfile.Int32Array:
		b = make([]byte, len(a)*4)
		for i, v := range a {
			binary.LittleEndian.PutUint32(b[i*4:], uint32(v))
		}
	default:
		fw.Add(0, ErrArrayKind)
		return true
	}

	return fw.Bytes(b)
}

func readMatrix(fr *parse.BinaryReader, m *mgl32.Mat4) (failed bool) {
	a, failed := readArray(fr, mdlfile.ArrayFloat32, 16)
	if failed {
		return true
	}
	copy(m[:], a.(mdlfile.Float32Array))
	return false
}

func writeMatrix(fw *parse.BinaryWriter, m mgl32.Mat4) (failed bool) {
	return writeArray(fw, mdlfile.Float32Array(m[:]))
}

// streamError returns the error of a failed reader, converting a premature
// end of stream into a TruncatedStreamError.
func streamError(fr *parse.BinaryReader) error {
	err := fr.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return TruncatedStreamError{Offset: fr.N(), Cause: err}
	}
	return err
}
