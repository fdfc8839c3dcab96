package mdl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lwexport/mdlfile"
	"github.com/lwexport/mdlfile/errors"
	"golang.org/x/crypto/blake2b"
)

// ReadFile decodes the model file at path. The file is closed before
// returning, including on error.
func ReadFile(path string, d Decoder) (root *mdlfile.Block, warn, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return d.Decode(f)
}

// WriteFile encodes root to the file at path, using CreateFile.
func WriteFile(path string, e Encoder, root *mdlfile.Block) error {
	return CreateFile(path, func(w io.Writer) error {
		return e.Encode(w, root)
	})
}

// CreateFile calls write with a temporary file in the same directory as
// path. The temporary file is renamed to path only after write succeeds. On
// failure, the temporary file is removed and any existing file at path is
// left untouched.
func CreateFile(path string, write func(w io.Writer) error) (err error) {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if err == nil {
			return
		}
		var cleanup errors.List
		if !closed {
			cleanup = cleanup.Append(tmp.Close())
		}
		cleanup = cleanup.Append(os.Remove(tmp.Name()))
		if len(cleanup) > 0 {
			err = errors.Union(err, cleanup)
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync output: %w", err)
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish output: %w", err)
	}
	return nil
}

// Marshal returns the encoding of root.
func Marshal(root *mdlfile.Block) ([]byte, error) {
	var buf bytes.Buffer
	if err := (Encoder{}).Encode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a tree from b.
func Unmarshal(b []byte) (root *mdlfile.Block, warn, err error) {
	return Decoder{}.Decode(bytes.NewReader(b))
}

// Digest returns the BLAKE2b-256 hash of the encoding of a block and its
// descendants, as written by EncodeBlock. Two blocks with equal content
// produce the same digest, regardless of where they appear in a file.
func Digest(b *mdlfile.Block, version int32) (sum [blake2b.Size256]byte, err error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return sum, err
	}
	if b.Kind() == mdlfile.KindFile {
		err = Encoder{Version: version}.Encode(h, b)
	} else {
		err = Encoder{Version: version}.EncodeBlock(h, b)
	}
	if err != nil {
		return sum, err
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
