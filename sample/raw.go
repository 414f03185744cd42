package sample

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/soypat/flyingedges"
)

// ReadRaw reads nx*ny*nz float32 samples stored x-fastest with the given
// byte order, the layout of headerless .raw volume files.
func ReadRaw(r io.Reader, nx, ny, nz int, order binary.ByteOrder) (*flyingedges.Field, error) {
	n, err := flyingedges.GridLen(nx, ny, nz)
	if err != nil {
		return nil, err
	}
	data := make([]float32, n)
	err = binary.Read(r, order, data)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: volume ended before %d samples", flyingedges.ErrFieldSize, n)
	} else if err != nil {
		return nil, err
	}
	return flyingedges.NewField(nx, ny, nz, data)
}

// LoadRaw reads a raw float32 volume file. See [ReadRaw].
func LoadRaw(path string, nx, ny, nz int, order binary.ByteOrder) (*flyingedges.Field, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	f, err := ReadRaw(bufio.NewReader(fp), nx, ny, nz, order)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return f, nil
}
