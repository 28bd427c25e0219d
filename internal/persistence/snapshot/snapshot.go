// Package snapshot reads and writes the headerless Wireworld grid format: one
// byte per cell, column-major, exactly width*height bytes. Paths ending in
// ".zst" carry the same payload zstd-compressed.
package snapshot

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"

	"wireworld/internal/core"
	"wireworld/internal/world"
)

// ErrInvalidCell marks a snapshot byte outside the four cell codes.
var ErrInvalidCell = errors.New("invalid cell value")

// CompressedExt is the file suffix that selects zstd framing.
const CompressedExt = ".zst"

// Compressed reports whether name selects the zstd-compressed framing.
func Compressed(name string) bool {
	return strings.EqualFold(filepath.Ext(name), CompressedExt)
}

// Encode writes the raw cell bytes of g to dst.
func Encode(dst io.Writer, g *core.Grid) error {
	cells := g.Cells()
	buf := make([]byte, len(cells))
	for i, c := range cells {
		buf[i] = byte(c)
	}
	_, err := dst.Write(buf)
	return err
}

// Decode reads a snapshot of size into a new grid. A short payload leaves the
// remaining cells Empty and bytes past the end are not read. Any byte outside
// the cell codes fails the whole decode.
func Decode(src io.Reader, size core.Size) (*core.Grid, error) {
	g := core.NewGrid(size.W, size.H)
	buf := make([]byte, g.W*g.H)
	n, err := io.ReadFull(src, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, err
	}
	cells := g.Cells()
	for i, b := range buf[:n] {
		c := core.Cell(b)
		if !c.Valid() {
			return nil, errors.Wrapf(ErrInvalidCell, "byte %d at offset %d", b, i)
		}
		cells[i] = c
	}
	return g, nil
}

// Load replaces the contents of w with the snapshot at path. A missing file is
// not an error: w is cleared instead. On any other failure w is left as it was.
func Load(path string, w *world.World) error {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		w.Clear()
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "[Load] failed to open snapshot: %+v", path)
	}
	defer f.Close()
	return LoadFrom(f, path, w)
}

// LoadFrom replaces the contents of w with the snapshot read from src. name
// only selects the framing.
func LoadFrom(src io.Reader, name string, w *world.World) error {
	if Compressed(name) {
		dec, err := zstd.NewReader(src)
		if err != nil {
			return errors.Wrapf(err, "[Load] failed to open zstd stream: %+v", name)
		}
		defer dec.Close()
		src = dec
	}
	g, err := Decode(src, w.Size())
	if err != nil {
		return errors.Wrapf(err, "[Load] failed to decode snapshot: %+v", name)
	}
	return w.Replace(g)
}

// Save writes the current generation of w to path, creating parent
// directories as needed.
func Save(path string, w *world.World) error {
	size := w.Size()
	g := core.NewGrid(size.W, size.H)
	w.View(func(src *core.Grid, _ uint64) { g.CopyFrom(src) })
	return SaveGrid(path, g)
}

// SaveGrid writes g to path. g must not change while it is being written.
func SaveGrid(path string, g *core.Grid) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "[Save] failed to create directory: %+v", dir)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errors.Wrapf(err, "[Save] failed to create snapshot: %+v", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "[Save] failed to close snapshot: %+v", path)
		}
	}()

	if !Compressed(path) {
		if err := Encode(f, g); err != nil {
			return errors.Wrapf(err, "[Save] failed to write snapshot: %+v", path)
		}
		return nil
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return errors.Wrapf(err, "[Save] failed to open zstd stream: %+v", path)
	}
	if err := Encode(enc, g); err != nil {
		_ = enc.Close()
		return errors.Wrapf(err, "[Save] failed to write snapshot: %+v", path)
	}
	if err := enc.Close(); err != nil {
		return errors.Wrapf(err, "[Save] failed to flush zstd stream: %+v", path)
	}
	return nil
}
