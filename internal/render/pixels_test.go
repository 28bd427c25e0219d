package render

import (
	"testing"

	"wireworld/internal/core"
)

func TestFillCellsTransposesToRowMajor(t *testing.T) {
	g := core.NewGrid(3, 2)
	g.Set(2, 0, core.ElectronHead)
	g.Set(0, 1, core.Conductor)

	buf := make([]byte, 4*3*2)
	fillCellsRGBA(buf, g.Cells(), 3, 2, &DefaultPalette)

	pixel := func(x, y int) [4]byte {
		i := (y*3 + x) * 4
		return [4]byte{buf[i], buf[i+1], buf[i+2], buf[i+3]}
	}
	head := DefaultPalette[core.ElectronHead]
	if got := pixel(2, 0); got != [4]byte{head.R, head.G, head.B, head.A} {
		t.Fatalf("pixel(2,0) = %v", got)
	}
	wire := DefaultPalette[core.Conductor]
	if got := pixel(0, 1); got != [4]byte{wire.R, wire.G, wire.B, wire.A} {
		t.Fatalf("pixel(0,1) = %v", got)
	}
	empty := DefaultPalette[core.Empty]
	if got := pixel(1, 1); got != [4]byte{empty.R, empty.G, empty.B, empty.A} {
		t.Fatalf("pixel(1,1) = %v", got)
	}
}

func TestFillCellsInvalidRendersEmpty(t *testing.T) {
	buf := make([]byte, 4)
	fillCellsRGBA(buf, []core.Cell{core.Cell(9)}, 1, 1, &DefaultPalette)
	if buf[0] != DefaultPalette[core.Empty].R || buf[3] != 0xff {
		t.Fatalf("invalid cell rendered as %v", buf)
	}
}
