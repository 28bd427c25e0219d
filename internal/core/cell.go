package core

import "fmt"

// Cell enumerates the Wireworld cell states. The numeric values double as the
// on-disk snapshot encoding and as the brush cycling order.
type Cell uint8

const (
	Empty Cell = iota
	Conductor
	ElectronTail
	ElectronHead
)

// NumCells is the number of valid Cell variants.
const NumCells = 4

// Valid reports whether c is one of the four defined variants.
func (c Cell) Valid() bool { return c < NumCells }

// Next returns the following variant in brush order, saturating at ElectronHead.
func (c Cell) Next() Cell {
	if c >= ElectronHead {
		return ElectronHead
	}
	return c + 1
}

// Prev returns the preceding variant in brush order, saturating at Empty.
func (c Cell) Prev() Cell {
	if c == Empty || !c.Valid() {
		return Empty
	}
	return c - 1
}

func (c Cell) String() string {
	switch c {
	case Empty:
		return "empty"
	case Conductor:
		return "conductor"
	case ElectronTail:
		return "tail"
	case ElectronHead:
		return "head"
	}
	return fmt.Sprintf("cell(%d)", uint8(c))
}

// ParseCell maps a cell name (as produced by String) back to its variant.
func ParseCell(s string) (Cell, bool) {
	for c := Empty; c < NumCells; c++ {
		if c.String() == s {
			return c, true
		}
	}
	return Empty, false
}
