package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Area returns the number of cells in a grid of this size.
func (s Size) Area() int { return s.W * s.H }

// Coord addresses a single cell.
type Coord struct {
	X, Y int
}

// Sim defines the minimal contract the presentation layer needs from an
// automaton.
type Sim interface {
	Name() string
	Size() Size
	Reset()
	Step()
	Cells() []Cell
}
