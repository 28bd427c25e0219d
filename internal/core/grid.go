package core

// Grid stores a 2D grid of cells in column-major order (x*H + y), matching the
// snapshot file layout. Grid is not safe for concurrent mutation; see
// world.World for the guarded variant.
type Grid struct {
	W, H int
	data []Cell
}

// NewGrid allocates an all-Empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]Cell, w*h)}
}

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.W, H: g.H} }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []Cell { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return x*g.H + y }

// InBounds reports whether (x, y) has storage.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.W && y < g.H
}

// Get returns the cell at (x, y). Coordinates outside the grid read as Empty.
func (g *Grid) Get(x, y int) Cell {
	if !g.InBounds(x, y) {
		return Empty
	}
	return g.data[g.Index(x, y)]
}

// Set writes c at (x, y). It reports false and leaves the grid untouched when
// the coordinate is outside the grid or c is not a valid variant.
func (g *Grid) Set(x, y int, c Cell) bool {
	if !g.InBounds(x, y) || !c.Valid() {
		return false
	}
	g.data[g.Index(x, y)] = c
	return true
}

// moore lists the eight neighbour offsets.
var moore = [8]Coord{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// CountNeighbors counts the Moore neighbours of (x, y) equal to kind. Cells
// past the edge are Empty, so they only ever match kind == Empty.
func (g *Grid) CountNeighbors(x, y int, kind Cell) int {
	count := 0
	for _, d := range moore {
		if g.Get(x+d.X, y+d.Y) == kind {
			count++
		}
	}
	return count
}

// Census returns how many cells hold each variant.
func (g *Grid) Census() [NumCells]int {
	var out [NumCells]int
	for _, c := range g.data {
		if c.Valid() {
			out[c]++
		}
	}
	return out
}

// CopyFrom overwrites g with the contents of src. Both grids must have the
// same dimensions; mismatched grids are left untouched.
func (g *Grid) CopyFrom(src *Grid) bool {
	if src == nil || src.W != g.W || src.H != g.H {
		return false
	}
	copy(g.data, src.data)
	return true
}

// Clear fills the grid with Empty.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Empty
	}
}
