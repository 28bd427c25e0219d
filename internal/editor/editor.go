package editor

import (
	"wireworld/internal/core"
	"wireworld/internal/world"
)

// Editor paints the selected brush onto a World from pointer input.
type Editor struct {
	world *world.World
	scale int
	brush core.Cell
}

// New creates an editor over w. scale is the on-screen size of one cell in
// pixels; brush is the initially selected cell.
func New(w *world.World, scale int, brush core.Cell) *Editor {
	if scale <= 0 {
		scale = 1
	}
	if !brush.Valid() {
		brush = core.ElectronHead
	}
	return &Editor{world: w, scale: scale, brush: brush}
}

// Brush returns the currently selected cell.
func (e *Editor) Brush() core.Cell { return e.brush }

// Scale returns the pixel size of one cell.
func (e *Editor) Scale() int { return e.scale }

// CycleBrush moves the brush one step up (direction > 0) or down
// (direction < 0) the cell order, clamping at both ends.
func (e *Editor) CycleBrush(direction int) core.Cell {
	switch {
	case direction > 0:
		e.brush = e.brush.Next()
	case direction < 0:
		e.brush = e.brush.Prev()
	}
	return e.brush
}

// Paint overwrites (x, y) with the brush. Out-of-bounds coordinates are
// ignored.
func (e *Editor) Paint(x, y int) bool {
	return e.world.Set(x, y, e.brush)
}

// CellAt maps a screen position to grid coordinates. ok is false when the
// pixel lies outside the grid.
func (e *Editor) CellAt(px, py int) (c core.Coord, ok bool) {
	if px < 0 || py < 0 {
		return core.Coord{}, false
	}
	c = core.Coord{X: px / e.scale, Y: py / e.scale}
	return c, e.world.InBounds(c.X, c.Y)
}

// PaintAt paints the cell under the screen position (px, py).
func (e *Editor) PaintAt(px, py int) bool {
	c, ok := e.CellAt(px, py)
	if !ok {
		return false
	}
	return e.Paint(c.X, c.Y)
}
