package world

import (
	"sync"

	"github.com/pkg/errors"

	"wireworld/internal/core"
)

// ErrSizeMismatch is returned when a grid of the wrong dimensions is
// installed into a World.
var ErrSizeMismatch = errors.New("grid size mismatch")

// World is the shared, fixed-size Wireworld grid. The tick goroutine and the
// foreground editor both mutate it; every mutation happens under the write
// lock, so an edit lands either before or after a whole generation.
type World struct {
	mu    sync.RWMutex
	front *core.Grid
	back  *core.Grid
	gen   uint64
}

// New returns an all-Empty World with the given dimensions.
func New(w, h int) *World {
	front := core.NewGrid(w, h)
	return &World{front: front, back: core.NewGrid(front.W, front.H)}
}

// Size returns the grid dimensions. They never change for a given World.
func (w *World) Size() core.Size { return w.front.Size() }

// InBounds reports whether (x, y) addresses a cell.
func (w *World) InBounds(x, y int) bool { return w.front.InBounds(x, y) }

// Get returns the cell at (x, y), or Empty outside the grid.
func (w *World) Get(x, y int) core.Cell {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.front.Get(x, y)
}

// Set overwrites a single cell. It reports false for out-of-bounds
// coordinates and invalid values.
func (w *World) Set(x, y int, c core.Cell) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.front.Set(x, y, c)
}

// CountNeighbors counts the Moore neighbours of (x, y) equal to kind.
func (w *World) CountNeighbors(x, y int, kind core.Cell) int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.front.CountNeighbors(x, y, kind)
}

// Cells returns a copy of the current generation in column-major order.
func (w *World) Cells() []core.Cell {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]core.Cell(nil), w.front.Cells()...)
}

// Census counts cells per variant in the current generation.
func (w *World) Census() [core.NumCells]int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.front.Census()
}

// Generation returns the number of completed steps since construction or the
// last Replace/Clear.
func (w *World) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.gen
}

// View runs fn with read access to the current generation and its number. fn
// must not retain or modify the grid.
func (w *World) View(fn func(g *core.Grid, gen uint64)) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	fn(w.front, w.gen)
}

// Step builds the next generation. fn reads src (the current generation) and
// must fill every cell of dst; when it returns nil, dst is published as the
// new generation. The write lock is held throughout, so no edit can interleave
// with the computation.
func (w *World) Step(fn func(src, dst *core.Grid) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := fn(w.front, w.back); err != nil {
		return err
	}
	w.front, w.back = w.back, w.front
	w.gen++
	return nil
}

// Replace installs the contents of g as the current generation and resets the
// generation counter.
func (w *World) Replace(g *core.Grid) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.front.CopyFrom(g) {
		return errors.Wrapf(ErrSizeMismatch, "[Replace] have %dx%d", w.front.W, w.front.H)
	}
	w.gen = 0
	return nil
}

// Clear resets every cell to Empty.
func (w *World) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.front.Clear()
	w.gen = 0
}
