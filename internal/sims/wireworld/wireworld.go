package wireworld

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"wireworld/internal/core"
	"wireworld/internal/rules"
	"wireworld/internal/world"
)

// minBandWidth keeps parallel bands from degenerating into per-column goroutines.
const minBandWidth = 8

// Wireworld advances a shared World one generation at a time.
type Wireworld struct {
	world   *world.World
	workers int
}

// New creates an engine over w. workers > 1 splits each generation into that
// many column bands computed concurrently; workers < 1 means GOMAXPROCS.
func New(w *world.World, workers int) *Wireworld {
	return &Wireworld{world: w, workers: resolveWorkers(workers)}
}

func resolveWorkers(workers int) int {
	if workers < 1 {
		return runtime.GOMAXPROCS(0)
	}
	return workers
}

// Name identifies the simulation.
func (ww *Wireworld) Name() string { return "wireworld" }

// Size returns the grid dimensions.
func (ww *Wireworld) Size() core.Size { return ww.world.Size() }

// Cells returns a copy of the current generation.
func (ww *Wireworld) Cells() []core.Cell { return ww.world.Cells() }

// World exposes the grid the engine advances.
func (ww *Wireworld) World() *world.World { return ww.world }

// Reset clears the grid.
func (ww *Wireworld) Reset() { ww.world.Clear() }

// Step advances the automaton by one generation.
func (ww *Wireworld) Step() {
	// advanceBand never fails, so neither does Advance.
	_ = Advance(ww.world, ww.workers)
}

// Advance computes the next generation of w from the pre-tick grid only and
// publishes it atomically. workers < 1 means GOMAXPROCS.
func Advance(w *world.World, workers int) error {
	workers = resolveWorkers(workers)
	return w.Step(func(src, dst *core.Grid) error {
		bands := bandCount(src.W, workers)
		if bands <= 1 {
			advanceBand(src, dst, 0, src.W)
			return nil
		}

		var (
			eg      errgroup.Group
			perBand = (src.W + bands - 1) / bands
		)
		for i := 0; i < bands; i++ {
			var (
				start = i * perBand
				end   = min(start+perBand, src.W)
			)
			if start >= src.W {
				break
			}
			eg.Go(func() error {
				advanceBand(src, dst, start, end)
				return nil
			})
		}
		return eg.Wait()
	})
}

// advanceBand fills columns [x0, x1) of dst.
func advanceBand(src, dst *core.Grid, x0, x1 int) {
	cells := dst.Cells()
	for x := x0; x < x1; x++ {
		for y := 0; y < src.H; y++ {
			cur := src.Get(x, y)
			heads := 0
			// Only conductors depend on their neighbourhood.
			if cur == core.Conductor {
				heads = src.CountNeighbors(x, y, core.ElectronHead)
			}
			cells[dst.Index(x, y)] = rules.Next(cur, heads)
		}
	}
}

func bandCount(width, workers int) int {
	if workers <= 1 {
		return 1
	}
	bands := width / minBandWidth
	if bands > workers {
		bands = workers
	}
	if bands < 1 {
		bands = 1
	}
	return bands
}

var _ core.Sim = (*Wireworld)(nil)
