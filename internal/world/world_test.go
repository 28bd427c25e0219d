package world

import (
	"sync"
	"testing"

	"github.com/pkg/errors"

	"wireworld/internal/core"
)

func TestStepSwapsBuffers(t *testing.T) {
	w := New(2, 2)
	w.Set(0, 0, core.Conductor)

	err := w.Step(func(src, dst *core.Grid) error {
		for x := 0; x < src.W; x++ {
			for y := 0; y < src.H; y++ {
				c := src.Get(x, y)
				if c == core.Conductor {
					c = core.ElectronHead
				}
				dst.Set(x, y, c)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := w.Get(0, 0); got != core.ElectronHead {
		t.Fatalf("cell (0,0) = %v after step", got)
	}
	if w.Generation() != 1 {
		t.Fatalf("generation = %d", w.Generation())
	}
}

func TestStepErrorKeepsGeneration(t *testing.T) {
	w := New(2, 2)
	w.Set(1, 1, core.Conductor)
	boom := errors.New("boom")
	err := w.Step(func(src, dst *core.Grid) error {
		dst.Clear()
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if w.Get(1, 1) != core.Conductor || w.Generation() != 0 {
		t.Fatal("failed step must not publish the back buffer")
	}
}

func TestReplaceChecksSize(t *testing.T) {
	w := New(3, 3)
	g := core.NewGrid(3, 3)
	g.Set(2, 2, core.ElectronTail)
	if err := w.Replace(g); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if w.Get(2, 2) != core.ElectronTail {
		t.Fatal("replace did not install cells")
	}
	if err := w.Replace(core.NewGrid(2, 3)); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("expected size mismatch, got %v", err)
	}
}

func TestCellsReturnsCopy(t *testing.T) {
	w := New(2, 2)
	cells := w.Cells()
	cells[0] = core.ElectronHead
	if w.Get(0, 0) != core.Empty {
		t.Fatal("Cells must not alias the live grid")
	}
}

func TestConcurrentEditsAndSteps(t *testing.T) {
	w := New(16, 16)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_ = w.Step(func(src, dst *core.Grid) error {
				dst.CopyFrom(src)
				return nil
			})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			w.Set(i%16, (i/16)%16, core.Conductor)
			_ = w.Census()
		}
	}()
	wg.Wait()

	if w.Generation() != 200 {
		t.Fatalf("generation = %d", w.Generation())
	}
	census := w.Census()
	if census[core.Conductor] != 200 {
		t.Fatalf("lost edits: %d conductors", census[core.Conductor])
	}
}
