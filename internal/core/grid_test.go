package core

import "testing"

func TestGridOutOfBoundsReadsEmpty(t *testing.T) {
	g := NewGrid(3, 2)
	for x := 0; x < 3; x++ {
		for y := 0; y < 2; y++ {
			g.Set(x, y, ElectronHead)
		}
	}
	for _, c := range []Coord{{-1, 0}, {0, -1}, {3, 0}, {0, 2}, {100, 100}} {
		if got := g.Get(c.X, c.Y); got != Empty {
			t.Fatalf("Get(%d,%d) = %v, expected empty", c.X, c.Y, got)
		}
		if g.Set(c.X, c.Y, Conductor) {
			t.Fatalf("Set(%d,%d) should be a no-op", c.X, c.Y)
		}
	}
}

func TestGridRejectsInvalidCells(t *testing.T) {
	g := NewGrid(2, 2)
	if g.Set(1, 1, Cell(7)) {
		t.Fatal("Set accepted an undefined cell value")
	}
	if got := g.Get(1, 1); got != Empty {
		t.Fatalf("cell changed to %v", got)
	}
}

func TestGridColumnMajorIndex(t *testing.T) {
	g := NewGrid(4, 3)
	g.Set(2, 1, Conductor)
	if idx := g.Index(2, 1); idx != 2*3+1 {
		t.Fatalf("Index(2,1) = %d", idx)
	}
	if g.Cells()[7] != Conductor {
		t.Fatal("backing slice not column-major")
	}
}

func TestCountNeighborsAtBoundary(t *testing.T) {
	g := NewGrid(3, 3)
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			g.Set(x, y, ElectronHead)
		}
	}
	cases := []struct {
		x, y int
		want int
	}{
		{0, 0, 3},
		{1, 0, 5},
		{1, 1, 8},
		{2, 2, 3},
		{-1, -1, 1},
		{-2, 0, 0},
	}
	for _, tc := range cases {
		if got := g.CountNeighbors(tc.x, tc.y, ElectronHead); got != tc.want {
			t.Fatalf("CountNeighbors(%d,%d) = %d, expected %d", tc.x, tc.y, got, tc.want)
		}
	}
	// Beyond the edge only Empty matches.
	if got := g.CountNeighbors(0, 0, Empty); got != 5 {
		t.Fatalf("corner should see 5 empty border cells, got %d", got)
	}
}

func TestCensusAndCopy(t *testing.T) {
	g := NewGrid(2, 2)
	g.Set(0, 0, Conductor)
	g.Set(1, 0, ElectronHead)
	census := g.Census()
	if census != [NumCells]int{2, 1, 0, 1} {
		t.Fatalf("census = %v", census)
	}

	dst := NewGrid(2, 2)
	if !dst.CopyFrom(g) || dst.Get(1, 0) != ElectronHead {
		t.Fatal("CopyFrom did not copy")
	}
	if NewGrid(3, 2).CopyFrom(g) {
		t.Fatal("CopyFrom accepted mismatched dimensions")
	}
	dst.Clear()
	if dst.Census()[Empty] != 4 {
		t.Fatal("Clear left cells behind")
	}
}
