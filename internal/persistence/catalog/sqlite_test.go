package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"wireworld/internal/core"
)

func TestRecordAndRecent(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(filepath.Join(dir, "db", "catalog.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	saved := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"a.bin", "b.bin", "c.bin.zst"} {
		err := c.Record(ctx, Entry{
			Path:       filepath.Join(dir, name),
			Size:       core.Size{W: 32, H: 32},
			Generation: uint64(i * 10),
			Census:     [core.NumCells]int{1000, 20, 2, 2},
			SavedAt:    saved.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("record %s: %v", name, err)
		}
	}

	entries, err := c.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, expected 2", len(entries))
	}
	if filepath.Base(entries[0].Path) != "c.bin.zst" || filepath.Base(entries[1].Path) != "b.bin" {
		t.Fatalf("unexpected order: %s, %s", entries[0].Path, entries[1].Path)
	}
	first := entries[0]
	if first.Generation != 20 || first.Size != (core.Size{W: 32, H: 32}) {
		t.Fatalf("entry = %+v", first)
	}
	if first.Census != [core.NumCells]int{1000, 20, 2, 2} {
		t.Fatalf("census = %v", first.Census)
	}
	if !first.SavedAt.Equal(saved.Add(2 * time.Minute)) {
		t.Fatalf("saved_at = %v", first.SavedAt)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Record(context.Background(), Entry{Path: "x.bin", Size: core.Size{W: 16, H: 16}}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	entries, err := c.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 || entries[0].Size.W != 16 {
		t.Fatalf("entries = %+v", entries)
	}
	if entries[0].SavedAt.IsZero() {
		t.Fatal("zero SavedAt should default to now")
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
