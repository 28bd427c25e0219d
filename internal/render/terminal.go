package render

import (
	"bufio"
	"fmt"
	"io"

	"wireworld/internal/core"
)

var glyphs = [core.NumCells]string{
	core.Empty:        "  ",
	core.Conductor:    "░░",
	core.ElectronTail: "▒▒",
	core.ElectronHead: "██",
}

// TerminalRenderer draws a grid as text, two columns per cell.
type TerminalRenderer struct {
	Out io.Writer
}

// Display writes a header line followed by one text row per grid row.
func (r *TerminalRenderer) Display(g *core.Grid, gen uint64) error {
	w := bufio.NewWriter(r.Out)
	census := g.Census()
	fmt.Fprintf(w, "generation %d  %dx%d  conductor %d  head %d  tail %d\n",
		gen, g.W, g.H, census[core.Conductor], census[core.ElectronHead], census[core.ElectronTail])
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			w.WriteString(glyphs[g.Get(x, y)])
		}
		w.WriteByte('\n')
	}
	return w.Flush()
}

// Clear moves the cursor home and clears the screen.
func (r *TerminalRenderer) Clear() error {
	_, err := io.WriteString(r.Out, "\x1b[H\x1b[2J")
	return err
}
