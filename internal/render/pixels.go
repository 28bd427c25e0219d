package render

import (
	"image/color"

	"wireworld/internal/core"
)

// Palette maps each cell kind to a colour.
type Palette [core.NumCells]color.RGBA

// DefaultPalette is the classic Wireworld colouring on a dark background.
var DefaultPalette = Palette{
	core.Empty:        {R: 0x10, G: 0x10, B: 0x10, A: 0xff},
	core.Conductor:    {R: 0xff, G: 0xff, B: 0x44, A: 0xff},
	core.ElectronTail: {R: 0xff, G: 0x44, B: 0x44, A: 0xff},
	core.ElectronHead: {R: 0x44, G: 0x44, B: 0xff, A: 0xff},
}

// GridColor is drawn between cells.
var GridColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}

// fillCellsRGBA converts column-major cells of a w*h grid into row-major RGBA
// pixels in buf. Undefined cell values render with the Empty colour.
func fillCellsRGBA(buf []byte, cells []core.Cell, w, h int, palette *Palette) {
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			c := cells[x*h+y]
			if !c.Valid() {
				c = core.Empty
			}
			col := palette[c]
			base := (y*w + x) * 4
			buf[base+0] = col.R
			buf[base+1] = col.G
			buf[base+2] = col.B
			buf[base+3] = col.A
		}
	}
}
