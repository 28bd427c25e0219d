//go:build ebiten

package render

import (
	"image/color"

	"wireworld/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// GridPainter updates a single RGBA image from column-major cell data.
type GridPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	palette Palette
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		w:       w,
		h:       h,
		img:     ebiten.NewImage(w, h),
		buf:     make([]byte, 4*w*h),
		palette: DefaultPalette,
	}
}

// Blit uploads cells into the painter image and draws it scaled onto dst,
// with grid lines between cells when scale leaves room for them.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []core.Cell, scale int) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillCellsRGBA(gp.buf, cells, gp.w, gp.h, &gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)

	if scale >= 4 {
		gp.drawLines(dst, scale)
	}
}

func (gp *GridPainter) drawLines(dst *ebiten.Image, scale int) {
	width := float32(gp.w * scale)
	height := float32(gp.h * scale)
	for x := 1; x < gp.w; x++ {
		fx := float32(x * scale)
		vector.StrokeLine(dst, fx, 0, fx, height, 1, GridColor, false)
	}
	for y := 1; y < gp.h; y++ {
		fy := float32(y * scale)
		vector.StrokeLine(dst, 0, fy, width, fy, 1, GridColor, false)
	}
}

// DrawCursor outlines the cell at c in the brush colour.
func (gp *GridPainter) DrawCursor(dst *ebiten.Image, c core.Coord, brush core.Cell, scale int) {
	if c.X < 0 || c.Y < 0 || c.X >= gp.w || c.Y >= gp.h || !brush.Valid() {
		return
	}
	col := gp.palette[brush]
	if brush == core.Empty {
		col = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	}
	s := float32(scale)
	vector.StrokeRect(dst, float32(c.X)*s, float32(c.Y)*s, s, s, 2, col, false)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }
