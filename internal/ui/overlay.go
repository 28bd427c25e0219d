//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws the key binding help on top of the grid. H toggles it.
type Overlay struct {
	show bool
}

// NewOverlay constructs a hidden overlay.
func NewOverlay() *Overlay { return &Overlay{} }

// Visible reports whether the help is shown.
func (o *Overlay) Visible() bool { return o.show }

// Update toggles the overlay.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) || inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		o.show = !o.show
	}
}

// Draw paints the help box in the top-left corner of screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	face := basicfont.Face7x13
	width := 0
	for _, line := range HelpLines {
		width = max(width, text.BoundString(face, line).Dx())
	}
	boxW := float32(width + 2*panelPadding)
	boxH := float32(len(HelpLines)*readoutSpacing + 2*panelPadding)
	vector.DrawFilledRect(screen, 4, 4, boxW, boxH, color.RGBA{R: 0, G: 0, B: 0, A: 0xd0}, false)
	for i, line := range HelpLines {
		y := 4 + panelPadding + (i+1)*readoutSpacing - 4
		text.Draw(screen, line, face, 4+panelPadding, y, labelColor)
	}
}
