//go:build ebiten

package app

import (
	"io/fs"
	"log"

	"wireworld/internal/render"
	"wireworld/internal/session"
	"wireworld/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a session to the ebiten.Game interface.
type Game struct {
	sess    *session.Session
	log     *log.Logger
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale int
	quit  bool
}

// New constructs a Game for the provided session.
func New(sess *session.Session, logger *log.Logger) *Game {
	size := sess.Size()
	return &Game{
		sess:    sess,
		log:     logger,
		painter: render.NewGridPainter(size.W, size.H),
		hud:     ui.NewHUD(sess, ui.PanelWidth),
		overlay: ui.NewOverlay(),
		scale:   sess.Scale(),
	}
}

// Update handles per-frame input. The simulation itself advances on the
// session's scheduler goroutine.
func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	if ebiten.IsWindowBeingClosed() ||
		inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		if err := g.sess.Quit(); err != nil {
			g.log.Printf("save on quit: %v", err)
		}
		g.quit = true
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.sess.Toggle()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.sess.StepOnce()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyUp) {
		g.sess.CycleBrush(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDown) {
		g.sess.CycleBrush(-1)
	}
	if _, dy := ebiten.Wheel(); dy > 0 {
		g.sess.CycleBrush(1)
	} else if dy < 0 {
		g.sess.CycleBrush(-1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.sess.AdjustDelay(1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.sess.AdjustDelay(-1)
	}

	if dropped := ebiten.DroppedFiles(); dropped != nil {
		g.replace(dropped)
	}

	g.overlay.Update()
	g.hud.Update(g.gridWidth())

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if !g.hud.Contains(x, y) {
			g.sess.PaintAt(x, y)
		}
	}
	return nil
}

// replace opens the first regular file dropped on the window.
func (g *Game) replace(dropped fs.FS) {
	entries, err := fs.ReadDir(dropped, ".")
	if err != nil {
		g.log.Printf("read dropped files: %v", err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		f, err := dropped.Open(e.Name())
		if err != nil {
			g.log.Printf("open dropped file: %v", err)
			return
		}
		err = g.sess.ReplaceFrom(f, e.Name())
		f.Close()
		if err != nil {
			g.log.Printf("replace world: %v", err)
			return
		}
		ebiten.SetWindowTitle(g.sess.Title())
		return
	}
}

// Draw renders the grid, the brush cursor and the HUD.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.sess.Cells(), g.scale)
	if c, ok := g.sess.CellAt(ebiten.CursorPosition()); ok {
		g.painter.DrawCursor(screen, c, g.sess.Brush(), g.scale)
	}
	g.hud.Draw(screen, g.gridWidth(), g.scale)
	g.overlay.Draw(screen)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.gridWidth() + g.hud.Width(), g.sess.Size().H * g.scale
}

func (g *Game) gridWidth() int { return g.sess.Size().W * g.scale }
