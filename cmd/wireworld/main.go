//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"wireworld/internal/app"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	logger := log.New(os.Stdout, "[wireworld] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := app.Configure(flag.CommandLine, os.Args[1:])
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	rt, err := app.Open(cfg, logger)
	if err != nil {
		logger.Fatalf("open: %v", err)
	}
	defer rt.Close()

	if err := rt.Start(context.Background()); err != nil {
		logger.Fatalf("start: %v", err)
	}
	sess := rt.Session

	game := app.New(sess, logger)
	w, h := game.Layout(0, 0)

	ebiten.SetWindowTitle(sess.Title())
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowClosingHandled(true)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Printf("run: %v", err)
		if err := sess.Quit(); err != nil {
			logger.Printf("save on exit: %v", err)
		}
		rt.Close()
		os.Exit(1)
	}
}
