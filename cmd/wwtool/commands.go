package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"wireworld/internal/app"
	"wireworld/internal/core"
	"wireworld/internal/persistence/catalog"
	"wireworld/internal/persistence/snapshot"
	"wireworld/internal/render"
	"wireworld/internal/sims/wireworld"
	"wireworld/internal/world"
)

var errUsage = errors.New("unknown command")

func run(ctx context.Context, cmd string, args []string, out io.Writer, logger *log.Logger) error {
	switch cmd {
	case "step":
		return runStep(args, out)
	case "show":
		return runShow(ctx, args, out)
	case "recent":
		return runRecent(ctx, args, out)
	case "serve":
		return runServe(ctx, args, logger)
	}
	return errUsage
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func loadWorld(cfg *app.Config) (*world.World, error) {
	w := world.New(cfg.Width, cfg.Height)
	if err := snapshot.Load(cfg.Snapshot, w); err != nil {
		return nil, err
	}
	return w, nil
}

func printCensus(out io.Writer, w *world.World) {
	c := w.Census()
	fmt.Fprintf(out, "generation %d: conductor %d, head %d, tail %d\n",
		w.Generation(), c[core.Conductor], c[core.ElectronHead], c[core.ElectronTail])
}

// runStep advances a snapshot and writes the result.
func runStep(args []string, out io.Writer) error {
	fs := newFlagSet("step")
	n := fs.Int("n", 1, "generations to advance")
	dst := fs.String("out", "", "output snapshot (default: overwrite -snapshot)")
	cfg, err := app.Configure(fs, args)
	if err != nil {
		return err
	}
	if *n < 0 {
		return errors.Wrapf(app.ErrInvalidConfig, "-n must not be negative, got %d", *n)
	}

	w, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	for i := 0; i < *n; i++ {
		if err := wireworld.Advance(w, cfg.Workers); err != nil {
			return err
		}
	}
	target := *dst
	if target == "" {
		target = cfg.Snapshot
	}
	if err := snapshot.Save(target, w); err != nil {
		return err
	}
	printCensus(out, w)
	return nil
}

// runShow prints a snapshot, optionally animating n generations.
func runShow(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("show")
	n := fs.Int("n", 0, "generations to animate after the first frame")
	cfg, err := app.Configure(fs, args)
	if err != nil {
		return err
	}

	w, err := loadWorld(cfg)
	if err != nil {
		return err
	}
	r := &render.TerminalRenderer{Out: out}
	display := func() error {
		var derr error
		w.View(func(g *core.Grid, gen uint64) { derr = r.Display(g, gen) })
		return derr
	}
	if err := display(); err != nil {
		return err
	}
	for i := 0; i < *n; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(cfg.Delay):
		}
		if err := wireworld.Advance(w, cfg.Workers); err != nil {
			return err
		}
		if err := r.Clear(); err != nil {
			return err
		}
		if err := display(); err != nil {
			return err
		}
	}
	return nil
}

// runRecent lists the newest catalogue entries.
func runRecent(ctx context.Context, args []string, out io.Writer) error {
	fs := newFlagSet("recent")
	limit := fs.Int("limit", 10, "entries to list")
	cfg, err := app.Configure(fs, args)
	if err != nil {
		return err
	}
	if cfg.Catalog == "" {
		return errors.Wrap(app.ErrInvalidConfig, "-catalog is required")
	}

	c, err := catalog.Open(cfg.Catalog)
	if err != nil {
		return err
	}
	defer c.Close()
	entries, err := c.Recent(ctx, *limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SAVED\tSIZE\tGEN\tCOND\tHEAD\tTAIL\tPATH")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%dx%d\t%d\t%d\t%d\t%d\t%s\n",
			e.SavedAt.Local().Format(time.DateTime), e.Size.W, e.Size.H, e.Generation,
			e.Census[core.Conductor], e.Census[core.ElectronHead], e.Census[core.ElectronTail], e.Path)
	}
	return tw.Flush()
}

// runServe runs a headless session until ctx is cancelled, then saves.
func runServe(ctx context.Context, args []string, logger *log.Logger) error {
	cfg, err := app.Configure(newFlagSet("serve"), args)
	if err != nil {
		return err
	}
	rt, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.Start(ctx); err != nil {
		return err
	}
	sess := rt.Session
	<-ctx.Done()
	logger.Printf("shutting down at generation %d", sess.World().Generation())
	return sess.Quit()
}
