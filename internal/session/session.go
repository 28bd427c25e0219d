// Package session ties one editable world to its scheduler, editor and
// snapshot file, and exposes the command vocabulary the front ends use.
package session

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"

	"wireworld/internal/core"
	"wireworld/internal/editor"
	"wireworld/internal/persistence/catalog"
	"wireworld/internal/persistence/snapshot"
	"wireworld/internal/sched"
	"wireworld/internal/sims/wireworld"
	"wireworld/internal/transport/observer"
	"wireworld/internal/world"
)

const (
	delayStep = 10 * time.Millisecond
	maxDelay  = 2 * time.Second
)

// Recorder stores metadata about saved snapshots.
type Recorder interface {
	Record(ctx context.Context, e catalog.Entry) error
}

// Publisher receives a frame after every generation and edit.
type Publisher interface {
	Publish(f observer.Frame)
}

// Options configures a Session.
type Options struct {
	Width, Height int
	Scale         int
	Delay         time.Duration
	Workers       int
	// Snapshot is loaded by Open and written by Save and Quit.
	Snapshot string
	// DataDir receives copies of worlds opened through Replace.
	DataDir string

	Catalog  Recorder
	Observer Publisher
	Logger   *log.Logger
}

// Session is safe for use from the UI goroutine while its scheduler runs.
type Session struct {
	log    *log.Logger
	world  *world.World
	engine *wireworld.Wireworld
	sched  *sched.Scheduler
	editor *editor.Editor

	catalog  Recorder
	observer Publisher
	dataDir  string

	mu   sync.Mutex
	path string
}

// Open builds a session and loads its snapshot. A missing snapshot yields an
// empty world; a malformed one is an error.
func Open(opts Options) (*Session, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(os.Stdout, "[wireworld] ", log.LstdFlags|log.Lmicroseconds)
	}
	if opts.DataDir == "" {
		opts.DataDir = "."
	}

	w := world.New(opts.Width, opts.Height)
	s := &Session{
		log:      opts.Logger,
		world:    w,
		engine:   wireworld.New(w, opts.Workers),
		editor:   editor.New(w, opts.Scale, core.ElectronHead),
		catalog:  opts.Catalog,
		observer: opts.Observer,
		dataDir:  opts.DataDir,
		path:     opts.Snapshot,
	}
	s.sched = sched.New(s.engine, opts.Delay)
	s.sched.OnStep(s.publish)
	s.sched.OnStateChange(func(st sched.State) {
		s.log.Printf("simulation %s at generation %d", st, s.world.Generation())
		s.publish()
	})

	if opts.Snapshot != "" {
		if err := snapshot.Load(opts.Snapshot, w); err != nil {
			return nil, err
		}
		s.log.Printf("loaded %s (%dx%d)", opts.Snapshot, w.Size().W, w.Size().H)
	}
	return s, nil
}

// Start launches the simulation in the Running state.
func (s *Session) Start(ctx context.Context) error {
	return s.sched.Start(ctx)
}

// Toggle pauses a running simulation or resumes a paused one.
func (s *Session) Toggle() sched.State { return s.sched.Toggle() }

// State reports the scheduler state.
func (s *Session) State() sched.State { return s.sched.State() }

// StepOnce advances exactly one generation unless the scheduler is running.
func (s *Session) StepOnce() bool {
	if !s.sched.StepIfIdle() {
		return false
	}
	s.publish()
	return true
}

// Delay reports the pause between generations.
func (s *Session) Delay() time.Duration { return s.sched.Delay() }

// SetDelay clamps d to [0, 2s] and applies it.
func (s *Session) SetDelay(d time.Duration) time.Duration {
	d = min(max(d, 0), maxDelay)
	s.sched.SetDelay(d)
	return d
}

// AdjustDelay moves the delay by one 10ms step in direction.
func (s *Session) AdjustDelay(direction int) time.Duration {
	return s.SetDelay(s.Delay() + time.Duration(direction)*delayStep)
}

// Brush reports the cell kind that painting writes.
func (s *Session) Brush() core.Cell { return s.editor.Brush() }

// CycleBrush moves the brush one step up (+1) or down (-1).
func (s *Session) CycleBrush(direction int) core.Cell { return s.editor.CycleBrush(direction) }

// PaintAt paints the cell under the screen pixel (px, py).
func (s *Session) PaintAt(px, py int) bool {
	if !s.editor.PaintAt(px, py) {
		return false
	}
	s.publish()
	return true
}

// CellAt maps a screen pixel to a cell coordinate.
func (s *Session) CellAt(px, py int) (core.Coord, bool) { return s.editor.CellAt(px, py) }

// Scale reports the pixels per cell.
func (s *Session) Scale() int { return s.editor.Scale() }

// World exposes the shared grid.
func (s *Session) World() *world.World { return s.world }

// Snapshot reports the path Save writes to.
func (s *Session) Snapshot() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}

// Title is the window title for the current snapshot.
func (s *Session) Title() string {
	return "Wireworld - " + filepath.Base(s.Snapshot())
}

// Save writes the world to the session's snapshot path and records it in the
// catalogue. The file and the catalogue entry describe the same generation.
// Catalogue failures are logged, not returned.
func (s *Session) Save() error {
	path := s.Snapshot()
	if path == "" {
		return errors.New("[Save] session has no snapshot path")
	}

	size := s.world.Size()
	g := core.NewGrid(size.W, size.H)
	var gen uint64
	s.world.View(func(src *core.Grid, n uint64) {
		g.CopyFrom(src)
		gen = n
	})
	if err := snapshot.SaveGrid(path, g); err != nil {
		return err
	}
	s.log.Printf("saved %s at generation %d", path, gen)

	if s.catalog != nil {
		e := catalog.Entry{
			Path:       path,
			Size:       size,
			Generation: gen,
			Census:     g.Census(),
			SavedAt:    time.Now(),
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.catalog.Record(ctx, e); err != nil {
			s.log.Printf("catalog: %v", err)
		}
	}
	return nil
}

// Replace saves the current world, then loads the snapshot at path. The
// loaded world is saved under DataDir from then on.
func (s *Session) Replace(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "[Replace] failed to open snapshot: %+v", path)
	}
	defer f.Close()
	return s.ReplaceFrom(f, path)
}

// ReplaceFrom is Replace for an already opened snapshot; name selects the
// framing and the new snapshot file name under DataDir, reported by Snapshot
// as an absolute path. The world is untouched when the previous world cannot
// be saved or the new one does not decode.
func (s *Session) ReplaceFrom(src io.Reader, name string) error {
	if err := s.Save(); err != nil {
		return errors.Wrap(err, "[Replace] failed to save current world")
	}
	if err := snapshot.LoadFrom(src, name, s.world); err != nil {
		return err
	}
	next := filepath.Join(s.dataDir, filepath.Base(name))
	if abs, err := filepath.Abs(next); err == nil {
		next = abs
	}
	s.mu.Lock()
	s.path = next
	s.mu.Unlock()

	s.log.Printf("replaced world with %s, saving to %s", name, next)
	s.publish()
	return nil
}

// Quit stops the simulation and saves the world.
func (s *Session) Quit() error {
	s.sched.Stop()
	return s.Save()
}

// Frame captures the current world for observers.
func (s *Session) Frame() observer.Frame {
	var f observer.Frame
	s.world.View(func(g *core.Grid, gen uint64) {
		f = observer.NewFrame(gen, s.sched.State().String(), g.Size(), g.Cells())
	})
	return f
}

func (s *Session) publish() {
	if s.observer == nil {
		return
	}
	s.observer.Publish(s.Frame())
}

// Name, Size, Reset, Step and Cells let the presentation layer treat the
// session as a core.Sim.

func (s *Session) Name() string       { return s.engine.Name() }
func (s *Session) Size() core.Size    { return s.world.Size() }
func (s *Session) Cells() []core.Cell { return s.world.Cells() }
func (s *Session) Step()              { s.StepOnce() }
func (s *Session) Reset()             { s.world.Clear(); s.publish() }

// Parameters reports the HUD read-outs.
func (s *Session) Parameters() core.ParameterSnapshot {
	census := s.world.Census()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Simulation",
			Params: []core.Parameter{
				{Key: "state", Label: "State", Type: core.ParamTypeString, Value: s.State().String()},
				{Key: "generation", Label: "Generation", Type: core.ParamTypeInt, Value: strconv.FormatUint(s.world.Generation(), 10)},
				{Key: "delay_ms", Label: "Delay (ms)", Type: core.ParamTypeInt, Value: strconv.FormatInt(s.Delay().Milliseconds(), 10)},
			},
		},
		{
			Name: "Editor",
			Params: []core.Parameter{
				{Key: "brush", Label: "Brush", Type: core.ParamTypeString, Value: s.Brush().String()},
				{Key: "snapshot", Label: "Saves to", Type: core.ParamTypeString, Value: s.Snapshot()},
			},
		},
		{
			Name: "Census",
			Params: []core.Parameter{
				{Key: "conductor", Label: "Conductor", Type: core.ParamTypeInt, Value: strconv.Itoa(census[core.Conductor])},
				{Key: "head", Label: "Head", Type: core.ParamTypeInt, Value: strconv.Itoa(census[core.ElectronHead])},
				{Key: "tail", Label: "Tail", Type: core.ParamTypeInt, Value: strconv.Itoa(census[core.ElectronTail])},
			},
		},
	}}
}

// ParameterControls lists the HUD-adjustable values.
func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{{
		Key:    "delay_ms",
		Label:  "Delay (ms)",
		Type:   core.ParamTypeInt,
		Step:   float64(delayStep.Milliseconds()),
		Min:    0,
		Max:    float64(maxDelay.Milliseconds()),
		HasMin: true,
		HasMax: true,
	}}
}

// SetIntParameter applies a HUD adjustment.
func (s *Session) SetIntParameter(key string, value int) bool {
	if key != "delay_ms" {
		return false
	}
	s.SetDelay(time.Duration(value) * time.Millisecond)
	return true
}

var _ core.Sim = (*Session)(nil)
