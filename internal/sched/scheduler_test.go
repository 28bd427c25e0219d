package sched

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
)

type counter struct{ n atomic.Int64 }

func (c *counter) Step() { c.n.Add(1) }

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRunningAdvances(t *testing.T) {
	c := &counter{}
	s := New(c, time.Millisecond)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	waitFor(t, "three steps", func() bool { return c.n.Load() >= 3 })
	if s.State() != Running {
		t.Fatalf("state = %v", s.State())
	}
}

func TestPausedNeverAdvances(t *testing.T) {
	c := &counter{}
	s := New(c, time.Millisecond)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	waitFor(t, "first step", func() bool { return c.n.Load() >= 1 })

	if got := s.Toggle(); got != Paused {
		t.Fatalf("toggle -> %v, expected paused", got)
	}
	before := c.n.Load()
	time.Sleep(30 * time.Millisecond)
	if after := c.n.Load(); after != before {
		t.Fatalf("advanced %d times while paused", after-before)
	}

	if got := s.Toggle(); got != Running {
		t.Fatalf("toggle -> %v, expected running", got)
	}
	waitFor(t, "resume", func() bool { return c.n.Load() > before })
}

func TestStopWhilePausedIsPrompt(t *testing.T) {
	s := New(&counter{}, time.Hour)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Toggle()

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked while paused")
	}
	if s.State() != Stopped {
		t.Fatalf("state = %v", s.State())
	}
	if s.Toggle() != Stopped {
		t.Fatal("toggle must not revive a stopped scheduler")
	}
}

func TestStopInterruptsLongDelay(t *testing.T) {
	c := &counter{}
	s := New(c, time.Hour)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	start := time.Now()
	s.Stop()
	if time.Since(start) > time.Second {
		t.Fatal("Stop waited for the full delay")
	}
	if c.n.Load() != 0 {
		t.Fatalf("stepped %d times before the first delay elapsed", c.n.Load())
	}
}

func TestSetDelayWakesWait(t *testing.T) {
	c := &counter{}
	s := New(c, time.Hour)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	s.SetDelay(time.Millisecond)
	waitFor(t, "step after delay change", func() bool { return c.n.Load() >= 1 })
	if s.Delay() != time.Millisecond {
		t.Fatalf("delay = %v", s.Delay())
	}
}

func TestContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(&counter{}, time.Millisecond)
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	cancel()
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler ignored context cancellation")
	}
	if s.State() != Stopped {
		t.Fatalf("state = %v", s.State())
	}
}

func TestStartTwice(t *testing.T) {
	s := New(&counter{}, time.Millisecond)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := s.Start(context.Background()); !errors.Is(err, ErrStarted) {
		t.Fatalf("second start: %v", err)
	}
	s.Stop()
	if err := s.Start(context.Background()); !errors.Is(err, ErrStopped) {
		t.Fatalf("start after stop: %v", err)
	}
	// Stop is idempotent.
	s.Stop()
}

func TestHooks(t *testing.T) {
	c := &counter{}
	s := New(c, 0)

	var mu sync.Mutex
	var states []State
	var steps atomic.Int64
	s.OnStep(func() { steps.Add(1) })
	s.OnStateChange(func(st State) {
		mu.Lock()
		states = append(states, st)
		mu.Unlock()
	})

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, "hooked steps", func() bool { return steps.Load() >= 5 })
	s.Toggle()
	s.Stop()

	if steps.Load() != c.n.Load() {
		t.Fatalf("OnStep ran %d times for %d steps", steps.Load(), c.n.Load())
	}
	mu.Lock()
	defer mu.Unlock()
	want := []State{Running, Paused, Stopped}
	if len(states) != len(want) {
		t.Fatalf("states = %v", states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("states = %v, expected %v", states, want)
		}
	}
}

type gatedStepper struct {
	n       atomic.Int64
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStepper) Step() {
	g.n.Add(1)
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.release
}

func TestStepIfIdle(t *testing.T) {
	g := &gatedStepper{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := New(g, time.Hour)
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if s.Toggle() != Paused {
		t.Fatal("expected paused")
	}

	stepped := make(chan bool, 1)
	go func() { stepped <- s.StepIfIdle() }()
	<-g.entered

	toggled := make(chan State, 1)
	go func() { toggled <- s.Toggle() }()
	select {
	case <-toggled:
		t.Fatal("Toggle returned while a manual step was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(g.release)
	if !<-stepped {
		t.Fatal("StepIfIdle should step while paused")
	}
	if st := <-toggled; st != Running {
		t.Fatalf("toggle = %v", st)
	}
	if s.StepIfIdle() {
		t.Fatal("StepIfIdle must not step while running")
	}
	if n := g.n.Load(); n != 1 {
		t.Fatalf("steps = %d, expected 1", n)
	}
}
