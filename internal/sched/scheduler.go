package sched

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// State is the scheduler lifecycle state.
type State int32

const (
	Stopped State = iota
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Paused:
		return "paused"
	}
	return "stopped"
}

var (
	// ErrStarted is returned by Start on a scheduler that is already running.
	ErrStarted = errors.New("scheduler already started")
	// ErrStopped is returned by Start once the scheduler has been stopped.
	ErrStopped = errors.New("scheduler stopped")
)

// Stepper advances a simulation by one generation.
type Stepper interface {
	Step()
}

// Scheduler drives a Stepper from its own goroutine with a fixed delay between
// generations. A step that has begun always runs to completion; pause and stop
// only affect the next one.
type Scheduler struct {
	stepper Stepper

	// gate is held while a step is in flight and while the state changes, so
	// that no step starts after Toggle or Stop return.
	gate sync.Mutex

	mu      sync.Mutex
	state   State
	delay   time.Duration
	started bool

	onStep  func()
	onState func(State)

	wake chan struct{}
	done chan struct{}
}

// New creates a stopped scheduler. Negative delays are treated as zero, which
// advances generations back to back.
func New(stepper Stepper, delay time.Duration) *Scheduler {
	if delay < 0 {
		delay = 0
	}
	return &Scheduler{
		stepper: stepper,
		delay:   delay,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// OnStep registers fn to run on the scheduler goroutine after every step. It
// must be called before Start, and fn must not call Stop.
func (s *Scheduler) OnStep(fn func()) { s.onStep = fn }

// OnStateChange registers fn to run after every state transition. It must be
// called before Start.
func (s *Scheduler) OnStateChange(fn func(State)) { s.onState = fn }

// Start launches the tick goroutine in the Running state. Cancelling ctx stops
// the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	switch {
	case s.started && s.state == Stopped:
		s.mu.Unlock()
		return ErrStopped
	case s.started:
		s.mu.Unlock()
		return ErrStarted
	}
	s.started = true
	s.state = Running
	s.mu.Unlock()

	s.notify(Running)
	go s.run(ctx)
	return nil
}

// Toggle flips between Running and Paused and returns the new state. It is a
// no-op on a stopped scheduler.
func (s *Scheduler) Toggle() State {
	s.gate.Lock()
	s.mu.Lock()
	switch s.state {
	case Running:
		s.state = Paused
	case Paused:
		s.state = Running
	}
	next := s.state
	s.mu.Unlock()
	s.gate.Unlock()

	if next != Stopped {
		s.signal()
		s.notify(next)
	}
	return next
}

// Stop moves the scheduler to the terminal Stopped state and waits for the
// tick goroutine to exit. An in-flight step is allowed to finish.
func (s *Scheduler) Stop() {
	s.gate.Lock()
	s.mu.Lock()
	prev := s.state
	s.state = Stopped
	started := s.started
	s.started = true
	s.mu.Unlock()
	s.gate.Unlock()

	if prev != Stopped {
		s.signal()
		s.notify(Stopped)
	}
	if started {
		<-s.done
	}
}

// StepIfIdle runs one step on the caller's goroutine unless the scheduler is
// Running. The state cannot change while the step is in flight.
func (s *Scheduler) StepIfIdle() bool {
	s.gate.Lock()
	defer s.gate.Unlock()
	if s.State() == Running {
		return false
	}
	s.stepper.Step()
	return true
}

// State reports the current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Delay reports the wait between generations.
func (s *Scheduler) Delay() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delay
}

// SetDelay changes the wait between generations. A pending wait restarts with
// the new delay.
func (s *Scheduler) SetDelay(d time.Duration) {
	if d < 0 {
		d = 0
	}
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
	s.signal()
}

// Done is closed once the tick goroutine has exited.
func (s *Scheduler) Done() <-chan struct{} { return s.done }

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.done)
	for {
		s.mu.Lock()
		state, delay := s.state, s.delay
		s.mu.Unlock()

		switch state {
		case Stopped:
			return
		case Paused:
			select {
			case <-s.wake:
			case <-ctx.Done():
				s.cancel()
				return
			}
			continue
		}

		if !s.wait(ctx, delay) {
			if ctx.Err() != nil {
				s.cancel()
				return
			}
			continue
		}

		s.gate.Lock()
		stepped := s.State() == Running
		if stepped {
			s.stepper.Step()
		}
		s.gate.Unlock()

		if stepped && s.onStep != nil {
			s.onStep()
		}
	}
}

// wait sleeps for delay. It returns false when woken early by a state or
// delay change, or by ctx.
func (s *Scheduler) wait(ctx context.Context, delay time.Duration) bool {
	if delay <= 0 {
		select {
		case <-s.wake:
			return false
		case <-ctx.Done():
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.wake:
		return false
	case <-ctx.Done():
		return false
	}
}

func (s *Scheduler) cancel() {
	s.mu.Lock()
	prev := s.state
	s.state = Stopped
	s.mu.Unlock()
	if prev != Stopped {
		s.notify(Stopped)
	}
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) notify(state State) {
	if s.onState != nil {
		s.onState(state)
	}
}
