package layout

import (
	"context"
	"sync"
	"time"
)

// DefaultTickInterval approximates one display refresh.
const DefaultTickInterval = 16 * time.Millisecond

// Runner advances a Simulation one step per tick on its own goroutine and
// serializes every other access to it. Starting, restarting and stopping
// always halt the in-flight loop first, so two loops never step the same
// simulation.
type Runner struct {
	mu  sync.Mutex // guards sim
	sim *Simulation

	loopMu   sync.Mutex // guards the fields below; acquired before mu
	parent   context.Context
	interval time.Duration
	onFrame  func(Snapshot)
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
	gen      uint64
}

// NewRunner wraps sim. Nothing is scheduled until Start.
func NewRunner(sim *Simulation) *Runner {
	return &Runner{sim: sim}
}

// Start begins ticking. onFrame, if non-nil, receives a snapshot after every
// step and is called without the simulation lock held. The loop ends when
// the simulation settles or ctx is cancelled; a later Do that reactivates
// the simulation resumes it.
func (r *Runner) Start(ctx context.Context, interval time.Duration, onFrame func(Snapshot)) {
	r.halt()
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	r.loopMu.Lock()
	r.parent = ctx
	r.interval = interval
	r.onFrame = onFrame
	r.spawnLocked()
	r.loopMu.Unlock()
}

// Restart halts the loop, applies fn (typically Reset or Resize) and
// resumes ticking with the previous settings.
func (r *Runner) Restart(fn func(*Simulation)) {
	r.halt()
	r.mu.Lock()
	if fn != nil {
		fn(r.sim)
	}
	r.mu.Unlock()
	r.loopMu.Lock()
	if r.parent != nil {
		r.spawnLocked()
	}
	r.loopMu.Unlock()
}

// Stop tears the runner down. Later Do calls never restart the loop.
func (r *Runner) Stop() {
	r.halt()
	r.loopMu.Lock()
	r.parent = nil
	r.onFrame = nil
	r.loopMu.Unlock()
}

// Do runs fn with exclusive access to the simulation and resumes the loop
// if fn left it with work to do.
func (r *Runner) Do(fn func(*Simulation)) {
	r.mu.Lock()
	fn(r.sim)
	active := r.sim.Active()
	r.mu.Unlock()
	if active {
		r.wake()
	}
}

// Snapshot returns the current simulation snapshot.
func (r *Runner) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sim.Snapshot()
}

// Running reports whether a tick loop is live.
func (r *Runner) Running() bool {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	return r.running
}

func (r *Runner) wake() {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	if r.parent != nil && !r.running {
		r.spawnLocked()
	}
}

// halt cancels the current loop and waits for it to exit.
func (r *Runner) halt() {
	r.loopMu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.running = false
	r.gen++
	r.loopMu.Unlock()
	if cancel != nil {
		cancel()
		<-done
	}
}

func (r *Runner) spawnLocked() {
	if r.parent.Err() != nil {
		return
	}
	ctx, cancel := context.WithCancel(r.parent)
	done := make(chan struct{})
	r.gen++
	r.cancel, r.done, r.running = cancel, done, true
	go r.loop(ctx, done, r.gen, r.interval, r.onFrame)
}

func (r *Runner) loop(ctx context.Context, done chan struct{}, gen uint64, interval time.Duration, onFrame func(Snapshot)) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		r.sim.Step()
		snap := r.sim.Snapshot()
		r.mu.Unlock()

		if onFrame != nil {
			onFrame(snap)
		}
		if r.finished(gen) {
			return
		}
	}
}

// finished decides, under loopMu, whether the loop for gen should exit. The
// check and the running flag change together so wake cannot miss a
// simulation reactivated in between.
func (r *Runner) finished(gen uint64) bool {
	r.loopMu.Lock()
	defer r.loopMu.Unlock()
	r.mu.Lock()
	active := r.sim.Active()
	r.mu.Unlock()
	if active {
		return false
	}
	if r.gen == gen {
		r.running = false
		r.cancel()
		r.cancel, r.done = nil, nil
	}
	return true
}
