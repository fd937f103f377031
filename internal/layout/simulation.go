// Package layout computes 2-D positions for a relationship graph with an
// iterative force simulation that the caller advances one step at a time.
package layout

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ziadkadry99/compass/internal/relgraph"
)

// State is the lifecycle phase of a Simulation.
type State int

const (
	Uninitialized State = iota
	Placing
	Simulating
	Settled
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Placing:
		return "placing"
	case Simulating:
		return "simulating"
	case Settled:
		return "settled"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON frames.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText parses a state name written by MarshalText.
func (s *State) UnmarshalText(b []byte) error {
	for _, st := range []State{Uninitialized, Placing, Simulating, Settled} {
		if st.String() == string(b) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("layout: unknown state %q", b)
}

// NodePosition is the published position of one node. FX and FY are set
// while the node is pinned.
type NodePosition struct {
	ID string   `json:"id"`
	X  float64  `json:"x"`
	Y  float64  `json:"y"`
	VX float64  `json:"vx"`
	VY float64  `json:"vy"`
	FX *float64 `json:"fx,omitempty"`
	FY *float64 `json:"fy,omitempty"`
}

// Pinned reports whether the position is manually fixed.
func (p NodePosition) Pinned() bool { return p.FX != nil && p.FY != nil }

// Snapshot is an immutable copy of the simulation state.
type Snapshot struct {
	State     State          `json:"state"`
	Iteration int            `json:"iteration"`
	Width     float64        `json:"width"`
	Height    float64        `json:"height"`
	Positions []NodePosition `json:"positions"`
}

// Points returns the snapshot positions as vectors, in node order.
func (s Snapshot) Points() []r2.Vec {
	out := make([]r2.Vec, len(s.Positions))
	for i, p := range s.Positions {
		out[i] = r2.Vec{X: p.X, Y: p.Y}
	}
	return out
}

type body struct {
	pos    r2.Vec
	vel    r2.Vec
	pinned bool
}

type spring struct {
	other  int
	weight float64
}

// Simulation is a single force-directed layout instance. It is not safe for
// concurrent use; wrap it in a Runner when other goroutines need access.
type Simulation struct {
	opts          Options
	width, height float64

	ids     []string
	index   map[string]int
	bodies  []body
	springs [][]spring

	state  State
	iter   int
	budget int
	rng    *rand.Rand
}

// New creates a simulation for g on a width×height canvas and places the
// nodes immediately when the canvas has a positive size.
func New(g *relgraph.Graph, width, height float64, opts Options) *Simulation {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Simulation{
		opts:   opts,
		width:  width,
		height: height,
		index:  make(map[string]int),
		rng:    rand.New(rand.NewSource(seed)),
	}
	if g != nil {
		s.ids = g.NodeIDs()
	}
	for i, id := range s.ids {
		s.index[id] = i
	}
	s.bodies = make([]body, len(s.ids))
	s.springs = make([][]spring, len(s.ids))
	if g != nil {
		for _, e := range g.Edges {
			a, okA := s.index[e.Source]
			b, okB := s.index[e.Target]
			if !okA || !okB || a == b {
				continue
			}
			s.springs[a] = append(s.springs[a], spring{other: b, weight: e.Weight})
			s.springs[b] = append(s.springs[b], spring{other: a, weight: e.Weight})
		}
	}
	s.Reset()
	return s
}

// State returns the lifecycle phase.
func (s *Simulation) State() State { return s.state }

// Iteration returns the number of completed steps since the last placement.
func (s *Simulation) Iteration() int { return s.iter }

// Size returns the canvas dimensions.
func (s *Simulation) Size() (width, height float64) { return s.width, s.height }

// Len returns the number of nodes.
func (s *Simulation) Len() int { return len(s.ids) }

// Active reports whether further steps will move nodes.
func (s *Simulation) Active() bool { return s.state == Placing || s.state == Simulating }

// Resize changes the canvas and re-places every node. Same-size calls are
// ignored.
func (s *Simulation) Resize(width, height float64) {
	if width == s.width && height == s.height {
		return
	}
	s.width, s.height = width, height
	s.Reset()
}

// Reset discards all positions and pins and starts a fresh placement. The
// simulation stays Uninitialized while the canvas is unmeasured or there are
// no nodes.
func (s *Simulation) Reset() {
	s.state = Uninitialized
	s.iter = 0
	s.budget = s.opts.MaxIterations
	if len(s.ids) == 0 || s.width <= 0 || s.height <= 0 {
		return
	}
	s.place()
	s.state = Placing
}

// place lays the nodes out on a jittered grid sized to the canvas aspect.
func (s *Simulation) place() {
	n := len(s.ids)
	aspect := s.width / s.height
	cols := int(math.Ceil(math.Sqrt(float64(n) * aspect)))
	if cols < 1 {
		cols = 1
	}
	if cols > n {
		cols = n
	}
	rows := (n + cols - 1) / cols
	cellW := s.width / float64(cols)
	cellH := s.height / float64(rows)

	for i := range s.bodies {
		col, row := i%cols, i/cols
		x := (float64(col)+0.5)*cellW + s.jitter(cellW)
		y := (float64(row)+0.5)*cellH + s.jitter(cellH)
		s.bodies[i] = body{pos: s.clamp(r2.Vec{X: x, Y: y})}
	}
}

func (s *Simulation) jitter(cell float64) float64 {
	return (s.rng.Float64()*2 - 1) * jitterFraction * cell
}

// clamp keeps p inside the padded canvas. A canvas narrower than twice the
// padding collapses onto its midline.
func (s *Simulation) clamp(p r2.Vec) r2.Vec {
	return r2.Vec{
		X: clampAxis(p.X, s.opts.Padding, s.width),
		Y: clampAxis(p.Y, s.opts.Padding, s.height),
	}
}

func clampAxis(v, pad, dim float64) float64 {
	lo, hi := pad, dim-pad
	if hi < lo {
		return dim / 2
	}
	return math.Max(lo, math.Min(hi, v))
}

// Alpha returns the force multiplier for the current iteration.
func (s *Simulation) Alpha() float64 {
	return math.Max(s.opts.AlphaMin, 1-float64(s.iter)*s.opts.AlphaDecay)
}

// Step advances the simulation by one iteration and reports whether more
// iterations remain. It is a no-op outside Placing and Simulating.
func (s *Simulation) Step() bool {
	switch s.state {
	case Placing:
		s.state = Simulating
	case Simulating:
	default:
		return false
	}
	if s.iter >= s.budget {
		s.state = Settled
		return false
	}

	alpha := s.Alpha()
	forces := make([]r2.Vec, len(s.bodies))
	for i := range s.bodies {
		if !s.bodies[i].pinned {
			forces[i] = s.force(i, alpha)
		}
	}
	for i := range s.bodies {
		b := &s.bodies[i]
		if b.pinned {
			continue
		}
		b.vel = r2.Scale(s.opts.VelocityDamping, r2.Add(b.vel, r2.Scale(velocityGain, forces[i])))
		b.pos = s.clamp(r2.Add(b.pos, b.vel))
	}

	s.iter++
	if s.iter >= s.budget {
		s.state = Settled
		return false
	}
	return true
}

// Run performs up to n steps and returns how many ran.
func (s *Simulation) Run(n int) int {
	ran := 0
	for ran < n && s.Active() {
		s.Step()
		ran++
	}
	return ran
}

// Settle steps until the layout settles or ctx is done. onStep, if non-nil,
// receives the iteration count and the current budget after every step.
func (s *Simulation) Settle(ctx context.Context, onStep func(iteration, budget int)) error {
	for s.Active() {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.Step()
		if onStep != nil {
			onStep(s.iter, s.budget)
		}
	}
	return nil
}

// force sums repulsion against every other node, spring pull along incident
// edges, and centre gravity for node i.
func (s *Simulation) force(i int, alpha float64) r2.Vec {
	p := s.bodies[i].pos
	var f r2.Vec

	for j := range s.bodies {
		if j == i {
			continue
		}
		dir, d := s.direction(s.bodies[j].pos, p)
		if d < s.opts.MinSpacing {
			f = r2.Add(f, r2.Scale((s.opts.MinSpacing-d)*hardRepulsionGain*alpha, dir))
		}
		f = r2.Add(f, r2.Scale(s.opts.Repulsion*alpha/(d*d), dir))
	}

	for _, sp := range s.springs[i] {
		dir, d := s.direction(p, s.bodies[sp.other].pos)
		ideal := s.opts.SpringLength + s.opts.SpringWeight*sp.weight
		mag := (d - ideal) * alpha * springStiffness / math.Max(sp.weight, 1)
		f = r2.Add(f, r2.Scale(mag, dir))
	}

	center := r2.Vec{X: s.width / 2, Y: s.height / 2}
	f = r2.Add(f, r2.Scale(s.opts.Gravity*alpha, r2.Sub(center, p)))
	return f
}

// direction returns the unit vector from a to b and their distance, never
// less than the distance floor. Nodes that coincide get a random direction
// so the pair can separate.
func (s *Simulation) direction(a, b r2.Vec) (r2.Vec, float64) {
	delta := r2.Sub(b, a)
	d := r2.Norm(delta)
	if d < coincident {
		theta := s.rng.Float64() * 2 * math.Pi
		return r2.Vec{X: math.Cos(theta), Y: math.Sin(theta)}, distanceFloor
	}
	return r2.Scale(1/d, delta), math.Max(d, distanceFloor)
}

// Pin fixes id at (x, y), clamped to the canvas, and zeroes its velocity.
// Unknown ids are ignored.
func (s *Simulation) Pin(id string, x, y float64) {
	i, ok := s.index[id]
	if !ok || s.state == Uninitialized {
		return
	}
	b := &s.bodies[i]
	b.pinned = true
	b.pos = s.clamp(r2.Vec{X: x, Y: y})
	b.vel = r2.Vec{}
}

// Unpin releases id back to the simulation. Releasing a node after the
// layout settled grants ReheatIterations further steps so the neighbourhood
// can adapt to where the node was dropped.
func (s *Simulation) Unpin(id string) {
	i, ok := s.index[id]
	if !ok || !s.bodies[i].pinned {
		return
	}
	s.bodies[i].pinned = false
	if s.state == Settled && s.opts.ReheatIterations > 0 {
		s.budget = s.iter + s.opts.ReheatIterations
		s.state = Simulating
	}
}

// BeginDrag pins id where it currently is.
func (s *Simulation) BeginDrag(id string) {
	if i, ok := s.index[id]; ok {
		p := s.bodies[i].pos
		s.Pin(id, p.X, p.Y)
	}
}

// UpdateDrag moves the dragged node to (x, y).
func (s *Simulation) UpdateDrag(id string, x, y float64) { s.Pin(id, x, y) }

// EndDrag releases the dragged node.
func (s *Simulation) EndDrag(id string) { s.Unpin(id) }

// Position returns the current position of id.
func (s *Simulation) Position(id string) (r2.Vec, bool) {
	i, ok := s.index[id]
	if !ok || s.state == Uninitialized {
		return r2.Vec{}, false
	}
	return s.bodies[i].pos, true
}

// Snapshot returns a deep copy of the current positions in node order. An
// uninitialized simulation has no positions.
func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		State:     s.state,
		Iteration: s.iter,
		Width:     s.width,
		Height:    s.height,
		Positions: []NodePosition{},
	}
	if s.state == Uninitialized {
		return snap
	}
	snap.Positions = make([]NodePosition, len(s.bodies))
	for i, b := range s.bodies {
		np := NodePosition{ID: s.ids[i], X: b.pos.X, Y: b.pos.Y, VX: b.vel.X, VY: b.vel.Y}
		if b.pinned {
			fx, fy := b.pos.X, b.pos.Y
			np.FX, np.FY = &fx, &fy
		}
		snap.Positions[i] = np
	}
	return snap
}
