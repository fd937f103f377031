// Package explorer hosts independent interactive graph views. Each view owns
// its own simulation, tick loop and viewport, so several can run at once
// without sharing position state.
package explorer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/viewport"
)

// HitRadius is the screen-space radius used when an event names a point
// rather than a node.
const HitRadius = 12.0

// maxStepsPerEvent bounds a single step event.
const maxStepsPerEvent = 10_000

var (
	ErrViewNotFound = errors.New("view not found")
	ErrUnknownEvent = errors.New("unknown event type")
	ErrInvalidEvent = errors.New("invalid event")
)

// Event is user input fed back from the presentation layer. It is the only
// write path into a view.
type Event struct {
	Type     string  `json:"type"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	NodeID   string  `json:"node_id,omitempty"`
	Delta    float64 `json:"delta,omitempty"`
	Key      string  `json:"key,omitempty"`
	Additive bool    `json:"additive,omitempty"`
	Width    float64 `json:"width,omitempty"`
	Height   float64 `json:"height,omitempty"`
	N        int     `json:"n,omitempty"`
}

// Event types.
const (
	EventWheel       = "wheel"
	EventPointerDown = "pointerdown"
	EventPointerMove = "pointermove"
	EventPointerUp   = "pointerup"
	EventKey         = "key"
	EventClick       = "click"
	EventClear       = "clear"
	EventReset       = "reset"
	EventFit         = "fit"
	EventResize      = "resize"
	EventStep        = "step"
)

// Frame is everything the presentation layer needs to draw one view.
type Frame struct {
	ID        string                `json:"id"`
	State     layout.State          `json:"state"`
	Iteration int                   `json:"iteration"`
	Width     float64               `json:"width"`
	Height    float64               `json:"height"`
	Positions []layout.NodePosition `json:"positions"`
	Transform viewport.Transform    `json:"transform"`
	Selection []string              `json:"selection"`
}

// View is one interactive layout of a graph.
type View struct {
	id      string
	graph   *relgraph.Graph
	runner  *layout.Runner
	created time.Time

	mu   sync.Mutex // serializes Apply; acquired before the runner lock
	ctrl *viewport.Controller

	// frameMu guards the viewport copy read by the tick loop, which must
	// never wait on mu.
	frameMu   sync.Mutex
	transform viewport.Transform
	selection []string

	subsMu sync.Mutex
	subs   map[chan Frame]struct{}
	closed bool
}

func newView(id string, g *relgraph.Graph, width, height float64, lopts layout.Options, vopts viewport.Options) *View {
	v := &View{
		id:        id,
		graph:     g,
		runner:    layout.NewRunner(layout.New(g, width, height, lopts)),
		created:   time.Now(),
		transform: viewport.Identity(),
		selection: []string{},
		subs:      make(map[chan Frame]struct{}),
	}
	v.ctrl = viewport.NewController(vopts, runnerDragger{v.runner}, width, height)
	return v
}

// ID returns the view identifier.
func (v *View) ID() string { return v.id }

// Graph returns the graph the view lays out.
func (v *View) Graph() *relgraph.Graph { return v.graph }

// Created returns when the view was opened.
func (v *View) Created() time.Time { return v.created }

// Frame returns the current state of the view.
func (v *View) Frame() Frame {
	return v.frame(v.runner.Snapshot())
}

func (v *View) frame(snap layout.Snapshot) Frame {
	v.frameMu.Lock()
	t := v.transform
	sel := append([]string{}, v.selection...)
	v.frameMu.Unlock()
	return Frame{
		ID:        v.id,
		State:     snap.State,
		Iteration: snap.Iteration,
		Width:     snap.Width,
		Height:    snap.Height,
		Positions: snap.Positions,
		Transform: t,
		Selection: sel,
	}
}

// Apply feeds one input event into the view and returns the resulting
// frame. Events naming unknown nodes are ignored.
func (v *View) Apply(ev Event) (Frame, error) {
	v.mu.Lock()
	err := v.apply(ev)
	v.frameMu.Lock()
	v.transform = v.ctrl.Transform()
	v.selection = v.ctrl.SelectedIDs()
	v.frameMu.Unlock()
	v.mu.Unlock()
	if err != nil {
		return Frame{}, err
	}
	f := v.Frame()
	v.publish(f)
	return f, nil
}

func (v *View) apply(ev Event) error {
	screen := r2.Vec{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case EventWheel:
		v.ctrl.Wheel(screen, ev.Delta)
	case EventPointerDown:
		v.ctrl.PointerDown(screen, v.hit(ev))
	case EventPointerMove:
		v.ctrl.PointerMove(screen)
	case EventPointerUp:
		v.ctrl.PointerUp()
	case EventKey:
		dir, ok := viewport.ParseDirection(ev.Key)
		if !ok {
			return fmt.Errorf("%w: key %q", ErrInvalidEvent, ev.Key)
		}
		v.ctrl.KeyPan(dir)
	case EventClick:
		v.ctrl.Click(v.hit(ev), ev.Additive)
	case EventClear:
		v.ctrl.ClearSelection()
	case EventReset:
		v.ctrl.ResetTransform()
	case EventFit:
		v.ctrl.FitToView(v.runner.Snapshot().Points())
	case EventResize:
		if ev.Width < 0 || ev.Height < 0 {
			return fmt.Errorf("%w: negative canvas size", ErrInvalidEvent)
		}
		v.ctrl.PointerUp()
		v.ctrl.SetSize(ev.Width, ev.Height)
		v.runner.Restart(func(s *layout.Simulation) { s.Resize(ev.Width, ev.Height) })
	case EventStep:
		n := ev.N
		if n <= 0 {
			n = 1
		}
		if n > maxStepsPerEvent {
			return fmt.Errorf("%w: step count %d exceeds %d", ErrInvalidEvent, n, maxStepsPerEvent)
		}
		v.runner.Do(func(s *layout.Simulation) { s.Run(n) })
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

// hit resolves the node an event refers to: the named node if it exists,
// otherwise whatever is drawn under the event point.
func (v *View) hit(ev Event) string {
	if ev.NodeID != "" {
		if _, err := v.graph.Node(ev.NodeID); err != nil {
			return ""
		}
		return ev.NodeID
	}
	snap := v.runner.Snapshot()
	nodes := make([]viewport.Node, len(snap.Positions))
	for i, p := range snap.Positions {
		nodes[i] = viewport.Node{ID: p.ID, Pos: r2.Vec{X: p.X, Y: p.Y}}
	}
	id, _ := viewport.HitTest(nodes, r2.Vec{X: ev.X, Y: ev.Y}, v.ctrl.Transform(), HitRadius)
	return id
}

// Subscribe returns a channel that receives the latest frame after every
// tick and event. Slow readers only ever see the newest frame. Call the
// returned func to unsubscribe.
func (v *View) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 1)
	v.subsMu.Lock()
	if v.closed {
		close(ch)
		v.subsMu.Unlock()
		return ch, func() {}
	}
	v.subs[ch] = struct{}{}
	v.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.subsMu.Lock()
			defer v.subsMu.Unlock()
			if _, ok := v.subs[ch]; ok {
				delete(v.subs, ch)
				close(ch)
			}
		})
	}
}

func (v *View) onTick(snap layout.Snapshot) {
	v.publish(v.frame(snap))
}

func (v *View) publish(f Frame) {
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	for ch := range v.subs {
		select {
		case ch <- f:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- f:
			default:
			}
		}
	}
}

// close stops the tick loop and ends every subscription.
func (v *View) close() {
	v.runner.Stop()
	v.subsMu.Lock()
	defer v.subsMu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	for ch := range v.subs {
		delete(v.subs, ch)
		close(ch)
	}
}

// runnerDragger routes viewport drags through the runner lock.
type runnerDragger struct{ r *layout.Runner }

func (d runnerDragger) BeginDrag(id string) {
	d.r.Do(func(s *layout.Simulation) { s.BeginDrag(id) })
}

func (d runnerDragger) UpdateDrag(id string, x, y float64) {
	d.r.Do(func(s *layout.Simulation) { s.UpdateDrag(id, x, y) })
}

func (d runnerDragger) EndDrag(id string) {
	d.r.Do(func(s *layout.Simulation) { s.EndDrag(id) })
}
