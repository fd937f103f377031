package viewport

import (
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Options are the viewport tunables.
type Options struct {
	MinZoom         float64 `json:"min_zoom" yaml:"min_zoom" koanf:"min_zoom"`
	MaxZoom         float64 `json:"max_zoom" yaml:"max_zoom" koanf:"max_zoom"`
	ZoomSensitivity float64 `json:"zoom_sensitivity" yaml:"zoom_sensitivity" koanf:"zoom_sensitivity"`
	FitPadding      float64 `json:"fit_padding" yaml:"fit_padding" koanf:"fit_padding"`
	PanStep         float64 `json:"pan_step" yaml:"pan_step" koanf:"pan_step"`
}

// DefaultOptions returns the stock zoom bounds and step sizes.
func DefaultOptions() Options {
	return Options{
		MinZoom:         0.1,
		MaxZoom:         3,
		ZoomSensitivity: 0.001,
		FitPadding:      50,
		PanStep:         50,
	}
}

// Dragger receives node drags in layout coordinates. *layout.Simulation
// satisfies it.
type Dragger interface {
	BeginDrag(id string)
	UpdateDrag(id string, x, y float64)
	EndDrag(id string)
}

// Direction is a keyboard pan direction.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// ParseDirection accepts "up", "down", "left", "right" and the DOM
// "ArrowUp" style key names.
func ParseDirection(s string) (Direction, bool) {
	switch strings.TrimPrefix(strings.ToLower(s), "arrow") {
	case "up":
		return Up, true
	case "down":
		return Down, true
	case "left":
		return Left, true
	case "right":
		return Right, true
	}
	return 0, false
}

type gesture int

const (
	idle gesture = iota
	panning
	dragging
)

// Controller turns pointer, wheel and keyboard input into transform,
// selection and drag updates. It is not safe for concurrent use.
type Controller struct {
	opts    Options
	dragger Dragger
	width   float64
	height  float64

	transform Transform
	selection Selection

	mode   gesture
	last   r2.Vec
	dragID string
}

// NewController returns a controller with the identity transform. dragger
// may be nil, in which case node drags are ignored.
func NewController(opts Options, dragger Dragger, width, height float64) *Controller {
	return &Controller{
		opts:      opts,
		dragger:   dragger,
		width:     width,
		height:    height,
		transform: Identity(),
	}
}

// Transform returns the current view transform.
func (c *Controller) Transform() Transform { return c.transform }

// SelectedIDs returns the selection in selection order.
func (c *Controller) SelectedIDs() []string { return c.selection.IDs() }

// Selected reports whether id is selected.
func (c *Controller) Selected(id string) bool { return c.selection.Has(id) }

// Dragging returns the id of the node being dragged, if any.
func (c *Controller) Dragging() (string, bool) {
	return c.dragID, c.mode == dragging
}

// SetSize records the canvas size used by FitToView and ZoomCenter.
func (c *Controller) SetSize(width, height float64) {
	c.width, c.height = width, height
}

// PointerDown starts a node drag when hitID names a node and a canvas pan
// otherwise. A press while another gesture is in flight ends that gesture
// first.
func (c *Controller) PointerDown(screen r2.Vec, hitID string) {
	c.PointerUp()
	c.last = screen
	if hitID == "" {
		c.mode = panning
		return
	}
	c.mode = dragging
	c.dragID = hitID
	if c.dragger != nil {
		c.dragger.BeginDrag(hitID)
	}
}

// PointerMove continues the active gesture.
func (c *Controller) PointerMove(screen r2.Vec) {
	switch c.mode {
	case panning:
		d := r2.Sub(screen, c.last)
		c.transform = Pan(c.transform, d.X, d.Y)
	case dragging:
		if c.dragger != nil {
			p := c.transform.ToLayout(screen)
			c.dragger.UpdateDrag(c.dragID, p.X, p.Y)
		}
	}
	c.last = screen
}

// PointerUp ends the active gesture and releases a dragged node.
func (c *Controller) PointerUp() {
	if c.mode == dragging && c.dragger != nil {
		c.dragger.EndDrag(c.dragID)
	}
	c.mode = idle
	c.dragID = ""
}

// Wheel zooms around the screen point under the cursor. Positive deltas
// zoom in.
func (c *Controller) Wheel(screen r2.Vec, delta float64) {
	c.transform = ZoomAt(c.transform, screen, delta, c.opts.ZoomSensitivity, c.opts.MinZoom, c.opts.MaxZoom)
}

// ZoomCenter zooms around the canvas centre.
func (c *Controller) ZoomCenter(delta float64) {
	c.Wheel(r2.Vec{X: c.width / 2, Y: c.height / 2}, delta)
}

// KeyPan moves the view one PanStep in dir.
func (c *Controller) KeyPan(dir Direction) {
	step := c.opts.PanStep
	switch dir {
	case Up:
		c.transform = Pan(c.transform, 0, step)
	case Down:
		c.transform = Pan(c.transform, 0, -step)
	case Left:
		c.transform = Pan(c.transform, step, 0)
	case Right:
		c.transform = Pan(c.transform, -step, 0)
	}
}

// Click toggles hitID in the selection. Without additive, every other id is
// deselected first. Clicking empty canvas does nothing.
func (c *Controller) Click(hitID string, additive bool) {
	if hitID == "" {
		return
	}
	if !additive {
		keep := c.selection.Has(hitID)
		c.selection.Clear()
		if keep {
			c.selection.Add(hitID)
		}
	}
	c.selection.Toggle(hitID)
}

// FitToView frames points inside the canvas.
func (c *Controller) FitToView(points []r2.Vec) {
	c.transform = Fit(points, c.width, c.height, c.opts.FitPadding)
}

// ResetTransform restores the identity transform. The selection is kept.
func (c *Controller) ResetTransform() { c.transform = Identity() }

// ClearSelection empties the selection. The transform is kept.
func (c *Controller) ClearSelection() { c.selection.Clear() }
