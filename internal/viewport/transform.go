// Package viewport maps simulated layout coordinates onto the screen and
// tracks the pan, zoom and selection state of one graph view.
package viewport

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a translation plus uniform scale:
// screen = layout*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity returns the transform that leaves points unchanged.
func Identity() Transform { return Transform{K: 1} }

// ToScreen maps a layout point to screen space.
func (t Transform) ToScreen(p r2.Vec) r2.Vec {
	return r2.Add(r2.Scale(t.K, p), r2.Vec{X: t.X, Y: t.Y})
}

// ToLayout maps a screen point back to layout space.
func (t Transform) ToLayout(p r2.Vec) r2.Vec {
	return r2.Scale(1/t.K, r2.Sub(p, r2.Vec{X: t.X, Y: t.Y}))
}

// ZoomAt scales t by (1 + delta*sensitivity), clamped to [minK, maxK], and
// translates so the layout point under cursor stays put on screen.
func ZoomAt(t Transform, cursor r2.Vec, delta, sensitivity, minK, maxK float64) Transform {
	k := clamp(t.K*(1+delta*sensitivity), minK, maxK)
	anchor := t.ToLayout(cursor)
	return Transform{
		X: cursor.X - anchor.X*k,
		Y: cursor.Y - anchor.Y*k,
		K: k,
	}
}

// Pan translates t by a screen-space delta.
func Pan(t Transform, dx, dy float64) Transform {
	t.X += dx
	t.Y += dy
	return t
}

// Bounds returns the bounding box of points. ok is false for an empty set.
func Bounds(points []r2.Vec) (min, max r2.Vec, ok bool) {
	if len(points) == 0 {
		return r2.Vec{}, r2.Vec{}, false
	}
	min, max = points[0], points[0]
	for _, p := range points[1:] {
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
	}
	return min, max, true
}

// Fit returns the transform that shows every point inside a width×height
// canvas less padding on each side. It never scales above 1 and centres the
// bounding box midpoint on the canvas.
func Fit(points []r2.Vec, width, height, padding float64) Transform {
	lo, hi, ok := Bounds(points)
	if !ok || width <= 0 || height <= 0 {
		return Identity()
	}
	availW := math.Max(width-2*padding, 1)
	availH := math.Max(height-2*padding, 1)
	k := 1.0
	if bw := hi.X - lo.X; bw > 0 {
		k = math.Min(k, availW/bw)
	}
	if bh := hi.Y - lo.Y; bh > 0 {
		k = math.Min(k, availH/bh)
	}
	mid := r2.Scale(0.5, r2.Add(lo, hi))
	return Transform{
		X: width/2 - mid.X*k,
		Y: height/2 - mid.Y*k,
		K: k,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
