package viewport

import "gonum.org/v1/gonum/spatial/r2"

// Node is a positioned node in layout coordinates.
type Node struct {
	ID  string
	Pos r2.Vec
}

// HitTest returns the node drawn under screen, if any. Later nodes are drawn
// on top and win ties. radius is in screen pixels.
func HitTest(nodes []Node, screen r2.Vec, t Transform, radius float64) (string, bool) {
	for i := len(nodes) - 1; i >= 0; i-- {
		if r2.Norm(r2.Sub(t.ToScreen(nodes[i].Pos), screen)) <= radius {
			return nodes[i].ID, true
		}
	}
	return "", false
}
