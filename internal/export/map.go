// Package export renders a settled layout as a self-contained HTML map or
// as JSON.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/viewport"
)

// DefaultFitPadding is the screen margin kept around the fitted layout.
const DefaultFitPadding = 50

// MapNode is one positioned resource.
type MapNode struct {
	ID     string   `json:"id"`
	Label  string   `json:"label"`
	Group  string   `json:"group"`
	Tags   []string `json:"tags"`
	Degree int      `json:"degree"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
}

// MapEdge is one weighted relationship.
type MapEdge struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Weight  float64  `json:"weight"`
	Reasons []string `json:"reasons"`
}

// MapCategory assigns a colour to one category.
type MapCategory struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

// MapData is everything the HTML map needs.
type MapData struct {
	Title      string             `json:"title"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	State      layout.State       `json:"state"`
	Iteration  int                `json:"iteration"`
	Transform  viewport.Transform `json:"transform"`
	Nodes      []MapNode          `json:"nodes"`
	Edges      []MapEdge          `json:"edges"`
	Categories []MapCategory      `json:"categories"`
}

var categoryColors = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2",
	"#59a14f", "#edc948", "#b07aa1", "#ff9da7",
	"#9c755f", "#bab0ac", "#86bcb6", "#8cd17d",
}

// BuildMapData joins g with the positions in snap. Nodes missing from the
// snapshot are dropped along with their edges. Categories are coloured in
// order of first appearance.
func BuildMapData(g *relgraph.Graph, snap layout.Snapshot, title string) MapData {
	pos := make(map[string]layout.NodePosition, len(snap.Positions))
	for _, p := range snap.Positions {
		pos[p.ID] = p
	}

	data := MapData{
		Title:      title,
		Width:      snap.Width,
		Height:     snap.Height,
		State:      snap.State,
		Iteration:  snap.Iteration,
		Transform:  viewport.Identity(),
		Nodes:      make([]MapNode, 0, len(snap.Positions)),
		Edges:      make([]MapEdge, 0),
		Categories: make([]MapCategory, 0),
	}

	catIndex := make(map[string]int)
	points := make([]r2.Vec, 0, len(snap.Positions))
	for _, id := range g.NodeIDs() {
		p, ok := pos[id]
		if !ok {
			continue
		}
		n := g.Nodes[id]
		tags := n.Tags
		if tags == nil {
			tags = []string{}
		}
		data.Nodes = append(data.Nodes, MapNode{
			ID:     id,
			Label:  n.Title,
			Group:  n.Category,
			Tags:   tags,
			Degree: g.Degree(id),
			X:      p.X,
			Y:      p.Y,
		})
		points = append(points, r2.Vec{X: p.X, Y: p.Y})

		i, seen := catIndex[n.Category]
		if !seen {
			i = len(data.Categories)
			catIndex[n.Category] = i
			data.Categories = append(data.Categories, MapCategory{
				Name:  n.Category,
				Color: categoryColors[i%len(categoryColors)],
			})
		}
		data.Categories[i].Count++
	}

	for _, e := range g.Edges {
		if _, ok := pos[e.Source]; !ok {
			continue
		}
		if _, ok := pos[e.Target]; !ok {
			continue
		}
		data.Edges = append(data.Edges, MapEdge{Source: e.Source, Target: e.Target, Weight: e.Weight, Reasons: e.Reasons})
	}

	data.Transform = viewport.Fit(points, snap.Width, snap.Height, DefaultFitPadding)
	return data
}

// WriteJSON encodes d as indented JSON.
func WriteJSON(w io.Writer, d MapData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteHTML renders d into the self-contained map page.
func WriteHTML(w io.Writer, d MapData) error {
	jsonBytes, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling map data: %w", err)
	}
	page := strings.Replace(mapHTML, "/*__GRAPH_DATA__*/null", string(jsonBytes), 1)
	_, err = io.WriteString(w, page)
	return err
}

// Write builds the map for g at snap and writes it to path. A .json
// extension selects JSON output; anything else gets the HTML page.
func Write(path string, g *relgraph.Graph, snap layout.Snapshot, title string) error {
	data := BuildMapData(g, snap, title)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = WriteJSON(f, data)
	} else {
		err = WriteHTML(f, data)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
