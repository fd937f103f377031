// Package relgraph infers a weighted, reason-annotated relationship graph
// over a corpus of tagged resources.
package relgraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/compass/internal/resource"
)

// ErrNodeNotFound is returned by lookups for ids absent from the graph.
var ErrNodeNotFound = errors.New("node not found")

// Signal weights.
const (
	sharedTagWeight = 2.0
	categoryWeight  = 1.0
	keywordWeight   = 0.5
	bucketWeight    = 0.3
	maxReasonItems  = 3
)

// Node is a graph vertex representing one catalog resource.
type Node struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
}

// Edge is an undirected weighted relationship between two nodes. Source is
// the endpoint that came first in the builder's input.
type Edge struct {
	Source  string   `json:"source"`
	Target  string   `json:"target"`
	Weight  float64  `json:"weight"`
	Reasons []string `json:"reasons"`
}

// Other returns the endpoint of e that is not id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Graph is an immutable snapshot built from one resource list.
type Graph struct {
	Nodes map[string]*Node `json:"nodes"`
	Edges []Edge           `json:"edges"`

	order    []string
	incident map[string][]int
}

func newGraph(n int) *Graph {
	return &Graph{
		Nodes:    make(map[string]*Node, n),
		Edges:    make([]Edge, 0),
		order:    make([]string, 0, n),
		incident: make(map[string][]int, n),
	}
}

// NodeIDs returns node ids in the order they were supplied to Build.
func (g *Graph) NodeIDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, error) {
	n, ok := g.Nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return n, nil
}

// Incident returns the edges touching id, in edge-list order.
func (g *Graph) Incident(id string) []Edge {
	idx := g.incident[id]
	out := make([]Edge, 0, len(idx))
	for _, i := range idx {
		out = append(out, g.Edges[i])
	}
	return out
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id string) int { return len(g.incident[id]) }

func (g *Graph) addNode(n *Node) {
	if _, exists := g.Nodes[n.ID]; !exists {
		g.order = append(g.order, n.ID)
	}
	g.Nodes[n.ID] = n
}

func (g *Graph) addEdge(e Edge) {
	g.Edges = append(g.Edges, e)
	i := len(g.Edges) - 1
	g.incident[e.Source] = append(g.incident[e.Source], i)
	g.incident[e.Target] = append(g.incident[e.Target], i)
}

// Build derives the relationship graph for resources. Every unordered pair
// of distinct resources is scored; an edge exists only when the score is
// positive. A repeated id keeps its first resource and later ones are
// skipped, so every unordered pair has at most one edge. A resource missing
// its category or tags aborts the build.
func Build(resources []resource.Resource) (*Graph, error) {
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("building graph: %w", err)
		}
	}

	g := newGraph(len(resources))
	prepared := make([]scored, 0, len(resources))
	for _, r := range resources {
		if _, dup := g.Nodes[r.ID]; dup {
			continue
		}
		s := prepare(r)
		g.addNode(&Node{ID: r.ID, Title: r.Title, Category: r.Category, Tags: s.tags})
		prepared = append(prepared, s)
	}

	for i := 0; i < len(prepared); i++ {
		for j := i + 1; j < len(prepared); j++ {
			a, b := prepared[i], prepared[j]
			weight, reasons := score(a, b)
			if weight <= 0 {
				continue
			}
			g.addEdge(Edge{Source: a.id, Target: b.id, Weight: weight, Reasons: reasons})
		}
	}
	return g, nil
}

// Score computes the pairwise relationship weight and reasons for a and b.
func Score(a, b resource.Resource) (float64, []string) {
	return score(prepare(a), prepare(b))
}

// scored caches per-resource features so pair evaluation stays cheap.
type scored struct {
	id       string
	category string
	tags     []string
	tagSet   map[string]bool
	keywords []string
	kwSet    map[string]bool
	buckets  []Bucket
}

func prepare(r resource.Resource) scored {
	s := scored{
		id:       r.ID,
		category: r.Category,
		tags:     make([]string, 0, len(r.Tags)),
		tagSet:   make(map[string]bool, len(r.Tags)),
		keywords: TitleKeywords(r.Title),
	}
	// Tags are a set; repeats keep their first position.
	for _, t := range r.Tags {
		if !s.tagSet[t] {
			s.tagSet[t] = true
			s.tags = append(s.tags, t)
		}
	}
	s.buckets = Buckets(s.tags)
	s.kwSet = make(map[string]bool, len(s.keywords))
	for _, k := range s.keywords {
		s.kwSet[k] = true
	}
	return s
}

func score(a, b scored) (float64, []string) {
	var weight float64
	var reasons []string

	shared := intersect(a.tags, b.tagSet)
	if len(shared) > 0 {
		weight += sharedTagWeight * float64(len(shared))
		reasons = append(reasons, "Shared tags: "+summarize(shared))
	}

	if a.category == b.category {
		weight += categoryWeight
		reasons = append(reasons, "Same category: "+a.category)
	}

	if overlap := intersect(a.keywords, b.kwSet); len(overlap) > 0 {
		weight += keywordWeight * float64(len(overlap))
		reasons = append(reasons, "Related terms: "+summarize(overlap))
	}

	// Bucket overlap only breaks ties between resources with no direct tags
	// in common.
	if len(shared) == 0 {
		if common := intersectBuckets(a.buckets, b.buckets); len(common) > 0 {
			weight += bucketWeight * float64(len(common))
			names := make([]string, len(common))
			for i, c := range common {
				names[i] = string(c)
			}
			reasons = append(reasons, "Shared themes: "+strings.Join(names, ", "))
		}
	}

	return weight, reasons
}

// intersect returns the items of ordered that are in other, keeping order.
func intersect(ordered []string, other map[string]bool) []string {
	var out []string
	for _, s := range ordered {
		if other[s] {
			out = append(out, s)
		}
	}
	return out
}

func intersectBuckets(a, b []Bucket) []Bucket {
	var out []Bucket
	for _, x := range a {
		for _, y := range b {
			if x == y {
				out = append(out, x)
				break
			}
		}
	}
	return out
}

// summarize lists at most maxReasonItems items and notes how many were left
// out.
func summarize(items []string) string {
	if len(items) <= maxReasonItems {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:maxReasonItems], ", "), len(items)-maxReasonItems)
}
