package relgraph

import "sort"

// RelatedNode is one entry of a related-item query.
type RelatedNode struct {
	ID      string   `json:"id"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons"`
}

// Related aggregates the edges incident to id into a list of related nodes,
// highest score first. Ties keep the order in which the other endpoint was
// first reached. A limit <= 0 returns every related node; an id with no
// edges, or one absent from g, yields an empty list.
func Related(g *Graph, id string, limit int) []RelatedNode {
	out := make([]RelatedNode, 0)
	index := make(map[string]int)
	seenReason := make(map[string]map[string]bool)

	for _, e := range g.Incident(id) {
		other := e.Other(id)
		if other == id {
			continue
		}
		i, ok := index[other]
		if !ok {
			i = len(out)
			index[other] = i
			out = append(out, RelatedNode{ID: other, Reasons: []string{}})
			seenReason[other] = make(map[string]bool)
		}
		out[i].Score += e.Weight
		for _, r := range e.Reasons {
			if seenReason[other][r] {
				continue
			}
			seenReason[other][r] = true
			out[i].Reasons = append(out[i].Reasons, r)
		}
	}

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Neighborhood returns the subgraph induced by the nodes within depth hops
// of id, keeping the original node and edge order.
func Neighborhood(g *Graph, id string, depth int) (*Graph, error) {
	if _, err := g.Node(id); err != nil {
		return nil, err
	}
	if depth < 0 {
		depth = 0
	}

	keep := map[string]bool{id: true}
	frontier := []string{id}
	for d := 0; d < depth && len(frontier) > 0; d++ {
		var next []string
		for _, n := range frontier {
			for _, e := range g.Incident(n) {
				o := e.Other(n)
				if !keep[o] {
					keep[o] = true
					next = append(next, o)
				}
			}
		}
		frontier = next
	}

	sub := newGraph(len(keep))
	for _, nid := range g.order {
		if keep[nid] {
			sub.addNode(g.Nodes[nid])
		}
	}
	for _, e := range g.Edges {
		if keep[e.Source] && keep[e.Target] {
			sub.addEdge(e)
		}
	}
	return sub, nil
}
