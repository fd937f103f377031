package relgraph

import "sort"

// TagCount pairs a tag with the number of nodes carrying it.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// GraphStats holds summary counts for a graph.
type GraphStats struct {
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	Categories  map[string]int `json:"categories"`
	TopTags     []TagCount     `json:"top_tags"`
	Isolated    []string       `json:"isolated"`
	MeanDegree  float64        `json:"mean_degree"`
	TotalWeight float64        `json:"total_weight"`
}

// Stats summarizes g. topTags bounds the TopTags list; <= 0 keeps ten.
func Stats(g *Graph, topTags int) GraphStats {
	if topTags <= 0 {
		topTags = 10
	}
	s := GraphStats{
		Nodes:      g.Len(),
		Edges:      len(g.Edges),
		Categories: make(map[string]int),
		TopTags:    []TagCount{},
		Isolated:   []string{},
	}

	tagCounts := make(map[string]int)
	var tagOrder []string
	for _, id := range g.order {
		n := g.Nodes[id]
		s.Categories[n.Category]++
		for _, t := range n.Tags {
			if tagCounts[t] == 0 {
				tagOrder = append(tagOrder, t)
			}
			tagCounts[t]++
		}
		if g.Degree(id) == 0 {
			s.Isolated = append(s.Isolated, id)
		}
	}
	for _, e := range g.Edges {
		s.TotalWeight += e.Weight
	}
	if s.Nodes > 0 {
		s.MeanDegree = 2 * float64(s.Edges) / float64(s.Nodes)
	}

	for _, t := range tagOrder {
		s.TopTags = append(s.TopTags, TagCount{Tag: t, Count: tagCounts[t]})
	}
	sort.SliceStable(s.TopTags, func(i, j int) bool { return s.TopTags[i].Count > s.TopTags[j].Count })
	if len(s.TopTags) > topTags {
		s.TopTags = s.TopTags[:topTags]
	}
	return s
}
