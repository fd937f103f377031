package cmd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/ui"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Summarize the relationship graph",
	Long:  `Prints node, edge and category counts, the most common tags and any isolated resources. With --json the full graph is printed instead.`,
	RunE:  runGraph,
}

func init() {
	graphCmd.Flags().Bool("json", false, "print the full graph as JSON")
	graphCmd.Flags().Int("top", 10, "number of top tags to show")
	graphCmd.Flags().String("focus", "", "restrict to the neighbourhood of this resource id")
	graphCmd.Flags().Int("depth", 1, "neighbourhood depth used with --focus")
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	g, err := loadGraph(cmd.Context())
	if err != nil {
		return err
	}

	if focus, _ := cmd.Flags().GetString("focus"); focus != "" {
		depth, _ := cmd.Flags().GetInt("depth")
		if g, err = relgraph.Neighborhood(g, focus, depth); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		nodes := make([]*relgraph.Node, 0, g.Len())
		for _, id := range g.NodeIDs() {
			nodes = append(nodes, g.Nodes[id])
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Nodes []*relgraph.Node `json:"nodes"`
			Edges []relgraph.Edge  `json:"edges"`
		}{nodes, g.Edges})
	}

	top, _ := cmd.Flags().GetInt("top")
	stats := relgraph.Stats(g, top)

	ui.Banner(out, "graph")
	ui.Table(out, []string{"METRIC", "VALUE"}, [][]string{
		{"Resources", strconv.Itoa(stats.Nodes)},
		{"Relationships", strconv.Itoa(stats.Edges)},
		{"Mean degree", fmt.Sprintf("%.2f", stats.MeanDegree)},
		{"Total weight", fmt.Sprintf("%.1f", stats.TotalWeight)},
		{"Isolated", strconv.Itoa(len(stats.Isolated))},
	})
	fmt.Fprintln(out)

	cats := make([]string, 0, len(stats.Categories))
	for c := range stats.Categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		rows = append(rows, []string{c, strconv.Itoa(stats.Categories[c])})
	}
	ui.Table(out, []string{"CATEGORY", "RESOURCES"}, rows)
	fmt.Fprintln(out)

	rows = rows[:0]
	for _, tc := range stats.TopTags {
		rows = append(rows, []string{tc.Tag, strconv.Itoa(tc.Count)})
	}
	ui.Table(out, []string{"TAG", "RESOURCES"}, rows)

	if len(stats.Isolated) > 0 {
		fmt.Fprintf(out, "\n  %s Isolated resources:\n", ui.WarnIcon())
		for _, id := range stats.Isolated {
			fmt.Fprintf(out, "    %s\n", ui.Subtle.Sprint(id))
		}
	}
	return nil
}
