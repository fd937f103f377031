package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/ui"
)

var relatedCmd = &cobra.Command{
	Use:   "related <category/slug>",
	Short: "List the resources most related to one resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runRelated,
}

func init() {
	relatedCmd.Flags().IntP("limit", "n", -1, "maximum results (default from config, 0 for all)")
	relatedCmd.Flags().Bool("json", false, "print results as JSON")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	id := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		limit = appCfg.RelatedLimit
	}

	g, err := loadGraph(cmd.Context())
	if err != nil {
		return err
	}
	node, err := g.Node(id)
	if err != nil {
		return err
	}
	related := relgraph.Related(g, id, limit)

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(related)
	}

	ui.Banner(out, "related to "+node.Title)
	if len(related) == 0 {
		fmt.Fprintf(out, "  %s No related resources.\n", ui.WarnIcon())
		return nil
	}

	rows := make([][]string, 0, len(related))
	for i, r := range related {
		title := r.ID
		if n, err := g.Node(r.ID); err == nil {
			title = n.Title
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			ui.Truncate(title, 40),
			r.ID,
			fmt.Sprintf("%.1f", r.Score),
			ui.Truncate(strings.Join(r.Reasons, "; "), 80),
		})
	}
	ui.Table(out, []string{"#", "TITLE", "ID", "SCORE", "REASONS"}, rows)
	return nil
}
