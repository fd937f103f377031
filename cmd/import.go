package cmd

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/ui"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the markdown content folder into the catalog",
	Long: `Parses every markdown resource under content_dir and replaces the
catalog with the result. A malformed resource aborts the import and leaves
the previous catalog untouched.`,
	RunE: runImport,
}

func init() {
	importCmd.Flags().String("content-dir", "", "content folder (overrides config)")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	start := time.Now()
	ctx := cmd.Context()

	if dir, _ := cmd.Flags().GetString("content-dir"); dir != "" {
		appCfg.ContentDir = dir
	}

	store, closeDB, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeDB()

	out := cmd.OutOrStdout()
	ui.Banner(out, "import")

	imp, err := importContent(ctx, store)
	if err != nil {
		fmt.Fprintf(out, "  %s %v\n", ui.StatusIcon(false), err)
		return err
	}

	g, err := store.Graph(ctx)
	if err != nil {
		return err
	}
	stats := relgraph.Stats(g, 0)

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

	fmt.Fprintf(out, "  %s Imported %d resources with %d relationships from %s in %s\n",
		ui.StatusIcon(true), imp.Count, stats.Edges, appCfg.ContentDir, time.Since(start).Round(time.Millisecond))
	if len(stats.Isolated) > 0 {
		fmt.Fprintf(out, "  %s %d resources have no relationships (see `compass graph`)\n", ui.WarnIcon(), len(stats.Isolated))
	}
	fmt.Fprintf(os.Stderr, "%s\n", ui.Subtle.Sprintf("catalog: %s", appCfg.DBPath()))
	return nil
}
