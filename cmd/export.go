package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/export"
	"github.com/ziadkadry99/compass/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a self-contained HTML map of the settled layout",
	Long: `Settles the layout offline and writes a single HTML page with the
positioned graph, category colours and relationship reasons. Use --json to
also write the map data.`,
	RunE: runExport,
}

func init() {
	addCanvasFlags(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "output file (default <data_dir>/map.html)")
	exportCmd.Flags().Bool("json", false, "also write the map data next to the HTML file")
	exportCmd.Flags().String("title", "Resource Map", "page title")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	g, err := loadGraph(ctx)
	if err != nil {
		return err
	}
	snap, err := settle(ctx, cmd, g)
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = filepath.Join(appCfg.DataDir, "map.html")
	}
	title, _ := cmd.Flags().GetString("title")

	if err := export.Write(output, g, snap, title); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %s Map written to %s\n", ui.StatusIcon(true), output)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		jsonPath := output[:len(output)-len(filepath.Ext(output))] + ".json"
		if err := export.Write(jsonPath, g, snap, title); err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s Map data written to %s\n", ui.StatusIcon(true), jsonPath)
	}
	return nil
}
