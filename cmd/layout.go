package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/progress"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/ui"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Run the force layout headless and print the settled positions",
	RunE:  runLayout,
}

func init() {
	addCanvasFlags(layoutCmd)
	layoutCmd.Flags().Bool("json", false, "print the snapshot as JSON")
	rootCmd.AddCommand(layoutCmd)
}

// addCanvasFlags registers the flags shared by the headless layout commands.
func addCanvasFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("width", 0, "canvas width (default from config)")
	cmd.Flags().Float64("height", 0, "canvas height (default from config)")
	cmd.Flags().Int64("seed", 0, "random seed for placement (0 picks one)")
}

// settle runs a fresh simulation of g to Settled, reporting progress on
// stderr.
func settle(ctx context.Context, cmd *cobra.Command, g *relgraph.Graph) (layout.Snapshot, error) {
	width, _ := cmd.Flags().GetFloat64("width")
	height, _ := cmd.Flags().GetFloat64("height")
	if width <= 0 {
		width = appCfg.Layout.Width
	}
	if height <= 0 {
		height = appCfg.Layout.Height
	}
	opts := appCfg.Layout.Options
	if seed, _ := cmd.Flags().GetInt64("seed"); seed != 0 {
		opts.Seed = seed
	}

	sim := layout.New(g, width, height, opts)
	if !sim.Active() {
		return sim.Snapshot(), nil
	}

	reporter := progress.NewReporter()
	reporter.Start(opts.MaxIterations, "Settling layout")
	err := sim.Settle(ctx, func(iteration, _ int) {
		reporter.Update(iteration, "")
	})
	reporter.Finish()
	if err != nil {
		return layout.Snapshot{}, fmt.Errorf("layout interrupted: %w", err)
	}
	return sim.Snapshot(), nil
}

func runLayout(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	g, err := loadGraph(ctx)
	if err != nil {
		return err
	}
	snap, err := settle(ctx, cmd, g)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}

	ui.Banner(out, fmt.Sprintf("layout %gx%g, %s after %d iterations", snap.Width, snap.Height, snap.State, snap.Iteration))
	rows := make([][]string, 0, len(snap.Positions))
	for _, p := range snap.Positions {
		rows = append(rows, []string{p.ID, fmt.Sprintf("%.1f", p.X), fmt.Sprintf("%.1f", p.Y)})
	}
	ui.Table(out, []string{"ID", "X", "Y"}, rows)
	return nil
}
