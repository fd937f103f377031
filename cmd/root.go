package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/compass/internal/config"
	"github.com/ziadkadry99/compass/internal/logger"
)

var (
	cfgFile string
	verbose bool

	// appCfg is loaded before every command runs.
	appCfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Explore relationships across a catalog of tagged resources",
	Long: `Compass imports a folder of markdown resources, infers a weighted
relationship graph from their tags, categories and titles, and lays the
graph out with a force simulation you can explore in the browser, export
as a static map, or query from AI agents via MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w\nRun `compass init` to create a config file", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", cfgFile, err)
		}
		appCfg = cfg

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		return logger.Init(string(cfg.Log.Env), level)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
