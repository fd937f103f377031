package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/compass/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing related-resource and graph tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeDB, err := openCatalog()
		if err != nil {
			return err
		}
		defer closeDB()

		if err := ensureImported(cmd.Context(), store, false); err != nil {
			return err
		}
		count, err := store.Count(cmd.Context())
		if err != nil {
			return err
		}

		// Set version from the cmd package variable.
		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "compass MCP server started on stdio (catalog=%s, resources=%d)\n", appCfg.DBPath(), count)

		srv := mcpserver.NewServer(store, appCfg.RelatedLimit)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
