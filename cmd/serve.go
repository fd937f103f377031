package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/explorer"
	"github.com/ziadkadry99/compass/internal/logger"
	"github.com/ziadkadry99/compass/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server with the graph API and interactive views",
	Long: `Starts the compass HTTP server: the read-only graph and resource API,
the static map at /map, and interactive layout views streamed over
websockets at /ws/views/{id}.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides config)")
	serveCmd.Flags().Bool("reload", false, "re-import the content folder before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.Get().Named("serve")

	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		appCfg.Server.Port = port
	}
	reload, _ := cmd.Flags().GetBool("reload")

	store, closeDB, err := openCatalog()
	if err != nil {
		return err
	}
	defer closeDB()

	if err := ensureImported(ctx, store, reload); err != nil {
		return err
	}
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}

	views, err := explorer.NewManager(ctx, explorer.Config{
		MaxViews:     appCfg.Server.MaxViews,
		TickInterval: appCfg.Server.TickInterval,
		Layout:       appCfg.Layout.Options,
		Viewport:     appCfg.Viewport.Options,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Port:         appCfg.Server.Port,
		AllowAll:     appCfg.Server.AllowAllOrigins,
		RelatedLimit: appCfg.RelatedLimit,
		Layout:       appCfg.Layout.Options,
		MapWidth:     appCfg.Layout.Width,
		MapHeight:    appCfg.Layout.Height,
	}, store, views)

	// Graceful shutdown.
	go func() {
		<-ctx.Done()
		fmt.Fprintln(os.Stderr, "\nShutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown failed", zap.Error(err))
		}
	}()

	fmt.Fprintf(os.Stderr, "compass server v%s starting on port %d\n", Version, appCfg.Server.Port)
	fmt.Fprintf(os.Stderr, "  Catalog: %s\n", appCfg.DBPath())
	fmt.Fprintf(os.Stderr, "  Resources: %d\n", count)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
