package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/db"
	"github.com/ziadkadry99/compass/internal/logger"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// openCatalog opens the SQLite catalog under the configured data dir. The
// returned close func releases the database.
func openCatalog() (*catalog.Store, func(), error) {
	database, err := db.Open(appCfg.DBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}
	store, err := catalog.NewStore(database, catalog.DefaultGraphCacheSize)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return store, func() { database.Close() }, nil
}

// importContent loads the markdown content dir and replaces the catalog.
func importContent(ctx context.Context, store *catalog.Store) (catalog.Import, error) {
	resources, err := resource.Load(ctx, appCfg.LoaderConfig())
	if err != nil {
		return catalog.Import{}, fmt.Errorf("loading %s: %w", appCfg.ContentDir, err)
	}
	return store.Replace(ctx, resources, appCfg.ContentDir)
}

// ensureImported imports the content dir when reload is set or the catalog
// is still empty.
func ensureImported(ctx context.Context, store *catalog.Store, reload bool) error {
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 && !reload {
		return nil
	}
	imp, err := importContent(ctx, store)
	if err != nil {
		return err
	}
	logger.Get().Info("catalog imported",
		zap.Int("resources", imp.Count),
		zap.String("content_dir", appCfg.ContentDir),
	)
	return nil
}

// loadGraph returns the relationship graph of the catalog, importing the
// content dir first if the catalog is empty.
func loadGraph(ctx context.Context) (*relgraph.Graph, error) {
	store, closeDB, err := openCatalog()
	if err != nil {
		return nil, err
	}
	defer closeDB()

	if err := ensureImported(ctx, store, false); err != nil {
		return nil, err
	}
	return store.Graph(ctx)
}
