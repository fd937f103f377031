// Package catalog persists imported resources in SQLite and serves the
// relationship graph built from them.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/db"
	"github.com/ziadkadry99/compass/internal/logger"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// ErrNotFound is returned when a resource or import record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultGraphCacheSize is the number of built graphs kept per store.
const DefaultGraphCacheSize = 8

// Import records one Replace call.
type Import struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	Count       int       `json:"resource_count"`
	SourceDir   string    `json:"source_dir,omitempty"`
	ImportedAt  time.Time `json:"imported_at"`
}

// Store provides catalog operations over the resources table.
type Store struct {
	db     *db.DB
	graphs *lru.Cache[string, *relgraph.Graph]
	log    *zap.Logger
}

// NewStore creates a catalog store. Graphs are cached by corpus fingerprint,
// so a rebuild happens only when the stored resources change.
func NewStore(d *db.DB, cacheSize int) (*Store, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultGraphCacheSize
	}
	graphs, err := lru.New[string, *relgraph.Graph](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating graph cache: %w", err)
	}
	return &Store{db: d, graphs: graphs, log: logger.Get().Named("catalog")}, nil
}

// Replace swaps the whole catalog for resources in one transaction. Every
// resource is validated first; a malformed one aborts without touching the
// stored catalog.
func (s *Store) Replace(ctx context.Context, resources []resource.Resource, sourceDir string) (Import, error) {
	for _, r := range resources {
		if err := r.Validate(); err != nil {
			return Import{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM resource_tags`); err != nil {
		return Import{}, fmt.Errorf("clearing tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM resources`); err != nil {
		return Import{}, fmt.Errorf("clearing resources: %w", err)
	}

	now := time.Now().UTC()
	for i, r := range resources {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO resources (id, slug, title, category, summary, html, path, position, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.Slug, r.Title, r.Category, r.Summary, r.HTML, r.Path, i, now,
		)
		if err != nil {
			return Import{}, fmt.Errorf("inserting resource %s: %w", r.ID, err)
		}
		for j, tag := range r.Tags {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO resource_tags (resource_id, position, tag) VALUES (?, ?, ?)`,
				r.ID, j, tag,
			); err != nil {
				return Import{}, fmt.Errorf("inserting tag %q of %s: %w", tag, r.ID, err)
			}
		}
	}

	imp := Import{
		ID:          uuid.NewString(),
		Fingerprint: resource.Fingerprint(resources),
		Count:       len(resources),
		SourceDir:   sourceDir,
		ImportedAt:  now,
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO imports (id, fingerprint, resource_count, source_dir, imported_at) VALUES (?, ?, ?, ?, ?)`,
		imp.ID, imp.Fingerprint, imp.Count, imp.SourceDir, imp.ImportedAt,
	); err != nil {
		return Import{}, fmt.Errorf("recording import: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("committing import: %w", err)
	}
	s.log.Info("catalog replaced",
		zap.Int("resources", imp.Count),
		zap.String("fingerprint", imp.Fingerprint[:12]),
	)
	return imp, nil
}

// List returns every stored resource in import order. Rendered HTML is
// omitted; use Get for the full record.
func (s *Store) List(ctx context.Context) ([]resource.Resource, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, slug, title, category, summary, path FROM resources ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	defer rows.Close()

	result := []resource.Resource{}
	index := make(map[string]int)
	for rows.Next() {
		r := resource.Resource{Tags: []string{}}
		if err := rows.Scan(&r.ID, &r.Slug, &r.Title, &r.Category, &r.Summary, &r.Path); err != nil {
			return nil, fmt.Errorf("scanning resource: %w", err)
		}
		index[r.ID] = len(result)
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing resources: %w", err)
	}
	rows.Close()

	tags, err := s.db.QueryContext(ctx,
		`SELECT resource_id, tag FROM resource_tags ORDER BY resource_id, position`)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()
	for tags.Next() {
		var id, tag string
		if err := tags.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scanning tag: %w", err)
		}
		if i, ok := index[id]; ok {
			result[i].Tags = append(result[i].Tags, tag)
		}
	}
	return result, tags.Err()
}

// Get returns one resource including its rendered HTML.
func (s *Store) Get(ctx context.Context, id string) (resource.Resource, error) {
	r := resource.Resource{Tags: []string{}}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, slug, title, category, summary, html, path FROM resources WHERE id = ?`, id,
	).Scan(&r.ID, &r.Slug, &r.Title, &r.Category, &r.Summary, &r.HTML, &r.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return resource.Resource{}, fmt.Errorf("resource %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return resource.Resource{}, fmt.Errorf("getting resource: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT tag FROM resource_tags WHERE resource_id = ? ORDER BY position`, id)
	if err != nil {
		return resource.Resource{}, fmt.Errorf("getting tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return resource.Resource{}, fmt.Errorf("scanning tag: %w", err)
		}
		r.Tags = append(r.Tags, tag)
	}
	return r, rows.Err()
}

// Count returns the number of stored resources.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resources`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting resources: %w", err)
	}
	return n, nil
}

// LastImport returns the most recent import record.
func (s *Store) LastImport(ctx context.Context) (Import, error) {
	var imp Import
	err := s.db.QueryRowContext(ctx,
		`SELECT id, fingerprint, resource_count, source_dir, imported_at
		 FROM imports ORDER BY rowid DESC LIMIT 1`,
	).Scan(&imp.ID, &imp.Fingerprint, &imp.Count, &imp.SourceDir, &imp.ImportedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Import{}, fmt.Errorf("import: %w", ErrNotFound)
	}
	if err != nil {
		return Import{}, fmt.Errorf("getting last import: %w", err)
	}
	return imp, nil
}

// Graph builds the relationship graph of the stored catalog, reusing a
// cached build when the catalog has not changed.
func (s *Store) Graph(ctx context.Context) (*relgraph.Graph, error) {
	resources, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	key := resource.Fingerprint(resources)
	if g, ok := s.graphs.Get(key); ok {
		return g, nil
	}

	start := time.Now()
	g, err := relgraph.Build(resources)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	s.graphs.Add(key, g)
	s.log.Debug("graph built",
		zap.Int("nodes", g.Len()),
		zap.Int("edges", len(g.Edges)),
		zap.Duration("took", time.Since(start)),
	)
	return g, nil
}
