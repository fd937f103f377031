package explorer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/logger"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/viewport"
)

// Config controls view creation.
type Config struct {
	MaxViews     int
	TickInterval time.Duration
	Layout       layout.Options
	Viewport     viewport.Options
}

// Manager owns the open views. When MaxViews is reached the least recently
// used view is closed to make room.
type Manager struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc
	views  *lru.Cache[string, *View]
	log    *zap.Logger
}

// NewManager creates a manager whose tick loops live until ctx is done or
// Close is called.
func NewManager(ctx context.Context, cfg Config) (*Manager, error) {
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = 16
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = layout.DefaultTickInterval
	}
	m := &Manager{cfg: cfg, log: logger.Get().Named("explorer")}
	views, err := lru.NewWithEvict(cfg.MaxViews, func(id string, v *View) {
		v.close()
		m.log.Debug("view closed", zap.String("view_id", id))
	})
	if err != nil {
		return nil, fmt.Errorf("explorer: view cache: %w", err)
	}
	m.views = views
	m.ctx, m.cancel = context.WithCancel(ctx)
	return m, nil
}

// Create opens a view of g on a width×height canvas and starts its tick
// loop. A zero-sized canvas opens the view without simulating until a
// resize event arrives.
func (m *Manager) Create(g *relgraph.Graph, width, height float64) (*View, error) {
	if g == nil {
		return nil, fmt.Errorf("explorer: nil graph")
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative canvas size", ErrInvalidEvent)
	}
	v := newView(uuid.NewString(), g, width, height, m.cfg.Layout, m.cfg.Viewport)
	v.runner.Start(m.ctx, m.cfg.TickInterval, v.onTick)
	m.views.Add(v.id, v)
	m.log.Debug("view opened",
		zap.String("view_id", v.id),
		zap.Int("nodes", g.Len()),
		zap.Int("edges", len(g.Edges)),
	)
	return v, nil
}

// Get returns the view with the given id.
func (m *Manager) Get(id string) (*View, error) {
	v, ok := m.views.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return v, nil
}

// Delete closes and forgets a view.
func (m *Manager) Delete(id string) error {
	if !m.views.Remove(id) {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	return nil
}

// Len returns the number of open views.
func (m *Manager) Len() int { return m.views.Len() }

// Close stops every view.
func (m *Manager) Close() {
	m.views.Purge()
	m.cancel()
}
