package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/export"
	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

// Catalog is the read side of the resource catalog used by the graph routes.
type Catalog interface {
	List(ctx context.Context) ([]resource.Resource, error)
	Get(ctx context.Context, id string) (resource.Resource, error)
	Graph(ctx context.Context) (*relgraph.Graph, error)
}

// graphResponse lists nodes in catalog order rather than as a map.
type graphResponse struct {
	Nodes []*relgraph.Node `json:"nodes"`
	Edges []relgraph.Edge  `json:"edges"`
}

// relatedItem decorates a related node with display fields.
type relatedItem struct {
	relgraph.RelatedNode
	Title    string `json:"title"`
	Category string `json:"category"`
}

type relatedResponse struct {
	ID      string        `json:"id"`
	Related []relatedItem `json:"related"`
}

// RegisterGraphRoutes mounts the read-only catalog and graph endpoints.
// relatedLimit is the default for the related endpoint's limit parameter.
func RegisterGraphRoutes(r chi.Router, c Catalog, relatedLimit int) {
	r.Get("/api/graph", graphHandler(c))
	r.Get("/api/graph/stats", statsHandler(c))
	r.Get("/api/resources", listResourcesHandler(c))
	r.Get("/api/resources/{category}/{slug}", getResourceHandler(c))
	r.Get("/api/resources/{category}/{slug}/related", relatedHandler(c, relatedLimit))
	r.Get("/api/resources/{category}/{slug}/graph", neighborhoodHandler(c))
}

func resourceID(r *http.Request) string {
	return chi.URLParam(r, "category") + "/" + chi.URLParam(r, "slug")
}

func newGraphResponse(g *relgraph.Graph) graphResponse {
	resp := graphResponse{Nodes: make([]*relgraph.Node, 0, g.Len()), Edges: g.Edges}
	for _, id := range g.NodeIDs() {
		resp.Nodes = append(resp.Nodes, g.Nodes[id])
	}
	return resp
}

func graphHandler(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g, err := c.Graph(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if focus := r.URL.Query().Get("focus"); focus != "" {
			depth, ok := intParam(w, r, "depth", 1)
			if !ok {
				return
			}
			g, err = relgraph.Neighborhood(g, focus, depth)
			if err != nil {
				writeError(w, err)
				return
			}
		}
		writeJSON(w, http.StatusOK, newGraphResponse(g))
	}
}

func statsHandler(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		top, ok := intParam(w, r, "top", 10)
		if !ok {
			return
		}
		g, err := c.Graph(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, relgraph.Stats(g, top))
	}
}

func listResourcesHandler(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := c.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rs)
	}
}

func getResourceHandler(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := c.Get(r.Context(), resourceID(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func relatedHandler(c Catalog, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, ok := intParam(w, r, "limit", defaultLimit)
		if !ok {
			return
		}
		g, err := c.Graph(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		id := resourceID(r)
		if _, err := g.Node(id); err != nil {
			writeError(w, err)
			return
		}

		resp := relatedResponse{ID: id, Related: []relatedItem{}}
		for _, rn := range relgraph.Related(g, id, limit) {
			item := relatedItem{RelatedNode: rn}
			if n, err := g.Node(rn.ID); err == nil {
				item.Title, item.Category = n.Title, n.Category
			}
			resp.Related = append(resp.Related, item)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func neighborhoodHandler(c Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		depth, ok := intParam(w, r, "depth", 1)
		if !ok {
			return
		}
		g, err := c.Graph(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		sub, err := relgraph.Neighborhood(g, resourceID(r), depth)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newGraphResponse(sub))
	}
}

// mapHandler settles a fresh layout of the whole catalog and serves it as
// the self-contained HTML map.
func (s *Server) mapHandler(w http.ResponseWriter, r *http.Request) {
	g, err := s.catalog.Graph(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	width, height := s.cfg.MapWidth, s.cfg.MapHeight
	if width <= 0 || height <= 0 {
		width, height = 1200, 800
	}
	sim := layout.New(g, width, height, s.cfg.Layout)
	if err := sim.Settle(r.Context(), nil); err != nil {
		writeError(w, err)
		return
	}

	title := s.cfg.MapTitle
	if title == "" {
		title = "Resource Map"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.WriteHTML(w, export.BuildMapData(g, sim.Snapshot(), title)); err != nil {
		s.log.Warn("writing map failed", zap.Error(err))
	}
}

// intParam reads an integer query parameter, writing a 400 on bad input.
func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		http.Error(w, name+" must be a non-negative integer", http.StatusBadRequest)
		return 0, false
	}
	return v, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, relgraph.ErrNodeNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
