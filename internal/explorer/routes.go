package explorer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/compass/internal/relgraph"
)

// GraphSource supplies the graph new views are opened on.
type GraphSource interface {
	Graph(ctx context.Context) (*relgraph.Graph, error)
}

// createRequest opens a view. Focus restricts the view to the neighbourhood
// of one resource.
type createRequest struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Focus  string  `json:"focus,omitempty"`
	Depth  int     `json:"depth,omitempty"`
}

// RegisterRoutes mounts the view endpoints on the given router.
func RegisterRoutes(r chi.Router, m *Manager, source GraphSource) {
	r.Post("/api/views", createViewHandler(m, source))
	r.Get("/api/views/{id}", getViewHandler(m))
	r.Delete("/api/views/{id}", deleteViewHandler(m))
	r.Post("/api/views/{id}/events", eventHandler(m))
	r.Post("/api/views/{id}/step", stepHandler(m))
	r.Get("/ws/views/{id}", wsHandler(m))
}

func createViewHandler(m *Manager, source GraphSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := createRequest{Width: 1200, Height: 800, Depth: 1}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		g, err := source.Graph(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if req.Focus != "" {
			g, err = relgraph.Neighborhood(g, req.Focus, req.Depth)
			if err != nil {
				http.Error(w, err.Error(), http.StatusNotFound)
				return
			}
		}

		v, err := m.Create(g, req.Width, req.Height)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, v.Frame())
	}
}

func getViewHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, v.Frame())
	}
}

func deleteViewHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := m.Delete(chi.URLParam(r, "id")); err != nil {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func eventHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		var ev Event
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		f, err := v.Apply(ev)
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func stepHandler(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := m.Get(chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "view not found", http.StatusNotFound)
			return
		}
		n := 1
		if s := r.URL.Query().Get("n"); s != "" {
			n, err = strconv.Atoi(s)
			if err != nil || n < 1 {
				http.Error(w, "n must be a positive integer", http.StatusBadRequest)
				return
			}
		}
		f, err := v.Apply(Event{Type: EventStep, N: n})
		if err != nil {
			writeEventError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func writeEventError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnknownEvent), errors.Is(err, ErrInvalidEvent):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrViewNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
