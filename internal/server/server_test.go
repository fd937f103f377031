package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ziadkadry99/compass/internal/catalog"
	"github.com/ziadkadry99/compass/internal/db"
	"github.com/ziadkadry99/compass/internal/explorer"
	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
)

func testResources() []resource.Resource {
	return []resource.Resource{
		{ID: "methods/lean-canvas", Slug: "lean-canvas", Category: "methods", Title: "Lean Canvas", Tags: []string{"startups", "business-model"}, HTML: "<p>One page.</p>"},
		{ID: "methods/pitch", Slug: "pitch", Category: "methods", Title: "Pitch Deck", Tags: []string{"startups"}},
		{ID: "reports/outlook", Slug: "outlook", Category: "reports", Title: "Climate Outlook", Tags: []string{"climate"}},
	}
}

func newTestServer(t *testing.T, cfg Config, withViews bool) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store, err := catalog.NewStore(database, 0)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if _, err := store.Replace(context.Background(), testResources(), "content"); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	var views *explorer.Manager
	if withViews {
		views, err = explorer.NewManager(context.Background(), explorer.Config{
			MaxViews:     2,
			TickInterval: time.Hour,
			Layout:       layout.DefaultOptions(),
		})
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
	}

	srv := New(cfg, store, views)
	t.Cleanup(func() { srv.Shutdown(context.Background()) })
	return srv
}

func serve(srv *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0}, false)

	w := serve(srv, "GET", "/healthz")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, Config{Port: 0, AllowAll: true}, false)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestGraphRoute(t *testing.T) {
	srv := newTestServer(t, Config{}, false)

	w := serve(srv, "GET", "/api/graph")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp graphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Nodes) != 3 || resp.Nodes[0].ID != "methods/lean-canvas" {
		t.Errorf("nodes = %+v", resp.Nodes)
	}
	if len(resp.Edges) != 1 {
		t.Fatalf("edges = %+v", resp.Edges)
	}
	if resp.Edges[0].Source != "methods/lean-canvas" || resp.Edges[0].Target != "methods/pitch" {
		t.Errorf("edge = %+v", resp.Edges[0])
	}

	w = serve(srv, "GET", "/api/graph?focus=reports/outlook&depth=2")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Nodes) != 1 || len(resp.Edges) != 0 {
		t.Errorf("focused graph = %+v", resp)
	}

	if w := serve(srv, "GET", "/api/graph?focus=ghost/none"); w.Code != http.StatusNotFound {
		t.Errorf("unknown focus: expected 404, got %d", w.Code)
	}
	if w := serve(srv, "GET", "/api/graph?focus=reports/outlook&depth=x"); w.Code != http.StatusBadRequest {
		t.Errorf("bad depth: expected 400, got %d", w.Code)
	}
}

func TestStatsRoute(t *testing.T) {
	srv := newTestServer(t, Config{}, false)

	w := serve(srv, "GET", "/api/graph/stats?top=1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var stats relgraph.GraphStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Nodes != 3 || stats.Edges != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(stats.TopTags) != 1 || stats.TopTags[0].Tag != "startups" {
		t.Errorf("top tags = %+v", stats.TopTags)
	}
	if len(stats.Isolated) != 1 || stats.Isolated[0] != "reports/outlook" {
		t.Errorf("isolated = %v", stats.Isolated)
	}
}

func TestResourceRoutes(t *testing.T) {
	srv := newTestServer(t, Config{}, false)

	w := serve(srv, "GET", "/api/resources")
	var list []resource.Resource
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("listed %d resources", len(list))
	}

	w = serve(srv, "GET", "/api/resources/methods/lean-canvas")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res resource.Resource
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if res.HTML != "<p>One page.</p>" {
		t.Errorf("HTML = %q", res.HTML)
	}

	if w := serve(srv, "GET", "/api/resources/methods/missing"); w.Code != http.StatusNotFound {
		t.Errorf("missing resource: expected 404, got %d", w.Code)
	}
}

func TestRelatedRoute(t *testing.T) {
	srv := newTestServer(t, Config{RelatedLimit: 5}, false)

	w := serve(srv, "GET", "/api/resources/methods/pitch/related")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp relatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Related) != 1 {
		t.Fatalf("related = %+v", resp.Related)
	}
	got := resp.Related[0]
	if got.ID != "methods/lean-canvas" || got.Title != "Lean Canvas" || got.Score != 3 {
		t.Errorf("related item = %+v", got)
	}
	if len(got.Reasons) != 2 || got.Reasons[0] != "Shared tags: startups" {
		t.Errorf("reasons = %v", got.Reasons)
	}

	w = serve(srv, "GET", "/api/resources/reports/outlook/related")
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Related == nil || len(resp.Related) != 0 {
		t.Errorf("isolated resource should return an empty list, got %+v", resp.Related)
	}

	if w := serve(srv, "GET", "/api/resources/tools/ghost/related"); w.Code != http.StatusNotFound {
		t.Errorf("unknown id: expected 404, got %d", w.Code)
	}
	if w := serve(srv, "GET", "/api/resources/methods/pitch/related?limit=-1"); w.Code != http.StatusBadRequest {
		t.Errorf("negative limit: expected 400, got %d", w.Code)
	}
}

func TestNeighborhoodRoute(t *testing.T) {
	srv := newTestServer(t, Config{}, false)

	w := serve(srv, "GET", "/api/resources/methods/pitch/graph?depth=1")
	var resp graphResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Nodes) != 2 {
		t.Errorf("neighbourhood nodes = %+v", resp.Nodes)
	}
}

func TestMapRoute(t *testing.T) {
	opts := layout.DefaultOptions()
	opts.MaxIterations = 20
	srv := newTestServer(t, Config{Layout: opts, MapTitle: "Toolbox"}, false)

	w := serve(srv, "GET", "/map")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"title":"Toolbox"`) || !strings.Contains(body, `"state":"settled"`) {
		t.Error("map page should embed the settled layout")
	}
}

func TestExplorerRoutesMounted(t *testing.T) {
	srv := newTestServer(t, Config{}, true)

	req := httptest.NewRequest("POST", "/api/views", strings.NewReader(`{"width":800,"height":600}`))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var frame explorer.Frame
	if err := json.Unmarshal(w.Body.Bytes(), &frame); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(frame.Positions) != 3 {
		t.Errorf("frame positions = %d", len(frame.Positions))
	}
}
