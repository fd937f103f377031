package explorer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/compass/internal/layout"
	"github.com/ziadkadry99/compass/internal/relgraph"
	"github.com/ziadkadry99/compass/internal/resource"
	"github.com/ziadkadry99/compass/internal/viewport"
)

func testGraph(t *testing.T) *relgraph.Graph {
	t.Helper()
	g, err := relgraph.Build([]resource.Resource{
		{ID: "tools/wheel", Category: "tools", Title: "Ecodesign Strategy Wheel", Tags: []string{"ecodesign", "circularity"}},
		{ID: "tools/kit", Category: "tools", Title: "Ecodesign Toolkit", Tags: []string{"ecodesign"}},
		{ID: "methods/canvas", Category: "methods", Title: "Circular Canvas", Tags: []string{"circularity"}},
		{ID: "reports/outlook", Category: "reports", Title: "Outlook", Tags: []string{}},
	})
	require.NoError(t, err)
	return g
}

// newTestManager uses a tick interval long enough that only explicit step
// events advance the simulations.
func newTestManager(t *testing.T, maxViews int) *Manager {
	t.Helper()
	lopts := layout.DefaultOptions()
	lopts.Seed = 7
	m, err := NewManager(context.Background(), Config{
		MaxViews:     maxViews,
		TickInterval: time.Hour,
		Layout:       lopts,
		Viewport:     viewport.DefaultOptions(),
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m
}

func position(t *testing.T, f Frame, id string) layout.NodePosition {
	t.Helper()
	for _, p := range f.Positions {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("node %s not in frame", id)
	return layout.NodePosition{}
}

func TestManagerLifecycle(t *testing.T) {
	m := newTestManager(t, 4)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(v.ID())
	require.NoError(t, err)
	assert.Same(t, v, got)

	require.NoError(t, m.Delete(v.ID()))
	assert.ErrorIs(t, m.Delete(v.ID()), ErrViewNotFound)
	_, err = m.Get(v.ID())
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.False(t, v.runner.Running())
}

func TestManagerEvictsLeastRecentlyUsed(t *testing.T) {
	m := newTestManager(t, 2)
	g := testGraph(t)

	first, err := m.Create(g, 800, 600)
	require.NoError(t, err)
	second, err := m.Create(g, 800, 600)
	require.NoError(t, err)

	_, err = m.Get(first.ID())
	require.NoError(t, err)

	third, err := m.Create(g, 800, 600)
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	_, err = m.Get(second.ID())
	assert.ErrorIs(t, err, ErrViewNotFound)
	assert.False(t, second.runner.Running())
	assert.True(t, first.runner.Running())
	assert.True(t, third.runner.Running())
}

func TestCreateRejectsBadInput(t *testing.T) {
	m := newTestManager(t, 2)
	_, err := m.Create(nil, 100, 100)
	assert.Error(t, err)
	_, err = m.Create(testGraph(t), -1, 100)
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestViewsAreIndependent(t *testing.T) {
	m := newTestManager(t, 4)
	g := testGraph(t)
	a, err := m.Create(g, 1200, 800)
	require.NoError(t, err)
	b, err := m.Create(g, 1200, 800)
	require.NoError(t, err)

	before := position(t, b.Frame(), "tools/kit")

	_, err = a.Apply(Event{Type: EventPointerDown, NodeID: "tools/kit"})
	require.NoError(t, err)
	_, err = a.Apply(Event{Type: EventPointerMove, X: 500, Y: 500})
	require.NoError(t, err)
	f, err := a.Apply(Event{Type: EventPointerUp})
	require.NoError(t, err)

	p := position(t, f, "tools/kit")
	assert.Equal(t, 500.0, p.X)
	assert.Equal(t, 500.0, p.Y)
	assert.False(t, p.Pinned())
	assert.Equal(t, viewport.Identity(), f.Transform, "dragging a node must not pan")

	assert.Equal(t, before, position(t, b.Frame(), "tools/kit"))
}

func TestApplyViewportEvents(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	f, err := v.Apply(Event{Type: EventKey, Key: "ArrowLeft"})
	require.NoError(t, err)
	assert.Equal(t, 50.0, f.Transform.X)

	f, err = v.Apply(Event{Type: EventWheel, X: 600, Y: 400, Delta: 500})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, f.Transform.K, 1e-9)

	f, err = v.Apply(Event{Type: EventReset})
	require.NoError(t, err)
	assert.Equal(t, viewport.Identity(), f.Transform)

	f, err = v.Apply(Event{Type: EventFit})
	require.NoError(t, err)
	assert.LessOrEqual(t, f.Transform.K, 1.0)

	f, err = v.Apply(Event{Type: EventPointerDown, X: -5000, Y: -5000})
	require.NoError(t, err)
	f, err = v.Apply(Event{Type: EventPointerMove, X: -4990, Y: -4980})
	require.NoError(t, err)
	_, err = v.Apply(Event{Type: EventPointerUp})
	require.NoError(t, err)
	fit := viewport.Fit(v.runner.Snapshot().Points(), 1200, 800, viewport.DefaultOptions().FitPadding)
	assert.InDelta(t, fit.X+10, f.Transform.X, 1e-9)
	assert.InDelta(t, fit.Y+20, f.Transform.Y, 1e-9)
}

func TestApplySelection(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	p := position(t, v.Frame(), "methods/canvas")
	f, err := v.Apply(Event{Type: EventClick, X: p.X + 3, Y: p.Y - 3})
	require.NoError(t, err)
	assert.Equal(t, []string{"methods/canvas"}, f.Selection)

	f, err = v.Apply(Event{Type: EventClick, NodeID: "tools/wheel", Additive: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"methods/canvas", "tools/wheel"}, f.Selection)

	f, err = v.Apply(Event{Type: EventClick, NodeID: "ghost", Additive: true})
	require.NoError(t, err)
	assert.Len(t, f.Selection, 2)

	f, err = v.Apply(Event{Type: EventClear})
	require.NoError(t, err)
	assert.Empty(t, f.Selection)
}

func TestApplyStepAndResize(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	f, err := v.Apply(Event{Type: EventStep, N: 25})
	require.NoError(t, err)
	assert.Equal(t, 25, f.Iteration)
	assert.Equal(t, layout.Simulating, f.State)

	f, err = v.Apply(Event{Type: EventResize, Width: 600, Height: 500})
	require.NoError(t, err)
	assert.Equal(t, 0, f.Iteration)
	assert.Equal(t, layout.Placing, f.State)
	assert.Equal(t, 600.0, f.Width)

	f, err = v.Apply(Event{Type: EventStep, N: maxStepsPerEvent})
	require.NoError(t, err)
	assert.Equal(t, layout.Settled, f.State)
	assert.Equal(t, 300, f.Iteration)

	_, err = v.Apply(Event{Type: EventStep, N: maxStepsPerEvent + 1})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestZeroCanvasWaitsForResize(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 0, 0)
	require.NoError(t, err)

	f := v.Frame()
	assert.Equal(t, layout.Uninitialized, f.State)
	assert.Empty(t, f.Positions)

	f, err = v.Apply(Event{Type: EventResize, Width: 800, Height: 600})
	require.NoError(t, err)
	assert.Equal(t, layout.Placing, f.State)
	assert.Len(t, f.Positions, 4)
}

func TestApplyRejectsBadEvents(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	_, err = v.Apply(Event{Type: "teleport"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
	_, err = v.Apply(Event{Type: EventKey, Key: "space"})
	assert.ErrorIs(t, err, ErrInvalidEvent)
	_, err = v.Apply(Event{Type: EventResize, Width: -1})
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestSubscribeReceivesEventFrames(t *testing.T) {
	m := newTestManager(t, 2)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	frames, unsubscribe := v.Subscribe()
	_, err = v.Apply(Event{Type: EventKey, Key: "up"})
	require.NoError(t, err)

	select {
	case f := <-frames:
		assert.Equal(t, 50.0, f.Transform.Y)
	case <-time.After(time.Second):
		t.Fatal("no frame published")
	}

	unsubscribe()
	unsubscribe()
	_, ok := <-frames
	assert.False(t, ok)

	require.NoError(t, m.Delete(v.ID()))
	closed, _ := v.Subscribe()
	_, ok = <-closed
	assert.False(t, ok)
}

type staticSource struct{ g *relgraph.Graph }

func (s staticSource) Graph(context.Context) (*relgraph.Graph, error) { return s.g, nil }

func setupServer(t *testing.T) (*httptest.Server, *Manager) {
	t.Helper()
	m := newTestManager(t, 4)
	r := chi.NewRouter()
	RegisterRoutes(r, m, staticSource{testGraph(t)})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, m
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeFrame(t *testing.T, resp *http.Response) Frame {
	t.Helper()
	var f Frame
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&f))
	return f
}

func TestHTTPViewRoutes(t *testing.T) {
	srv, m := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/views", createRequest{Width: 900, Height: 700})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeFrame(t, resp)
	assert.NotEmpty(t, created.ID)
	assert.Len(t, created.Positions, 4)
	assert.Equal(t, 1, m.Len())

	resp = postJSON(t, srv.URL+"/api/views/"+created.ID+"/events", Event{Type: EventKey, Key: "right"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, -50.0, decodeFrame(t, resp).Transform.X)

	resp = postJSON(t, srv.URL+"/api/views/"+created.ID+"/step?n=300", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, layout.Settled, decodeFrame(t, resp).State)

	resp = postJSON(t, srv.URL+"/api/views/"+created.ID+"/step?n=zero", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/views/"+created.ID+"/events", Event{Type: "bogus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	get, err := http.Get(srv.URL + "/api/views/" + created.ID)
	require.NoError(t, err)
	defer get.Body.Close()
	assert.Equal(t, http.StatusOK, get.StatusCode)
	assert.Equal(t, created.ID, decodeFrame(t, get).ID)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/views/"+created.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	assert.Equal(t, http.StatusNoContent, del.StatusCode)

	missing, err := http.Get(srv.URL + "/api/views/" + created.ID)
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestHTTPCreateFocused(t *testing.T) {
	srv, _ := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/views", createRequest{Width: 900, Height: 700, Focus: "reports/outlook", Depth: 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Len(t, decodeFrame(t, resp).Positions, 1)

	resp = postJSON(t, srv.URL+"/api/views", createRequest{Focus: "nope/none"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/api/views", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1200.0, decodeFrame(t, resp).Width)
}

func TestWebSocketStreamsFrames(t *testing.T) {
	srv, m := setupServer(t)
	v, err := m.Create(testGraph(t), 1200, 800)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/views/" + v.ID()
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var msg wsMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "frame", msg.Type)
	assert.Equal(t, v.ID(), msg.Frame.ID)

	require.NoError(t, conn.WriteJSON(Event{Type: EventKey, Key: "down"}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var next wsMessage
		require.NoError(t, conn.ReadJSON(&next))
		if next.Type == "frame" && next.Frame.Transform.Y == -50 {
			break
		}
	}

	require.NoError(t, conn.WriteJSON(Event{Type: "bogus"}))
	for {
		var next wsMessage
		require.NoError(t, conn.ReadJSON(&next))
		if next.Type == "error" {
			assert.Contains(t, next.Error, "unknown event type")
			break
		}
	}
}

func TestWebSocketUnknownView(t *testing.T) {
	srv, _ := setupServer(t)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/views/missing"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
