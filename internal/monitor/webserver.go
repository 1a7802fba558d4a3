// Package monitor serves debugging views of a rendered loss landscape
// over HTTP: an interactive surface chart, a heatmap, and the render
// history as JSON.
package monitor

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/banshee-data/landscape.report/internal/monitoring"
	"github.com/banshee-data/landscape.report/internal/runlog"
	"github.com/banshee-data/landscape.report/internal/surface"
)

// WebServer exposes the debug chart endpoints.
type WebServer struct {
	address string
	fig     *surface.Figure
	runs    *runlog.DB
	server  *http.Server
}

// WebServerConfig contains configuration options for the web server.
type WebServerConfig struct {
	Address string
	Figure  *surface.Figure
	Runs    *runlog.DB
}

// NewWebServer creates a new web server with the provided configuration.
func NewWebServer(config WebServerConfig) *WebServer {
	ws := &WebServer{
		address: config.Address,
		fig:     config.Figure,
		runs:    config.Runs,
	}
	ws.server = &http.Server{
		Addr:    config.Address,
		Handler: ws.Handler(),
	}
	return ws
}

// Handler returns the route table. Exposed so tests can drive the server
// through httptest without binding a port.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", ws.handleHealth)
	mux.HandleFunc("/debug/surface", ws.handleSurfaceChart)
	mux.HandleFunc("/debug/heatmap", ws.handleHeatmapChart)
	mux.HandleFunc("/api/renders", ws.handleRenders)

	return mux
}

// Start begins the HTTP server and blocks until ctx is cancelled, then
// shuts the server down gracefully.
func (ws *WebServer) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("starting HTTP server on %s", ws.address)
		if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return ws.server.Shutdown(shutdownCtx)
}

func (ws *WebServer) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleSurfaceChart renders the current figure as an interactive 3D
// surface chart (HTML).
func (ws *WebServer) handleSurfaceChart(w http.ResponseWriter, r *http.Request) {
	if ws.fig == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no figure rendered")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := surface.WriteSurfaceHTML(ws.fig, w); err != nil {
		monitoring.Logf("surface chart render failed: %v", err)
	}
}

// handleHeatmapChart renders the current figure as a PNG heatmap.
func (ws *WebServer) handleHeatmapChart(w http.ResponseWriter, r *http.Request) {
	if ws.fig == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no figure rendered")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := surface.WriteHeatmapPNG(ws.fig, w); err != nil {
		monitoring.Logf("heatmap render failed: %v", err)
	}
}

// handleRenders returns recent render history records as JSON.
// Query params:
//
//	limit (optional; default 10, max 100)
func (ws *WebServer) handleRenders(w http.ResponseWriter, r *http.Request) {
	if ws.runs == nil {
		ws.writeJSONError(w, http.StatusServiceUnavailable, "render history not configured")
		return
	}

	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	renders, err := ws.runs.ListRenders(limit)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "list renders: "+err.Error())
		return
	}
	if renders == nil {
		renders = []runlog.Render{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(renders)
}
