package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"metricchart/internal/dashboard"
	"metricchart/internal/storage"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type hoverRequest struct {
	Category string `json:"category"`
	Index    int    `json:"index"`
	Event    string `json:"event"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error":  message,
		"status": http.StatusText(status),
	})
}

// chartError maps dashboard errors onto HTTP statuses
func (s *Server) chartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrChartNotFound), errors.Is(err, dashboard.ErrNoElement):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.log.Error("Chart request failed", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// HandleHealth provides health check endpoint
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"config": "ok", "storage": "ok"}
	if s.Storage == nil {
		checks["storage"] = "disabled"
	}
	failed := 0
	for _, st := range s.Dashboard.Statuses() {
		if st.Error != "" {
			failed++
		}
	}
	checks["charts"] = "ok"
	if failed > 0 {
		checks["charts"] = strconv.Itoa(failed) + " failing"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"version":   s.Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

// HandleListCharts lists every chart with its last refresh
func (s *Server) HandleListCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"title":  s.Dashboard.Title,
		"charts": s.Dashboard.Statuses(),
	})
}

// HandleChartImage serves /charts/{id}.svg and /charts/{id}.png
func (s *Server) HandleChartImage(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	ext := path.Ext(file)
	id := strings.TrimSuffix(file, ext)

	c, err := s.Dashboard.Chart(id)
	if err != nil {
		s.chartError(w, err)
		return
	}

	var body []byte
	switch ext {
	case ".svg":
		body, err = c.SVG()
	case ".png":
		body, err = c.PNG()
	default:
		writeError(w, http.StatusNotFound, "unsupported image format "+ext)
		return
	}
	if err != nil {
		s.log.Error("Failed to render chart", err, map[string]interface{}{"chart": id})
		writeError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}

	w.Header().Set("Content-Type", storage.GetContentType(file))
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(body)
}

// HandleRefresh fetches and redraws one chart
func (s *Server) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.Dashboard.Refresh(r.Context(), id); err != nil {
		s.chartError(w, err)
		return
	}
	c, _ := s.Dashboard.Chart(id)
	writeJSON(w, http.StatusOK, c.Status())
}

// HandleHover dispatches a pointer event to a chart element
func (s *Server) HandleHover(w http.ResponseWriter, r *http.Request) {
	c, err := s.Dashboard.Chart(r.PathValue("id"))
	if err != nil {
		s.chartError(w, err)
		return
	}

	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid hover request: "+err.Error())
		return
	}
	if req.Category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	if req.Event != dashboard.EventMouseOver && req.Event != dashboard.EventMouseOut {
		writeError(w, http.StatusBadRequest, "unsupported event "+strconv.Quote(req.Event))
		return
	}

	state, err := c.Hover(req.Category, req.Index, req.Event)
	if err != nil {
		s.chartError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// HandleDashboard serves the HTML dashboard page
func (s *Server) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Dashboard.WritePage(w, s.Version); err != nil {
		s.log.Error("Failed to write dashboard page", err)
		http.Error(w, "Failed to render dashboard", http.StatusInternalServerError)
	}
}

// HandleExport stores every chart; only one export runs at a time
func (s *Server) HandleExport(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}

	// Try to acquire the mutex - if already locked, return error immediately
	if !s.exportMutex.TryLock() {
		s.log.Warn("Export already in progress, rejecting new request")
		writeJSON(w, http.StatusConflict, map[string]interface{}{
			"error":   "Export already in progress",
			"message": "Another export is currently running. Please wait for it to complete before starting a new one.",
			"status":  "conflict",
		})
		return
	}
	defer s.exportMutex.Unlock()

	result, err := s.Dashboard.Export(r.Context(), s.Storage, s.Version)
	if err != nil {
		s.log.Error("Export failed", err)
		writeError(w, http.StatusInternalServerError, "export failed: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListExports lists recent export folders, newest first
func (s *Server) HandleListExports(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}

	limit := defaultListLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = min(n, maxListLimit)
		}
	}

	exports, err := s.Storage.ListExports(r.Context(), limit)
	if err != nil {
		s.log.Error("Failed to list exports", err)
		writeError(w, http.StatusInternalServerError, "failed to list exports")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"exports":   exports,
		"count":     len(exports),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HandleExportFile serves a stored export file
func (s *Server) HandleExportFile(w http.ResponseWriter, r *http.Request) {
	if s.Storage == nil {
		writeError(w, http.StatusServiceUnavailable, "export storage is not configured")
		return
	}
	objectPath := r.PathValue("path")
	if objectPath == "" || strings.Contains(objectPath, "..") {
		writeError(w, http.StatusBadRequest, "invalid file path")
		return
	}

	data, err := s.Storage.GetFile(r.Context(), objectPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "file not found")
			return
		}
		s.log.Error("Failed to read export file", err, map[string]interface{}{"path": objectPath})
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}
	w.Header().Set("Content-Type", storage.GetContentType(objectPath))
	w.Write(data)
}
