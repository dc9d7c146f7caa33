package server

import (
	"net/http"
	"sync"
	"time"

	"metricchart/internal/config"
	"metricchart/internal/dashboard"
	"metricchart/internal/logger"
	"metricchart/internal/storage"
)

// Server represents the main application server
type Server struct {
	Config    *config.Config
	Dashboard *dashboard.Dashboard
	Storage   storage.StorageClient
	Version   string

	exportMutex sync.Mutex
	log         *logger.Logger
}

// NewServer creates a new server instance. store may be nil, in which
// case exports are rejected.
func NewServer(cfg *config.Config, d *dashboard.Dashboard, store storage.StorageClient, version string) *Server {
	return &Server{
		Config:    cfg,
		Dashboard: d,
		Storage:   store,
		Version:   version,
		log:       logger.GetGlobalLogger().WithComponent("server"),
	}
}

// SetupRoutes configures HTTP routes for the server
func (s *Server) SetupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /charts", s.HandleListCharts)
	mux.HandleFunc("GET /charts/{file}", s.HandleChartImage)
	mux.HandleFunc("POST /charts/{id}/refresh", s.HandleRefresh)
	mux.HandleFunc("POST /charts/{id}/hover", s.HandleHover)
	mux.HandleFunc("GET /dashboard", s.HandleDashboard)
	mux.HandleFunc("POST /export", s.HandleExport)
	mux.HandleFunc("GET /exports", s.HandleListExports)
	mux.HandleFunc("GET /exports/{path...}", s.HandleExportFile)
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})

	return s.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("Request served", map[string]interface{}{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		})
	})
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
