package httpapi

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/dmitrijs2005/penguindb/internal/repositories/repomanager"
)

// handleRoot is the liveness probe; the flat shape is kept for the frontend.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Backend server is running! :3"})
}

func (s *Server) handleAPITest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "API is working!",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleDBTest probes the shared database handle.
func (s *Server) handleDBTest(w http.ResponseWriter, r *http.Request) {
	version, err := repomanager.ServerVersion(r.Context(), s.db)
	if err != nil {
		s.logger.Error(r.Context(), "db probe failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, false, "Database not connected", nil,
			map[string]string{"detail": err.Error()})
		return
	}

	name, err := repomanager.DatabaseName(r.Context(), s.db)
	if err != nil {
		s.logger.Error(r.Context(), "db probe failed", "error", err)
		writeEnvelope(w, http.StatusInternalServerError, false, "Database not connected", nil,
			map[string]string{"detail": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":          "Database connection successful!",
		"database":         name,
		"postgres_version": version,
	})
}

// handleHealthDetailed reports process runtime health: uptime, memory and
// goroutine counts plus the request metrics snapshot.
func (s *Server) handleHealthDetailed(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	snap := s.tracker.Snapshot()

	writeEnvelope(w, http.StatusOK, true, "Health check", map[string]any{
		"status":      "ok",
		"environment": s.cfg.Environment,
		"uptime":      snap.Uptime,
		"goroutines":  runtime.NumGoroutine(),
		"memory": map[string]string{
			"heapAlloc":  formatMB(mem.HeapAlloc),
			"heapSys":    formatMB(mem.HeapSys),
			"sys":        formatMB(mem.Sys),
			"totalAlloc": formatMB(mem.TotalAlloc),
		},
		"metrics": snap,
	}, nil)
}

// handleHealthMetrics exposes the raw request metrics snapshot.
func (s *Server) handleHealthMetrics(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, true, "Metrics", s.tracker.Snapshot(), nil)
}

func formatMB(b uint64) string {
	return fmt.Sprintf("%.2f MB", float64(b)/1024/1024)
}
