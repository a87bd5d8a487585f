package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	applog "rewind/internal/log"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.service == nil {
		checks["service"] = "failed: not configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if _, err := s.service.ListSnapshots(r.Context()); err != nil {
		checks["snapshot_store"] = "failed: " + err.Error()
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["snapshot_store"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": status,
		"checks": checks,
	})
}

// handleWrapped serves the yearly snapshot for the requested options.
func (s *Server) handleWrapped(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := s.service.Get(r.Context(), opts)
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Snapshot read failed",
			"year", opts.Year, "error", err)
		http.Error(w, "snapshot unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

// handleRecompute queues an async rebuild of the requested snapshot.
func (s *Server) handleRecompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts, err := s.parseOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.service.RequestRecompute(r.Context(), opts); err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Recompute request failed",
			"year", opts.Year, "error", err)
		http.Error(w, "recompute request failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":      "accepted",
		"year":        opts.Year,
		"fingerprint": opts.Fingerprint(),
	})
}

// handleSnapshots lists stored snapshot metadata, newest first.
func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	infos, err := s.service.ListSnapshots(r.Context())
	if err != nil {
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Snapshot list failed", "error", err)
		http.Error(w, "snapshot list unavailable", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"snapshots": infos,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
