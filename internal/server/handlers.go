package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	ferrors "git.home.luguber.info/inful/codex/internal/foundation/errors"
	"git.home.luguber.info/inful/codex/internal/logfields"
	"git.home.luguber.info/inful/codex/internal/version"
)

// HealthResponse is the /healthz payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    float64   `json:"uptime_seconds"`
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	result, err := s.gen.Generate(r.Context(), s.opts)
	if err != nil {
		s.adapter.WriteErrorResponse(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write([]byte(result.HTML)); err != nil {
		s.logger.Warn("Failed writing page", logfields.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:    "healthy",
		Version:   version.Version,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(s.startTime).Seconds(),
	}
	if err := s.writeJSON(w, http.StatusOK, health); err != nil {
		s.adapter.WriteErrorResponse(w, r,
			ferrors.WrapError(err, ferrors.CategoryInternal, "failed to write health response").Build())
	}
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.adapter.WriteErrorResponse(w, r, ferrors.NewError(ferrors.CategoryNotFound, "not found").
		WithContext("path", r.URL.Path).
		Build())
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.adapter.WriteErrorResponse(w, r, ferrors.ValidationError("invalid HTTP method").
		WithContext("method", r.Method).
		WithContext("allowed_method", http.MethodGet).
		Build())
}

// writeJSON encodes into a buffer first so a failed encode sends nothing.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("Failed writing JSON response body", logfields.Error(err))
		return err
	}
	return nil
}
