package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"pageaudit/internal/audit"
	"pageaudit/internal/domain"
	"pageaudit/internal/fetcher"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func (s *Server) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	var req domain.AuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.URL == "" {
		s.respondWithError(w, http.StatusBadRequest, "URL is required")
		return
	}

	normalized := fetcher.NormalizeURL(req.URL)
	if _, err := url.ParseRequestURI(normalized); err != nil {
		s.respondWithError(w, http.StatusBadRequest, "Invalid URL: "+req.URL)
		return
	}

	record, err := s.pgStore.CreateAudit(r.Context(), normalized)
	if err != nil {
		s.logger.Error("failed to create audit record", zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not create audit")
		return
	}

	s.pipeline.Submit(audit.Task{
		AuditID:  record.ID,
		URL:      normalized,
		Business: req.BusinessContext,
	})

	s.respondWithJSON(w, http.StatusAccepted, map[string]string{
		"id":     record.ID,
		"status": string(record.Status),
	})
}

func (s *Server) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := s.pgStore.GetAudit(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrAuditNotFound) {
			s.respondWithError(w, http.StatusNotFound, "Audit not found")
			return
		}
		s.logger.Error("failed to get audit", zap.String("id", id), zap.Error(err))
		s.respondWithError(w, http.StatusInternalServerError, "Could not retrieve audit")
		return
	}

	s.respondWithJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	// Check Postgres
	if err := s.pgStore.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("health check failed for postgres", zap.Error(err))
	} else {
		healthStatus["postgres"] = "healthy"
	}

	// Check Redis
	if err := s.redisStore.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("health check failed for redis", zap.Error(err))
	} else {
		healthStatus["redis"] = "healthy"
	}

	isHealthy := healthStatus["postgres"] == "healthy" && healthStatus["redis"] == "healthy"
	if !isHealthy {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}

	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

// --- Helper Functions ---

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
