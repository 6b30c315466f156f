package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/kensaku/internal/evaluation"
	"github.com/hyperjump/kensaku/internal/models"
	apperrors "github.com/hyperjump/kensaku/pkg/errors"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := &models.SearchRequest{
		Query:    q.Get("q"),
		FileType: models.FileType(q.Get("filetype")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			appErr := apperrors.Newf(apperrors.ErrInvalidInput, http.StatusBadRequest, "limit %q must be an integer", raw)
			s.respondError(w, appErr.StatusCode, appErr.Message)
			return
		}
		req.Limit = limit
	}

	s.logger.Debug("search request",
		zap.String("query", req.Query),
		zap.String("filetype", string(req.FileType)),
		zap.Int("limit", req.Limit))

	response, err := s.engine.Search(r.Context(), req)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.IndexAll(r.Context())
	if err != nil {
		s.logger.Error("index run failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

type evaluateRequest struct {
	Relevant  []string `json:"y_true"`
	Retrieved []string `json:"y_pred"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		appErr := apperrors.New(apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid request body")
		s.respondError(w, appErr.StatusCode, appErr.Message)
		return
	}
	s.respondJSON(w, http.StatusOK, evaluation.Evaluate(req.Relevant, req.Retrieved))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.engine.Status(r.Context())
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleClearCollection(w http.ResponseWriter, r *http.Request) {
	name := models.FileType(chi.URLParam(r, "name"))
	if name != models.FileTypeAll && !name.Valid() {
		appErr := apperrors.Newf(apperrors.ErrNotFound, http.StatusNotFound, "unknown collection %q", name)
		s.respondError(w, appErr.StatusCode, appErr.Message)
		return
	}
	s.logger.Debug("clear collection request", zap.String("collection", string(name)))
	if err := s.engine.Clear(r.Context(), name); err != nil {
		s.logger.Error("clear failed", zap.Error(err))
		s.respondError(w, apperrors.HTTPStatusCode(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"collection": string(name), "status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
