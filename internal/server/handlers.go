package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply string `json:"reply"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("chat request", zap.String("message", req.Message))
	reply := s.engine.Answer(r.Context(), req.Message)
	s.respondJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"curated_items":      s.corpus.CuratedSize(),
		"document_items":     s.corpus.DocumentSize(),
		"curated_categories": s.corpus.CuratedCategories(),
	}
	if s.stats != nil {
		stats, err := s.stats.Stats(r.Context())
		if err != nil {
			s.logger.Error("stats query failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp["queries"] = stats
	}
	s.respondJSON(w, http.StatusOK, resp)
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
