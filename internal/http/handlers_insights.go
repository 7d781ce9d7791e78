package http

import (
	"errors"
	"net/http"
	"strings"

	"finbook/internal/advisor"
	"finbook/internal/core"
)

func (s *Server) handleListInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.repo.ListInsights(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if insights == nil {
		insights = []core.Insight{}
	}
	s.writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleMarkInsightRead(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.MarkInsightRead(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteInsight(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteInsight(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type generateInsightsResponse struct {
	Queued   bool           `json:"queued"`
	Insights []core.Insight `json:"insights,omitempty"`
}

func (s *Server) handleGenerateInsights(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.writeError(w, http.StatusServiceUnavailable, "ai advisor not configured")
		return
	}
	insights, queued, err := s.insights.Request(r.Context(), userID(r))
	if err != nil {
		if errors.Is(err, advisor.ErrQuotaExceeded) {
			s.writeError(w, http.StatusTooManyRequests, "ai quota exceeded, try again later")
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	status := http.StatusOK
	if queued {
		status = http.StatusAccepted
	}
	s.writeJSON(w, status, generateInsightsResponse{Queued: queued, Insights: insights})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	if s.insights == nil {
		s.writeError(w, http.StatusServiceUnavailable, "ai advisor not configured")
		return
	}
	question := strings.TrimSpace(r.URL.Query().Get("q"))
	if question == "" {
		s.writeError(w, http.StatusBadRequest, "missing question")
		return
	}
	answer, err := s.insights.Advice(r.Context(), userID(r), question)
	if err != nil {
		if errors.Is(err, advisor.ErrQuotaExceeded) {
			s.writeError(w, http.StatusTooManyRequests, "ai quota exceeded, try again later")
			return
		}
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}
