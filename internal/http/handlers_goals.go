package http

import (
	"net/http"
	"time"

	"finbook/internal/core"
)

type goalRequest struct {
	Name          string     `json:"name" validate:"required,max=100"`
	TargetAmount  core.Money `json:"targetAmount"`
	CurrentAmount core.Money `json:"currentAmount"`
	TargetDate    time.Time  `json:"targetDate"`
	Priority      int        `json:"priority" validate:"min=0,max=10"`
}

func (req goalRequest) toDomain(userID int64) core.Goal {
	return core.Goal{
		UserID:        userID,
		Name:          req.Name,
		TargetAmount:  req.TargetAmount,
		CurrentAmount: req.CurrentAmount,
		TargetDate:    req.TargetDate,
		Priority:      req.Priority,
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	goals, err := s.repo.ListGoals(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, goals)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	g := req.toDomain(userID(r))
	if err := g.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	saved, err := s.repo.CreateGoal(r.Context(), g)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	g, err := s.repo.GetGoal(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req goalRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	g := req.toDomain(userID(r))
	g.ID = id
	if err := g.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.repo.UpdateGoal(r.Context(), g); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteGoal(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
