package http

import (
	"net/http"
	"time"

	"finbook/internal/core"
)

type budgetRequest struct {
	CategoryID     int64             `json:"categoryId" validate:"required,min=1"`
	Amount         core.Money        `json:"amount"`
	Period         core.BudgetPeriod `json:"period" validate:"required"`
	StartDate      time.Time         `json:"startDate"`
	EndDate        time.Time         `json:"endDate"`
	AlertThreshold int               `json:"alertThreshold" validate:"min=0,max=100"`
}

func (req budgetRequest) toDomain(userID int64) core.Budget {
	return core.Budget{
		UserID:         userID,
		CategoryID:     req.CategoryID,
		Amount:         req.Amount,
		Period:         req.Period,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		AlertThreshold: req.AlertThreshold,
	}
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.repo.ListBudgets(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	b := req.toDomain(userID(r))
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	// The referenced category must exist and be visible to the caller.
	if _, err := s.repo.GetCategory(r.Context(), b.UserID, b.CategoryID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	saved, err := s.repo.CreateBudget(r.Context(), b)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	b, err := s.repo.GetBudget(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req budgetRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	b := req.toDomain(userID(r))
	b.ID = id
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.repo.UpdateBudget(r.Context(), b); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteBudget(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSpending(w http.ResponseWriter, r *http.Request) {
	from, err := queryDate(r, "from")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}

	report, err := s.alerts.Spending(r.Context(), userID(r), from, to)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.alerts.Evaluate(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if alerts == nil {
		alerts = []core.BudgetAlert{}
	}
	s.writeJSON(w, http.StatusOK, alerts)
}
