package http

import (
	"net/http"
	"strconv"
	"time"

	"finbook/internal/core"
)

type billRequest struct {
	Name         string          `json:"name" validate:"required,max=100"`
	Amount       core.Money      `json:"amount"`
	DueDate      time.Time       `json:"dueDate" validate:"required"`
	Period       core.BillPeriod `json:"period" validate:"required"`
	ReminderDays int             `json:"reminderDays" validate:"min=0,max=365"`
}

func (req billRequest) toDomain(userID int64) core.Bill {
	return core.Bill{
		UserID:       userID,
		Name:         req.Name,
		Amount:       req.Amount,
		DueDate:      req.DueDate,
		Period:       req.Period,
		ReminderDays: req.ReminderDays,
	}
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.repo.ListBills(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, bills)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	b := req.toDomain(userID(r))
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	saved, err := s.repo.CreateBill(r.Context(), b)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	b, err := s.repo.GetBill(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req billRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	// Paid state survives edits; only the pay endpoint flips it.
	current, err := s.repo.GetBill(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	b := req.toDomain(userID(r))
	b.ID = id
	b.IsPaid = current.IsPaid
	if err := b.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if err := s.repo.UpdateBill(r.Context(), b); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteBill(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpcomingBills(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 365 {
			s.writeError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	reminders, err := s.reminders.Upcoming(r.Context(), userID(r), days)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	if reminders == nil {
		reminders = []core.BillReminder{}
	}
	s.writeJSON(w, http.StatusOK, reminders)
}

// handlePayBill marks a one-off bill paid or rolls a recurring bill
// forward to its next due date.
func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	b, err := s.reminders.MarkPaid(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, b)
}
