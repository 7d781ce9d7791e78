package http

import (
	"net/http"

	"finbook/internal/core"
)

type accountRequest struct {
	Name       string     `json:"name" validate:"required,max=100"`
	Balance    core.Money `json:"balance"`
	Currency   string     `json:"currency" validate:"required,len=3"`
	ExternalID string     `json:"externalId" validate:"max=100"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.repo.ListAccounts(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	account := core.Account{
		UserID:     userID(r),
		Name:       req.Name,
		Balance:    req.Balance,
		Currency:   req.Currency,
		ExternalID: req.ExternalID,
	}
	if err := account.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	created, err := s.repo.CreateAccount(r.Context(), account)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	account, err := s.repo.GetAccount(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req accountRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	account, err := s.repo.GetAccount(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	account.Name = req.Name
	account.Balance = req.Balance
	account.Currency = req.Currency
	account.ExternalID = req.ExternalID
	if err := account.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.repo.UpdateAccount(r.Context(), account); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteAccount(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
