package http

import (
	"net/http"

	"finbook/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Icon  string `json:"icon" validate:"max=50"`
	Color string `json:"color" validate:"max=20"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.repo.ListCategories(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cats)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cat := core.Category{
		UserID: userID(r),
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := cat.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	created, err := s.repo.CreateCategory(r.Context(), cat)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	cat, err := s.repo.GetCategory(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req categoryRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	cat := core.Category{
		ID:     id,
		UserID: userID(r),
		Name:   req.Name,
		Icon:   req.Icon,
		Color:  req.Color,
	}
	if err := cat.Validate(); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.repo.UpdateCategory(r.Context(), cat); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cat)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteCategory(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
