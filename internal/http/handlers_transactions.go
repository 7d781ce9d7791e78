package http

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"finbook/internal/core"
	"finbook/internal/log"
)

type transactionRequest struct {
	Description string     `json:"description" validate:"required,max=200"`
	Amount      core.Money `json:"amount"`
	Date        time.Time  `json:"date" validate:"required"`
	IsIncome    bool       `json:"isIncome"`
	CategoryID  int64      `json:"categoryId" validate:"min=0"`
	AccountID   int64      `json:"accountId" validate:"min=0"`
	Notes       string     `json:"notes" validate:"max=1000"`
}

// transactionResponse returns the saved transaction together with any
// budget alerts it raised, so clients can surface them immediately.
type transactionResponse struct {
	Transaction core.Transaction   `json:"transaction"`
	Alerts      []core.BudgetAlert `json:"alerts,omitempty"`
}

func (req transactionRequest) toDomain(userID int64) core.Transaction {
	return core.Transaction{
		UserID:      userID,
		Description: req.Description,
		Amount:      req.Amount,
		Date:        req.Date,
		IsIncome:    req.IsIncome,
		CategoryID:  req.CategoryID,
		AccountID:   req.AccountID,
		Notes:       req.Notes,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
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

	txs, err := s.repo.ListTransactions(r.Context(), userID(r), from, to)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, txs)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	saved, alerts, err := s.transactions.Create(r.Context(), req.toDomain(userID(r)))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, transactionResponse{Transaction: saved, Alerts: alerts})
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	tx, err := s.repo.GetTransaction(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	var req transactionRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	tx := req.toDomain(userID(r))
	tx.ID = id
	alerts, err := s.transactions.Update(r.Context(), tx)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	// Re-read so createdAt and receiptPath survive in the response;
	// the update statement never touches them.
	saved, err := s.repo.GetTransaction(r.Context(), userID(r), id)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, transactionResponse{Transaction: saved, Alerts: alerts})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.repo.DeleteTransaction(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleUploadReceipt accepts a multipart upload and stores the file
// under the uploads directory with a generated name; only the relative
// path lands in the database.
func (s *Server) handleUploadReceipt(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	// Ownership check before touching the filesystem.
	if _, err := s.repo.GetTransaction(r.Context(), userID(r), id); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("receipt")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".pdf":
	default:
		s.writeError(w, http.StatusBadRequest, "unsupported receipt type (jpg, png or pdf)")
		return
	}

	name := uuid.NewString() + ext
	if err := os.MkdirAll(s.uploadsDir, 0755); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	dst, err := os.Create(filepath.Join(s.uploadsDir, name))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if err := s.repo.SetReceiptPath(r.Context(), userID(r), id, name); err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "receipt uploaded",
		log.FieldUserID, userID(r),
		"transaction_id", id,
		"file", name)
	s.writeJSON(w, http.StatusOK, map[string]string{"receiptPath": name})
}
