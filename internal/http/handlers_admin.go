package http

import (
	"net/http"
	"path/filepath"
	"strings"

	"finbook/internal/log"
	"finbook/internal/services"
)

// handleImportStatement ingests a CSV or XLSX bank statement upload;
// the format is picked from the file extension.
func (s *Server) handleImportStatement(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(20 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("statement")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "missing statement file")
		return
	}
	defer file.Close()

	var result services.ImportResult
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		result, err = s.importer.ImportCSV(r.Context(), userID(r), file)
	case ".xlsx":
		result, err = s.importer.ImportXLSX(r.Context(), userID(r), file)
	default:
		s.writeError(w, http.StatusBadRequest, "unsupported statement format (csv or xlsx)")
		return
	}
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.logger.InfoContext(r.Context(), "statement imported",
		log.FieldUserID, userID(r),
		"file", header.Filename,
		"imported", result.Imported,
		"skipped", result.Skipped)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBankSync(w http.ResponseWriter, r *http.Request) {
	if s.bankSync == nil {
		s.writeError(w, http.StatusServiceUnavailable, "bank sync not configured")
		return
	}
	result, err := s.bankSync.Sync(r.Context(), userID(r))
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

// handleRunReminders sweeps every user's unpaid bills and dispatches
// due reminders. Normally the worker schedule does this; the endpoint
// exists for operators.
func (s *Server) handleRunReminders(w http.ResponseWriter, r *http.Request) {
	sent, err := s.reminders.RunAll(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
