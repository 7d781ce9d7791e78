package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// ImportService loads bank statements from CSV and XLSX files. Rows use
// the bank feed sign convention: negative amounts are money out,
// positive amounts are money in. Expected columns are date,
// description, amount; a header row is detected and skipped.
type ImportService struct {
	repo   *storage.Repository
	logger *log.Logger
}

func NewImportService(repo *storage.Repository, logger *log.Logger) *ImportService {
	return &ImportService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentImport),
	}
}

// ImportResult reports what an import run did. Skipped rows are rows
// that could not be parsed or validated; they never abort the run.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportCSV reads a comma-separated statement.
func (s *ImportService) ImportCSV(ctx context.Context, userID int64, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ImportResult{}, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return s.importRows(ctx, userID, rows)
}

// ImportXLSX reads the first sheet of an Excel statement.
func (s *ImportService) ImportXLSX(ctx context.Context, userID int64, r io.Reader) (ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{}, fmt.Errorf("xlsx has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return s.importRows(ctx, userID, rows)
}

func (s *ImportService) importRows(ctx context.Context, userID int64, rows [][]string) (ImportResult, error) {
	var result ImportResult
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		tx, ok := parseStatementRow(row)
		if !ok {
			result.Skipped++
			continue
		}
		tx.UserID = userID
		if err := tx.Validate(); err != nil {
			result.Skipped++
			continue
		}
		if _, err := s.repo.CreateTransaction(ctx, tx); err != nil {
			return result, fmt.Errorf("save imported transaction: %w", err)
		}
		result.Imported++
	}

	s.logger.InfoContext(ctx, "statement import finished",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpImport,
		"imported", result.Imported,
		"skipped", result.Skipped)
	return result, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(row[0]))
	return first == "date" || first == "data"
}

var statementDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	time.RFC3339,
}

func parseStatementRow(row []string) (core.Transaction, bool) {
	if len(row) < 3 {
		return core.Transaction{}, false
	}

	var date time.Time
	var err error
	for _, layout := range statementDateFormats {
		date, err = time.Parse(layout, strings.TrimSpace(row[0]))
		if err == nil {
			break
		}
	}
	if err != nil {
		return core.Transaction{}, false
	}

	raw := strings.TrimSpace(row[2])
	amount, parseErr := core.ParseAmount(strings.TrimPrefix(raw, "-"))
	if parseErr != nil {
		return core.Transaction{}, false
	}

	return core.Transaction{
		Description: strings.TrimSpace(row[1]),
		Amount:      amount,
		Date:        date,
		IsIncome:    !strings.HasPrefix(raw, "-"),
	}, true
}
