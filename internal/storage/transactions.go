package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finbook/internal/core"
)

func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	// Truncated to seconds so the returned value matches what later
	// reads parse back out of the RFC3339 column.
	t.CreatedAt = time.Now().UTC().Truncate(time.Second)
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions
		 (user_id, description, amount_cents, tx_date, is_income, category_id, account_id, notes, receipt_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Description, t.Amount.Cents, formatDate(t.Date), t.IsIncome,
		t.CategoryID, t.AccountID, t.Notes, t.ReceiptPath, formatDate(t.CreatedAt))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction id: %w", err)
	}
	return t, nil
}

func (r *Repository) GetTransaction(ctx context.Context, userID, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, description, amount_cents, tx_date, is_income, category_id, account_id, notes, receipt_path, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	t, err := scanTransaction(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrNotFound
	}
	return t, err
}

// ListTransactions returns the user's transactions, newest first,
// optionally restricted to a date range (zero bounds are open).
func (r *Repository) ListTransactions(ctx context.Context, userID int64, from, to time.Time) ([]core.Transaction, error) {
	query := `SELECT id, user_id, description, amount_cents, tx_date, is_income, category_id, account_id, notes, receipt_path, created_at
	          FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if !from.IsZero() {
		query += ` AND tx_date >= ?`
		args = append(args, formatDate(from))
	}
	if !to.IsZero() {
		query += ` AND tx_date <= ?`
		args = append(args, formatDate(to))
	}
	query += ` ORDER BY tx_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		 SET description = ?, amount_cents = ?, tx_date = ?, is_income = ?, category_id = ?, account_id = ?, notes = ?
		 WHERE id = ? AND user_id = ?`,
		t.Description, t.Amount.Cents, formatDate(t.Date), t.IsIncome, t.CategoryID, t.AccountID, t.Notes,
		t.ID, t.UserID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

// SetReceiptPath records the stored receipt file for a transaction.
func (r *Repository) SetReceiptPath(ctx context.Context, userID, id int64, path string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET receipt_path = ? WHERE id = ? AND user_id = ?`,
		path, id, userID)
	if err != nil {
		return fmt.Errorf("set receipt path: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteTransaction(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func scanTransaction(scan func(...any) error) (core.Transaction, error) {
	var t core.Transaction
	var txDate, created string
	err := scan(&t.ID, &t.UserID, &t.Description, &t.Amount.Cents, &txDate, &t.IsIncome,
		&t.CategoryID, &t.AccountID, &t.Notes, &t.ReceiptPath, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Transaction{}, err
		}
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	t.Date = parseDate(txDate)
	t.CreatedAt = parseDate(created)
	return t, nil
}
