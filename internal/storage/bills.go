package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finbook/internal/core"
)

func (r *Repository) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (user_id, name, amount_cents, due_date, period, is_paid, reminder_days)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		b.UserID, b.Name, b.Amount.Cents, formatDate(b.DueDate), string(b.Period), b.IsPaid, b.ReminderDays)
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill: %w", err)
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("create bill id: %w", err)
	}
	return b, nil
}

func (r *Repository) GetBill(ctx context.Context, userID, id int64) (core.Bill, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, name, amount_cents, due_date, period, is_paid, reminder_days
		 FROM bills WHERE id = ? AND user_id = ?`, id, userID)
	b, err := scanBill(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, core.ErrNotFound
	}
	return b, err
}

func (r *Repository) ListBills(ctx context.Context, userID int64) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, due_date, period, is_paid, reminder_days
		 FROM bills WHERE user_id = ? ORDER BY due_date, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

// ListUnpaidBillsDueBy returns unpaid bills with a due date up to and
// including the given day, oldest first. Past-due bills are included.
func (r *Repository) ListUnpaidBillsDueBy(ctx context.Context, userID int64, until time.Time) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, amount_cents, due_date, period, is_paid, reminder_days
		 FROM bills WHERE user_id = ? AND is_paid = 0 AND due_date <= ? ORDER BY due_date, id`,
		userID, formatDate(until))
	if err != nil {
		return nil, fmt.Errorf("list unpaid bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

func (r *Repository) UpdateBill(ctx context.Context, b core.Bill) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, amount_cents = ?, due_date = ?, period = ?, is_paid = ?, reminder_days = ?
		 WHERE id = ? AND user_id = ?`,
		b.Name, b.Amount.Cents, formatDate(b.DueDate), string(b.Period), b.IsPaid, b.ReminderDays,
		b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteBill(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM bills WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireRow(res)
}

func collectBills(rows *sql.Rows) ([]core.Bill, error) {
	var out []core.Bill
	for rows.Next() {
		b, err := scanBill(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBill(scan func(...any) error) (core.Bill, error) {
	var b core.Bill
	var period, due string
	err := scan(&b.ID, &b.UserID, &b.Name, &b.Amount.Cents, &due, &period, &b.IsPaid, &b.ReminderDays)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Bill{}, err
		}
		return core.Bill{}, fmt.Errorf("scan bill: %w", err)
	}
	b.Period = core.BillPeriod(period)
	b.DueDate = parseDate(due)
	return b, nil
}
