package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finbook/internal/core"
)

func (r *Repository) CreateInsight(ctx context.Context, in core.Insight) (core.Insight, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO insights (user_id, title, content, insight_type, severity, is_read, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.UserID, in.Title, in.Content, in.Type, in.Severity, in.IsRead, formatDate(in.CreatedAt))
	if err != nil {
		return core.Insight{}, fmt.Errorf("create insight: %w", err)
	}
	in.ID, err = res.LastInsertId()
	if err != nil {
		return core.Insight{}, fmt.Errorf("create insight id: %w", err)
	}
	return in, nil
}

func (r *Repository) GetInsight(ctx context.Context, userID, id int64) (core.Insight, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, insight_type, severity, is_read, created_at
		 FROM insights WHERE id = ? AND user_id = ?`, id, userID)
	in, err := scanInsight(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Insight{}, core.ErrNotFound
	}
	return in, err
}

func (r *Repository) ListInsights(ctx context.Context, userID int64) ([]core.Insight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, title, content, insight_type, severity, is_read, created_at
		 FROM insights WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	var out []core.Insight
	for rows.Next() {
		in, err := scanInsight(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *Repository) MarkInsightRead(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE insights SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("mark insight read: %w", err)
	}
	return requireRow(res)
}

func (r *Repository) DeleteInsight(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM insights WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	return requireRow(res)
}

func scanInsight(scan func(...any) error) (core.Insight, error) {
	var in core.Insight
	var created string
	err := scan(&in.ID, &in.UserID, &in.Title, &in.Content, &in.Type, &in.Severity, &in.IsRead, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Insight{}, err
		}
		return core.Insight{}, fmt.Errorf("scan insight: %w", err)
	}
	in.CreatedAt = parseDate(created)
	return in, nil
}
