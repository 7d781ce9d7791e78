package services

import (
	"context"
	"fmt"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// AlertService answers on-demand spending and alert queries.
type AlertService struct {
	repo   *storage.Repository
	logger *log.Logger
}

func NewAlertService(repo *storage.Repository, logger *log.Logger) *AlertService {
	return &AlertService{
		repo:   repo,
		logger: logger.WithComponent(log.ComponentBudgets),
	}
}

// CategorySpend is one row of the spending report.
type CategorySpend struct {
	CategoryID   int64      `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	Spent        core.Money `json:"spent"`
}

// SpendingReport aggregates a user's transactions per category over an
// optional date range.
type SpendingReport struct {
	ByCategory    []CategorySpend `json:"byCategory"`
	Uncategorized core.Money      `json:"uncategorized"`
	Income        core.Money      `json:"income"`
	TotalSpend    core.Money      `json:"totalSpend"`
}

// Spending builds the per-category spending report. Zero bounds leave
// the range open on that side. Categories with no spend are omitted;
// category order follows the category list so output is stable.
func (s *AlertService) Spending(ctx context.Context, userID int64, from, to time.Time) (SpendingReport, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, from, to)
	if err != nil {
		return SpendingReport{}, fmt.Errorf("load transactions: %w", err)
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return SpendingReport{}, fmt.Errorf("load categories: %w", err)
	}

	summary := core.SpendByCategory(txs)
	report := SpendingReport{
		ByCategory:    []CategorySpend{},
		Uncategorized: summary.Uncategorized,
		Income:        summary.Income,
	}
	for _, c := range categories {
		spent, ok := summary.ByCategory[c.ID]
		if !ok {
			continue
		}
		report.ByCategory = append(report.ByCategory, CategorySpend{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Spent:        spent,
		})
	}
	report.TotalSpend.Cents = summary.Total().Cents + summary.Uncategorized.Cents
	return report, nil
}

// Evaluate runs the full budget evaluation for the user.
func (s *AlertService) Evaluate(ctx context.Context, userID int64) ([]core.BudgetAlert, error) {
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	txs, err := s.repo.ListTransactions(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return core.EvaluateBudgets(budgets, txs, categories), nil
}
