// Package services orchestrates domain operations across storage, the
// notification queue and external collaborators.
package services

import (
	"context"
	"fmt"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/storage"
)

// TransactionService saves transactions and raises budget alerts for
// the affected category. Alert dispatch is best-effort: the save
// succeeds even when every notification fails.
type TransactionService struct {
	repo       *storage.Repository
	dispatcher *notify.Dispatcher
	logger     *log.Logger
}

func NewTransactionService(repo *storage.Repository, dispatcher *notify.Dispatcher, logger *log.Logger) *TransactionService {
	return &TransactionService{
		repo:       repo,
		dispatcher: dispatcher,
		logger:     logger.WithComponent(log.ComponentBudgets),
	}
}

// Create validates and saves the transaction, then evaluates the
// budgets watching its category. Returned alerts reflect the state
// after the save.
func (s *TransactionService) Create(ctx context.Context, tx core.Transaction) (core.Transaction, []core.BudgetAlert, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, nil, err
	}

	saved, err := s.repo.CreateTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, nil, fmt.Errorf("save transaction: %w", err)
	}

	alerts := s.evaluateCategory(ctx, saved.UserID, saved.CategoryID)
	if len(alerts) > 0 {
		s.notify(ctx, saved.UserID, alerts)
	}
	return saved, alerts, nil
}

// Update saves changes and re-evaluates budgets for the transaction's
// category, since an amount or category edit can push a budget over.
func (s *TransactionService) Update(ctx context.Context, tx core.Transaction) ([]core.BudgetAlert, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	alerts := s.evaluateCategory(ctx, tx.UserID, tx.CategoryID)
	if len(alerts) > 0 {
		s.notify(ctx, tx.UserID, alerts)
	}
	return alerts, nil
}

// evaluateCategory runs the incremental budget check for one category.
// Evaluation failures only cost the alert, never the save.
func (s *TransactionService) evaluateCategory(ctx context.Context, userID, categoryID int64) []core.BudgetAlert {
	if categoryID == core.UncategorizedID {
		return nil
	}

	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load budgets for evaluation",
			log.FieldError, err, log.FieldUserID, userID)
		return nil
	}
	txs, err := s.repo.ListTransactions(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load transactions for evaluation",
			log.FieldError, err, log.FieldUserID, userID)
		return nil
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load categories for evaluation",
			log.FieldError, err, log.FieldUserID, userID)
		return nil
	}

	return core.EvaluateBudgetsForCategory(budgets, txs, categories, categoryID)
}

func (s *TransactionService) notify(ctx context.Context, userID int64, alerts []core.BudgetAlert) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load user for alert dispatch",
			log.FieldError, err, log.FieldUserID, userID)
		return
	}
	s.logger.InfoContext(ctx, "budget alerts raised",
		log.FieldUserID, userID,
		log.FieldAlertCount, len(alerts))
	s.dispatcher.BudgetAlerts(ctx, user, alerts)
}
