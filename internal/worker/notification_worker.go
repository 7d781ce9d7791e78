// Package worker consumes queued notification messages and performs the
// slow work the request path deferred: rendering and sending email, and
// calling the advisor.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finbook/internal/advisor"
	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/notify"
	"finbook/internal/services"
	"finbook/internal/storage"
)

type NotificationWorker struct {
	repo       *storage.Repository
	dispatcher *notify.Dispatcher
	insights   *services.InsightService
}

func NewNotificationWorker(repo *storage.Repository, dispatcher *notify.Dispatcher, insights *services.InsightService) *NotificationWorker {
	return &NotificationWorker{
		repo:       repo,
		dispatcher: dispatcher,
		insights:   insights,
	}
}

// Handle processes one queued message. A nil return acknowledges the
// delivery; messages referencing records that no longer exist are
// acknowledged too, since requeueing cannot bring them back.
func (w *NotificationWorker) Handle(ctx context.Context, msg *amqp.NotificationMessage) error {
	switch msg.Kind {
	case amqp.KindBudgetAlert:
		return w.handleBudgetAlert(ctx, msg)
	case amqp.KindBillReminder:
		return w.handleBillReminder(ctx, msg)
	case amqp.KindInsightRequest:
		return w.handleInsightRequest(ctx, msg)
	default:
		slog.WarnContext(ctx, "Dropping message of unknown kind", "kind", msg.Kind)
		return nil
	}
}

// handleBudgetAlert re-evaluates the referenced category at delivery
// time instead of trusting the queued snapshot; if the budget recovered
// in the meantime, no email goes out.
func (w *NotificationWorker) handleBudgetAlert(ctx context.Context, msg *amqp.NotificationMessage) error {
	user, err := w.repo.GetUser(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	budgets, err := w.repo.ListBudgets(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("load budgets: %w", err)
	}
	txs, err := w.repo.ListTransactions(ctx, msg.UserID, time.Time{}, time.Time{})
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	categories, err := w.repo.ListCategories(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	alerts := core.EvaluateBudgetsForCategory(budgets, txs, categories, msg.CategoryID)
	for _, alert := range alerts {
		w.dispatcher.SendBudgetAlert(ctx, user, alert)
	}
	if len(alerts) == 0 {
		slog.InfoContext(ctx, "Budget recovered before delivery, skipping alert",
			"user_id", msg.UserID, "category_id", msg.CategoryID)
	}
	return nil
}

func (w *NotificationWorker) handleBillReminder(ctx context.Context, msg *amqp.NotificationMessage) error {
	user, err := w.repo.GetUser(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load user: %w", err)
	}

	bill, err := w.repo.GetBill(ctx, msg.UserID, msg.BillID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load bill: %w", err)
	}

	// Re-check the window at delivery time; a bill paid after the
	// message was queued sends nothing.
	due := core.DueReminders([]core.Bill{bill}, time.Now())
	if len(due) == 0 {
		slog.InfoContext(ctx, "Bill left its reminder window, skipping",
			"user_id", msg.UserID, "bill_id", msg.BillID)
		return nil
	}
	w.dispatcher.SendBillReminder(ctx, user, due[0])
	return nil
}

// handleInsightRequest never requeues: a quota failure today would fail
// again on redelivery, and insights are advisory anyway.
func (w *NotificationWorker) handleInsightRequest(ctx context.Context, msg *amqp.NotificationMessage) error {
	if w.insights == nil {
		slog.WarnContext(ctx, "No advisor configured, dropping insight request",
			"user_id", msg.UserID)
		return nil
	}
	_, err := w.insights.Generate(ctx, msg.UserID)
	if err != nil {
		if errors.Is(err, advisor.ErrQuotaExceeded) {
			slog.WarnContext(ctx, "Advisor quota exhausted, dropping insight request",
				"user_id", msg.UserID)
			return nil
		}
		slog.ErrorContext(ctx, "Insight generation failed",
			"user_id", msg.UserID, "error", err)
		return nil
	}
	return nil
}
