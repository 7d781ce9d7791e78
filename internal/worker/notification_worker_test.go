package worker

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/services"
	"finbook/internal/storage"
)

func newFixture(t *testing.T) (*storage.Repository, *notify.MemoryMailer, *NotificationWorker) {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	logger := log.New(log.DefaultConfig())
	mailer := notify.NewMemoryMailer()
	dispatcher := notify.NewDispatcher(nil, mailer, "finbook@example.com", logger)
	insights := services.NewInsightService(repo, nil, dispatcher, logger)
	return repo, mailer, NewNotificationWorker(repo, dispatcher, insights)
}

func TestHandle_BudgetAlert(t *testing.T) {
	repo, mailer, w := newFixture(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, core.User{Email: "u@example.com", PasswordHash: "h"})
	cat, _ := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Groceries"})
	repo.CreateBudget(ctx, core.Budget{
		UserID: user.ID, CategoryID: cat.ID,
		Amount: core.Money{Cents: 10000}, Period: core.Monthly,
	})
	repo.CreateTransaction(ctx, core.Transaction{
		UserID: user.ID, Description: "shop", Amount: core.Money{Cents: 15000},
		Date: time.Now(), CategoryID: cat.ID,
	})

	if err := w.Handle(ctx, amqp.NewBudgetAlertMessage(user.ID, cat.ID)); err != nil {
		t.Fatalf("Handle: %v", err)
	}

	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "exceeded") {
		t.Errorf("wrong subject: %q", sent[0].Subject)
	}
}

func TestHandle_BudgetAlert_RecoveredBeforeDelivery(t *testing.T) {
	repo, mailer, w := newFixture(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, core.User{Email: "u@example.com", PasswordHash: "h"})
	cat, _ := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Groceries"})
	repo.CreateBudget(ctx, core.Budget{
		UserID: user.ID, CategoryID: cat.ID,
		Amount: core.Money{Cents: 100000}, Period: core.Monthly,
	})
	// Spend well below threshold: the queued alert is stale.
	repo.CreateTransaction(ctx, core.Transaction{
		UserID: user.ID, Description: "shop", Amount: core.Money{Cents: 1000},
		Date: time.Now(), CategoryID: cat.ID,
	})

	if err := w.Handle(ctx, amqp.NewBudgetAlertMessage(user.ID, cat.ID)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(mailer.Sent()) != 0 {
		t.Error("no email expected after recovery")
	}
}

func TestHandle_BillReminder(t *testing.T) {
	repo, mailer, w := newFixture(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, core.User{Email: "u@example.com", PasswordHash: "h"})
	bill, _ := repo.CreateBill(ctx, core.Bill{
		UserID: user.ID, Name: "Rent", Amount: core.Money{Cents: 120000},
		DueDate: time.Now().AddDate(0, 0, 3), Period: core.BillMonthly,
		ReminderDays: 7,
	})

	if err := w.Handle(ctx, amqp.NewBillReminderMessage(user.ID, bill.ID)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(sent))
	}
	if !strings.Contains(sent[0].Subject, "Rent") {
		t.Errorf("wrong subject: %q", sent[0].Subject)
	}
}

func TestHandle_BillReminder_PaidAfterQueueing(t *testing.T) {
	repo, mailer, w := newFixture(t)
	ctx := context.Background()

	user, _ := repo.CreateUser(ctx, core.User{Email: "u@example.com", PasswordHash: "h"})
	bill, _ := repo.CreateBill(ctx, core.Bill{
		UserID: user.ID, Name: "Rent", Amount: core.Money{Cents: 120000},
		DueDate: time.Now().AddDate(0, 0, 3), Period: core.BillMonthly,
		ReminderDays: 7, IsPaid: true,
	})

	if err := w.Handle(ctx, amqp.NewBillReminderMessage(user.ID, bill.ID)); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(mailer.Sent()) != 0 {
		t.Error("paid bill should not trigger email")
	}
}

func TestHandle_MissingRecordsAreAcked(t *testing.T) {
	_, mailer, w := newFixture(t)
	ctx := context.Background()

	// Unknown user and bill: both must be dropped without error so the
	// delivery is acked instead of requeued forever.
	if err := w.Handle(ctx, amqp.NewBudgetAlertMessage(999, 1)); err != nil {
		t.Errorf("missing user should be dropped, got %v", err)
	}
	if err := w.Handle(ctx, amqp.NewBillReminderMessage(999, 1)); err != nil {
		t.Errorf("missing bill should be dropped, got %v", err)
	}
	if len(mailer.Sent()) != 0 {
		t.Error("nothing should be sent")
	}
}
