package services

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finbook/internal/bank"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/storage"
)

func newTestRepo(t *testing.T) *storage.Repository {
	t.Helper()
	repo, err := storage.NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func newTestUser(t *testing.T, repo *storage.Repository) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{
		Email:        "user@example.com",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func testLogger() *log.Logger {
	return log.New(log.DefaultConfig())
}

func TestTransactionService_CreateRaisesAlert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	cat, err := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Groceries"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	_, err = repo.CreateBudget(ctx, core.Budget{
		UserID:         user.ID,
		CategoryID:     cat.ID,
		Amount:         core.Money{Cents: 10000},
		Period:         core.Monthly,
		AlertThreshold: 80,
	})
	if err != nil {
		t.Fatalf("CreateBudget: %v", err)
	}

	mailer := notify.NewMemoryMailer()
	dispatcher := notify.NewDispatcher(nil, mailer, "finbook@example.com", testLogger())
	svc := NewTransactionService(repo, dispatcher, testLogger())

	// Below threshold: no alert.
	_, alerts, err := svc.Create(ctx, core.Transaction{
		UserID:      user.ID,
		Description: "weekly shop",
		Amount:      core.Money{Cents: 5000},
		Date:        time.Now(),
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(alerts) != 0 {
		t.Fatalf("expected no alerts at 50%%, got %+v", alerts)
	}
	if len(mailer.Sent()) != 0 {
		t.Fatal("no email expected at 50%")
	}

	// Pushes spend to 150: exceeded.
	_, alerts, err = svc.Create(ctx, core.Transaction{
		UserID:      user.ID,
		Description: "party supplies",
		Amount:      core.Money{Cents: 10000},
		Date:        time.Now(),
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	alert := alerts[0]
	if !alert.IsExceeded || alert.Spent.Cents != 15000 || alert.PercentSpent != 150 {
		t.Errorf("wrong alert: %+v", alert)
	}
	sent := mailer.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected exactly 1 email, got %d", len(sent))
	}
	if sent[0].To != user.Email || !strings.Contains(sent[0].Subject, "Groceries") {
		t.Errorf("wrong email: %+v", sent[0])
	}
}

func TestTransactionService_MailFailureDoesNotFailCreate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	cat, _ := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Transport"})
	repo.CreateBudget(ctx, core.Budget{
		UserID: user.ID, CategoryID: cat.ID,
		Amount: core.Money{Cents: 1000}, Period: core.Monthly,
	})

	mailer := notify.NewMemoryMailer()
	mailer.FailWith = context.DeadlineExceeded
	dispatcher := notify.NewDispatcher(nil, mailer, "finbook@example.com", testLogger())
	svc := NewTransactionService(repo, dispatcher, testLogger())

	saved, alerts, err := svc.Create(ctx, core.Transaction{
		UserID:      user.ID,
		Description: "taxi",
		Amount:      core.Money{Cents: 5000},
		Date:        time.Now(),
		CategoryID:  cat.ID,
	})
	if err != nil {
		t.Fatalf("Create should survive mail failure: %v", err)
	}
	if saved.ID == 0 {
		t.Error("transaction not saved")
	}
	if len(alerts) != 1 {
		t.Errorf("alert should still be returned, got %d", len(alerts))
	}
}

func TestReminderService_RunForUser(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	today := time.Date(2026, time.June, 10, 15, 30, 0, 0, time.UTC)
	mkBill := func(name string, dueIn, reminderDays int, paid bool) {
		t.Helper()
		_, err := repo.CreateBill(ctx, core.Bill{
			UserID:       user.ID,
			Name:         name,
			Amount:       core.Money{Cents: 5000},
			DueDate:      today.AddDate(0, 0, dueIn),
			Period:       core.BillMonthly,
			ReminderDays: reminderDays,
			IsPaid:       paid,
		})
		if err != nil {
			t.Fatalf("CreateBill: %v", err)
		}
	}
	mkBill("inside window", 3, 7, false)
	mkBill("outside window", 10, 7, false)
	mkBill("paid", 2, 7, true)
	mkBill("due today", 0, 0, false)

	mailer := notify.NewMemoryMailer()
	dispatcher := notify.NewDispatcher(nil, mailer, "finbook@example.com", testLogger())
	svc := NewReminderService(repo, dispatcher, 30, testLogger())
	svc.now = func() time.Time { return today }

	due, err := svc.RunForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("RunForUser: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("expected 2 reminders, got %d", len(due))
	}
	if len(mailer.Sent()) != 2 {
		t.Errorf("expected 2 emails, got %d", len(mailer.Sent()))
	}

	// Stateless: running again sends again.
	due, _ = svc.RunForUser(ctx, user.ID)
	if len(due) != 2 {
		t.Errorf("second run should match the same bills, got %d", len(due))
	}
	if len(mailer.Sent()) != 4 {
		t.Errorf("second run should send again, got %d total", len(mailer.Sent()))
	}
}

func TestReminderService_MarkPaid(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)
	now := time.Date(2026, time.June, 10, 0, 0, 0, 0, time.UTC)

	recurring, _ := repo.CreateBill(ctx, core.Bill{
		UserID: user.ID, Name: "Rent", Amount: core.Money{Cents: 120000},
		DueDate: time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		Period:  core.BillMonthly, ReminderDays: 5,
	})
	oneOff, _ := repo.CreateBill(ctx, core.Bill{
		UserID: user.ID, Name: "Car tax", Amount: core.Money{Cents: 30000},
		DueDate: time.Date(2026, time.June, 20, 0, 0, 0, 0, time.UTC),
		Period:  core.BillOnce, ReminderDays: 5,
	})

	dispatcher := notify.NewDispatcher(nil, notify.NewMemoryMailer(), "f@example.com", testLogger())
	svc := NewReminderService(repo, dispatcher, 30, testLogger())
	svc.now = func() time.Time { return now }

	got, err := svc.MarkPaid(ctx, user.ID, recurring.ID)
	if err != nil {
		t.Fatalf("MarkPaid recurring: %v", err)
	}
	want := time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC)
	if !got.DueDate.Equal(want) || got.IsPaid {
		t.Errorf("recurring bill should roll to %v unpaid, got %v paid=%v", want, got.DueDate, got.IsPaid)
	}

	got, err = svc.MarkPaid(ctx, user.ID, oneOff.ID)
	if err != nil {
		t.Fatalf("MarkPaid one-off: %v", err)
	}
	if !got.IsPaid {
		t.Error("one-off bill should stay paid")
	}
}

func TestImportService_CSV(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	csvData := strings.Join([]string{
		"Date,Description,Amount",
		"2026-05-01,Coffee,-3.50",
		"2026-05-02,Salary,2500.00",
		"not-a-date,Broken,-1.00",
		"2026-05-03,,-2.00",
	}, "\n")

	svc := NewImportService(repo, testLogger())
	result, err := svc.ImportCSV(ctx, user.ID, strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ImportCSV: %v", err)
	}
	if result.Imported != 2 || result.Skipped != 2 {
		t.Errorf("result = %+v, want 2 imported 2 skipped", result)
	}

	txs, _ := repo.ListTransactions(ctx, user.ID, time.Time{}, time.Time{})
	if len(txs) != 2 {
		t.Fatalf("expected 2 saved transactions, got %d", len(txs))
	}
	for _, tx := range txs {
		if tx.Amount.Cents < 0 {
			t.Errorf("amounts must be non-negative: %+v", tx)
		}
	}
}

type fakeFeed struct {
	feeds map[string]bank.Feed
}

func (f *fakeFeed) FetchFeed(_ context.Context, externalID, _ string) (bank.Feed, error) {
	return f.feeds[externalID], nil
}

func TestBankSyncService_Sync(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := newTestUser(t, repo)

	linked, _ := repo.CreateAccount(ctx, core.Account{
		UserID: user.ID, Name: "Checking", Currency: "EUR", ExternalID: "item-1",
	})
	repo.CreateAccount(ctx, core.Account{
		UserID: user.ID, Name: "Cash", Currency: "EUR",
	})

	day := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	feed := &fakeFeed{feeds: map[string]bank.Feed{
		"item-1": {
			Transactions: []bank.FeedTransaction{
				{ID: "t1", Description: "Coffee", Amount: "-3.50", Date: day},
				{ID: "t2", Description: "Hold", Amount: "-1.00", Date: day, Pending: true},
			},
			Balance:    "-12.50",
			NextCursor: "cursor-2",
		},
	}}

	svc := NewBankSyncService(repo, feed, testLogger())
	result, err := svc.Sync(ctx, user.ID)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if result.AccountsSynced != 1 || result.Imported != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v", result)
	}

	got, _ := repo.GetAccount(ctx, user.ID, linked.ID)
	if got.SyncCursor != "cursor-2" {
		t.Errorf("cursor not advanced: %q", got.SyncCursor)
	}
	if got.Balance.Cents != -1250 {
		t.Errorf("balance not updated: %d", got.Balance.Cents)
	}
}
