package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
)

func TestRenderBudgetAlert(t *testing.T) {
	tests := []struct {
		name        string
		alert       core.BudgetAlert
		wantSubject string
		wantInBody  []string
	}{
		{
			name: "exceeded",
			alert: core.BudgetAlert{
				CategoryID:   3,
				CategoryName: "Groceries",
				Amount:       core.Money{Cents: 50000},
				Spent:        core.Money{Cents: 62050},
				PercentSpent: 124,
				IsExceeded:   true,
			},
			wantSubject: "Budget exceeded: Groceries",
			wantInBody:  []string{"Groceries", "500.00", "620.50", "124%"},
		},
		{
			name: "approaching",
			alert: core.BudgetAlert{
				CategoryID:   4,
				CategoryName: "Dining Out",
				Amount:       core.Money{Cents: 20000},
				Spent:        core.Money{Cents: 17000},
				PercentSpent: 85,
				IsExceeded:   false,
			},
			wantSubject: "Budget alert: Dining Out at 85%",
			wantInBody:  []string{"85%", "200.00", "170.00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := RenderBudgetAlert("user@example.com", "finbook@example.com", tt.alert)

			if email.To != "user@example.com" || email.From != "finbook@example.com" {
				t.Errorf("addresses not set: to=%q from=%q", email.To, email.From)
			}
			if email.Subject != tt.wantSubject {
				t.Errorf("Subject = %q, want %q", email.Subject, tt.wantSubject)
			}
			for _, want := range tt.wantInBody {
				if !strings.Contains(email.Text, want) {
					t.Errorf("text body missing %q:\n%s", want, email.Text)
				}
				if !strings.Contains(email.HTML, want) {
					t.Errorf("html body missing %q:\n%s", want, email.HTML)
				}
			}
		})
	}
}

func TestRenderBillReminder(t *testing.T) {
	bill := core.Bill{
		ID:      9,
		Name:    "Rent",
		Amount:  core.Money{Cents: 120000},
		DueDate: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		Period:  core.BillMonthly,
	}

	tests := []struct {
		daysToDue   int
		wantSubject string
	}{
		{0, "Bill due today: Rent"},
		{1, "Bill due tomorrow: Rent"},
		{5, "Bill due in 5 days: Rent"},
	}

	for _, tt := range tests {
		email := RenderBillReminder("user@example.com", "finbook@example.com",
			core.BillReminder{Bill: bill, DaysToDue: tt.daysToDue})
		if email.Subject != tt.wantSubject {
			t.Errorf("daysToDue=%d: Subject = %q, want %q", tt.daysToDue, email.Subject, tt.wantSubject)
		}
		if !strings.Contains(email.Text, "1200.00") {
			t.Errorf("text body missing amount:\n%s", email.Text)
		}
	}
}

func TestRenderBillReminder_EscapesHTML(t *testing.T) {
	bill := core.Bill{
		Name:    "Cable <TV> & Internet",
		Amount:  core.Money{Cents: 5000},
		DueDate: time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
	}
	email := RenderBillReminder("u@example.com", "f@example.com",
		core.BillReminder{Bill: bill, DaysToDue: 2})
	if strings.Contains(email.HTML, "<TV>") {
		t.Error("bill name not escaped in html body")
	}
	if !strings.Contains(email.HTML, "Cable &lt;TV&gt; &amp; Internet") {
		t.Errorf("escaped name missing:\n%s", email.HTML)
	}
}

func TestDispatcher_DirectSend(t *testing.T) {
	mailer := NewMemoryMailer()
	d := NewDispatcher(nil, mailer, "finbook@example.com", log.New(log.DefaultConfig()))
	user := core.User{ID: 1, Email: "user@example.com"}

	d.BudgetAlerts(context.Background(), user, []core.BudgetAlert{
		{CategoryID: 1, CategoryName: "Transport", Amount: core.Money{Cents: 10000}, Spent: core.Money{Cents: 11000}, PercentSpent: 110, IsExceeded: true},
		{CategoryID: 2, CategoryName: "Health", Amount: core.Money{Cents: 10000}, Spent: core.Money{Cents: 8500}, PercentSpent: 85},
	})

	sent := mailer.Sent()
	if len(sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(sent))
	}
	if sent[0].To != "user@example.com" {
		t.Errorf("wrong recipient: %q", sent[0].To)
	}
}

func TestDispatcher_SendFailureIsSwallowed(t *testing.T) {
	mailer := NewMemoryMailer()
	mailer.FailWith = errors.New("smtp down")
	d := NewDispatcher(nil, mailer, "finbook@example.com", log.New(log.DefaultConfig()))
	user := core.User{ID: 1, Email: "user@example.com"}

	// Must not panic or propagate the error.
	d.BillReminder(context.Background(), user, core.BillReminder{
		Bill:      core.Bill{ID: 1, Name: "Rent", Amount: core.Money{Cents: 1000}, DueDate: time.Now()},
		DaysToDue: 3,
	})

	if len(mailer.Sent()) != 0 {
		t.Error("no email should be recorded on failure")
	}
}
