package core

import (
	"testing"
	"time"
)

func TestDueReminders(t *testing.T) {
	today := time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC)
	bill := func(dueInDays, reminderDays int, paid bool) Bill {
		return Bill{
			Name:         "Rent",
			Amount:       Money{Cents: 120000},
			DueDate:      today.AddDate(0, 0, dueInDays),
			Period:       BillMonthly,
			IsPaid:       paid,
			ReminderDays: reminderDays,
		}
	}

	tests := []struct {
		name     string
		bill     Bill
		want     bool
		wantDays int
	}{
		{name: "due in exactly reminderDays - fires", bill: bill(3, 3, false), want: true, wantDays: 3},
		{name: "due in reminderDays+1 - no reminder", bill: bill(4, 3, false), want: false},
		{name: "due today - fires", bill: bill(0, 3, false), wantDays: 0, want: true},
		{name: "one day overdue - no reminder", bill: bill(-1, 3, false), want: false},
		{name: "paid bill - no reminder", bill: bill(1, 3, true), want: false},
		{name: "zero lead time, due today - fires", bill: bill(0, 0, false), want: true, wantDays: 0},
		{name: "zero lead time, due tomorrow - no reminder", bill: bill(1, 0, false), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DueReminders([]Bill{tt.bill}, today)
			if tt.want {
				if len(got) != 1 {
					t.Fatalf("expected reminder, got %v", got)
				}
				if got[0].DaysToDue != tt.wantDays {
					t.Errorf("DaysToDue = %d, want %d", got[0].DaysToDue, tt.wantDays)
				}
				return
			}
			if len(got) != 0 {
				t.Errorf("expected no reminder, got %v", got)
			}
		})
	}
}

func TestDaysUntil_IgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2025, 6, 10, 23, 59, 0, 0, time.UTC)
	due := time.Date(2025, 6, 13, 0, 1, 0, 0, time.UTC)
	if got := DaysUntil(today, due); got != 3 {
		t.Errorf("DaysUntil = %d, want 3", got)
	}
}

func TestNextDueDate(t *testing.T) {
	after := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		bill Bill
		want time.Time
	}{
		{
			name: "monthly bill advances one month",
			bill: Bill{Period: BillMonthly, DueDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
			want: time.Date(2025, 7, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "weekly bill advances past reference",
			bill: Bill{Period: BillWeekly, DueDate: time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC)},
			want: time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "one-off bill unchanged",
			bill: Bill{Period: BillOnce, DueDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)},
			want: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "future due date unchanged",
			bill: Bill{Period: BillMonthly, DueDate: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)},
			want: time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextDueDate(tt.bill, after); !got.Equal(tt.want) {
				t.Errorf("NextDueDate = %v, want %v", got, tt.want)
			}
		})
	}
}
