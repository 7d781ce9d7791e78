package core

import "time"

// BillReminder pairs a bill with how many whole days remain until it
// is due.
type BillReminder struct {
	Bill      Bill `json:"bill"`
	DaysToDue int  `json:"daysToDue"`
}

// DaysUntil returns due minus today in whole days, using calendar dates
// in UTC so the time of day never shifts the result. Negative means
// overdue.
func DaysUntil(today, due time.Time) int {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	d := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Sub(t).Hours() / 24)
}

// DueReminders reports which of the given bills should trigger a
// reminder today: unpaid, not overdue, and within the bill's own
// reminder lead-time. Paid bills are skipped regardless of dates.
//
// The matcher keeps no state: a caller invoking it daily will match the
// same bill on every day inside its window. Output order follows input
// order.
func DueReminders(bills []Bill, today time.Time) []BillReminder {
	var due []BillReminder
	for _, b := range bills {
		if b.IsPaid {
			continue
		}
		days := DaysUntil(today, b.DueDate)
		if days < 0 || days > b.ReminderDays {
			continue
		}
		due = append(due, BillReminder{Bill: b, DaysToDue: days})
	}
	return due
}

// NextDueDate advances a recurring bill's due date past the given
// reference date. One-off bills are returned unchanged.
func NextDueDate(b Bill, after time.Time) time.Time {
	next := b.DueDate
	for !next.After(after) {
		switch b.Period {
		case BillWeekly:
			next = next.AddDate(0, 0, 7)
		case BillMonthly:
			next = next.AddDate(0, 1, 0)
		case BillYearly:
			next = next.AddDate(1, 0, 0)
		default:
			return b.DueDate
		}
	}
	return next
}
