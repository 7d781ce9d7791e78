package notify

import (
	"fmt"
	"html"
	"strings"

	"finbook/internal/core"
)

// RenderBudgetAlert builds the email for a budget alert. Exceeded and
// approaching budgets get distinct subjects so inbox rules can split
// them.
func RenderBudgetAlert(to, from string, alert core.BudgetAlert) Email {
	var subject, headline string
	if alert.IsExceeded {
		subject = fmt.Sprintf("Budget exceeded: %s", alert.CategoryName)
		headline = fmt.Sprintf("You have exceeded your %s budget.", alert.CategoryName)
	} else {
		subject = fmt.Sprintf("Budget alert: %s at %d%%", alert.CategoryName, alert.PercentSpent)
		headline = fmt.Sprintf("You have used %d%% of your %s budget.", alert.PercentSpent, alert.CategoryName)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s\n\n", headline)
	fmt.Fprintf(&text, "Budget:  %s\n", alert.Amount)
	fmt.Fprintf(&text, "Spent:   %s (%d%%)\n", alert.Spent, alert.PercentSpent)

	var htmlBody strings.Builder
	htmlBody.WriteString("<html><body>")
	fmt.Fprintf(&htmlBody, "<p>%s</p>", html.EscapeString(headline))
	htmlBody.WriteString("<table>")
	fmt.Fprintf(&htmlBody, "<tr><td>Budget</td><td>%s</td></tr>", alert.Amount)
	fmt.Fprintf(&htmlBody, "<tr><td>Spent</td><td>%s (%d%%)</td></tr>", alert.Spent, alert.PercentSpent)
	htmlBody.WriteString("</table></body></html>")

	return Email{
		To:      to,
		From:    from,
		Subject: subject,
		Text:    text.String(),
		HTML:    htmlBody.String(),
	}
}

// RenderBillReminder builds the email for an upcoming or due bill.
func RenderBillReminder(to, from string, reminder core.BillReminder) Email {
	bill := reminder.Bill

	var when string
	switch reminder.DaysToDue {
	case 0:
		when = "today"
	case 1:
		when = "tomorrow"
	default:
		when = fmt.Sprintf("in %d days", reminder.DaysToDue)
	}

	subject := fmt.Sprintf("Bill due %s: %s", when, bill.Name)

	var text strings.Builder
	fmt.Fprintf(&text, "Your bill %q is due %s.\n\n", bill.Name, when)
	fmt.Fprintf(&text, "Amount:   %s\n", bill.Amount)
	fmt.Fprintf(&text, "Due date: %s\n", bill.DueDate.Format("Mon, 2 Jan 2006"))

	var htmlBody strings.Builder
	htmlBody.WriteString("<html><body>")
	fmt.Fprintf(&htmlBody, "<p>Your bill <strong>%s</strong> is due %s.</p>",
		html.EscapeString(bill.Name), when)
	htmlBody.WriteString("<table>")
	fmt.Fprintf(&htmlBody, "<tr><td>Amount</td><td>%s</td></tr>", bill.Amount)
	fmt.Fprintf(&htmlBody, "<tr><td>Due date</td><td>%s</td></tr>", bill.DueDate.Format("Mon, 2 Jan 2006"))
	htmlBody.WriteString("</table></body></html>")

	return Email{
		To:      to,
		From:    from,
		Subject: subject,
		Text:    text.String(),
		HTML:    htmlBody.String(),
	}
}
