// Package notify renders and delivers user notifications. Delivery is
// best-effort: a failed send never fails the operation that raised it.
package notify

import "context"

// Email is a rendered message ready for delivery.
type Email struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// Mailer is the port for outbound email adapters.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}
