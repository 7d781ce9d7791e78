package notify

import (
	"context"
	"sync"
)

// MemoryMailer records sent emails instead of delivering them. Used in
// tests and as a stand-in when no real mailer is configured locally.
type MemoryMailer struct {
	mu       sync.Mutex
	sent     []Email
	FailWith error
}

func NewMemoryMailer() *MemoryMailer {
	return &MemoryMailer{}
}

func (m *MemoryMailer) Send(_ context.Context, email Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.sent = append(m.sent, email)
	return nil
}

// Sent returns a copy of all recorded emails.
func (m *MemoryMailer) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}
