package gmail

import (
	"strings"
	"testing"

	"finbook/internal/notify"
)

func TestBuildMIME_Multipart(t *testing.T) {
	email := notify.Email{
		To:      "user@example.com",
		From:    "finbook@example.com",
		Subject: "Budget exceeded: Groceries",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
	}

	msg := string(buildMIME(email))

	for _, want := range []string{
		"From: finbook@example.com\r\n",
		"To: user@example.com\r\n",
		"Subject: Budget exceeded: Groceries\r\n",
		"MIME-Version: 1.0\r\n",
		"multipart/alternative",
		"Content-Type: text/plain",
		"Content-Type: text/html",
		"plain body",
		"<p>html body</p>",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}

	// Text part must come before the HTML part.
	if strings.Index(msg, "plain body") > strings.Index(msg, "<p>html body</p>") {
		t.Error("text part should precede html part")
	}
}

func TestBuildMIME_PlainOnly(t *testing.T) {
	email := notify.Email{
		To:      "user@example.com",
		From:    "finbook@example.com",
		Subject: "Bill due today: Rent",
		Text:    "pay up",
	}

	msg := string(buildMIME(email))
	if strings.Contains(msg, "multipart") {
		t.Error("plain-only email should not be multipart")
	}
	if !strings.Contains(msg, "pay up") {
		t.Error("body missing")
	}
}

func TestBuildMIME_EncodesSubject(t *testing.T) {
	email := notify.Email{
		To:      "user@example.com",
		From:    "finbook@example.com",
		Subject: "Bollette in scadenza: caffè",
		Text:    "x",
	}

	msg := string(buildMIME(email))
	if strings.Contains(msg, "caffè\r\n") {
		t.Error("non-ASCII subject should be Q-encoded")
	}
	if !strings.Contains(msg, "=?utf-8?q?") {
		t.Errorf("expected encoded-word subject:\n%s", msg)
	}
}
