// Package gmail delivers notification emails through the Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	goption "google.golang.org/api/option"

	"finbook/internal/notify"
)

type Client struct {
	svc *gmailapi.Service
}

var _ notify.Mailer = (*Client)(nil)

// NewFromEnv creates a Gmail client from environment variables.
// Required: GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE for the
// OAuth client, plus a token file written by the oauth-init command.
// Optional: GOOGLE_OAUTH_TOKEN_FILE (default "token.json").
func NewFromEnv(ctx context.Context) (*Client, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))

	var b []byte
	var err error
	switch {
	case clientJSON != "":
		b = []byte(clientJSON)
	case clientFile != "":
		b, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth client credentials (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}

	cfg, err := google.ConfigFromJSON(b, gmailapi.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))
	if tokenFile == "" {
		tokenFile = "token.json"
	}
	tok, err := readToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read oauth token (run oauth-init first): %w", err)
	}

	svc, err := gmailapi.NewService(ctx,
		goption.WithTokenSource(cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}

	slog.InfoContext(ctx, "Gmail service created successfully")
	return &Client{svc: svc}, nil
}

func readToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var tok oauth2.Token
	if err := json.NewDecoder(f).Decode(&tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Send delivers the email through the authorized account. The From
// header is advisory; Gmail rewrites it to the account owner unless the
// address is a configured alias.
func (c *Client) Send(ctx context.Context, email notify.Email) error {
	raw := base64.URLEncoding.EncodeToString(buildMIME(email))
	_, err := c.svc.Users.Messages.Send("me", &gmailapi.Message{Raw: raw}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send: %w", err)
	}
	return nil
}

// buildMIME assembles a multipart/alternative RFC 5322 message with the
// text part first so clients that ignore HTML still render something.
func buildMIME(email notify.Email) []byte {
	const boundary = "finbook-alt-boundary"

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", email.From)
	fmt.Fprintf(&msg, "To: %s\r\n", email.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	msg.WriteString("MIME-Version: 1.0\r\n")

	if email.HTML == "" {
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(email.Text)
		return []byte(msg.String())
	}

	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(email.Text)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	msg.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n\r\n")
	msg.WriteString(email.HTML)
	msg.WriteString("\r\n")

	fmt.Fprintf(&msg, "--%s--\r\n", boundary)
	return []byte(msg.String())
}
