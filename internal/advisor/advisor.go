// Package advisor generates financial insights and advice by calling an
// OpenAI-compatible chat completions API.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
)

// ErrQuotaExceeded marks rate-limit and billing failures from the
// upstream API so callers can translate them to 429 instead of 500.
var ErrQuotaExceeded = errors.New("advisor quota exceeded")

type Client struct {
	baseURL string
	apiKey  string
	model   string
	httpc   *http.Client
	logger  *log.Logger
}

func NewClient(baseURL, apiKey, model string, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpc:   &http.Client{Timeout: 60 * time.Second},
		logger:  logger.WithComponent(log.ComponentAdvisor),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

const insightsSystemPrompt = `You are a personal finance assistant. Given a JSON summary of a user's finances, respond with a JSON array of insight objects, each with fields "title", "content", "type" (one of "spending", "saving", "budget", "general") and "severity" (one of "info", "warning", "critical"). Respond with the JSON array only, no prose.`

const adviceSystemPrompt = `You are a personal finance assistant. Given a JSON summary of a user's finances and a question, answer with short practical advice in plain text.`

// GenerateInsights asks the model for insights on the summary and
// parses them into unsaved Insight records.
func (c *Client) GenerateInsights(ctx context.Context, summary core.FinancialSummary) ([]core.Insight, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}

	content, err := c.complete(ctx, insightsSystemPrompt, string(payload))
	if err != nil {
		return nil, err
	}

	var parsed []struct {
		Title    string `json:"title"`
		Content  string `json:"content"`
		Type     string `json:"type"`
		Severity string `json:"severity"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse insights response: %w", err)
	}

	insights := make([]core.Insight, 0, len(parsed))
	for _, p := range parsed {
		if strings.TrimSpace(p.Title) == "" {
			continue
		}
		insights = append(insights, core.Insight{
			Title:     p.Title,
			Content:   p.Content,
			Type:      defaultString(p.Type, "general"),
			Severity:  defaultString(p.Severity, "info"),
			CreatedAt: time.Now(),
		})
	}
	return insights, nil
}

// Advice answers a free-form question about the summary.
func (c *Client) Advice(ctx context.Context, summary core.FinancialSummary, question string) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	prompt := fmt.Sprintf("Summary:\n%s\n\nQuestion: %s", payload, question)
	return c.complete(ctx, adviceSystemPrompt, prompt)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advisor api: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read advisor response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests, http.StatusPaymentRequired:
		c.logger.WarnContext(ctx, "advisor quota exhausted",
			log.FieldStatusCode, resp.StatusCode)
		return "", fmt.Errorf("%w: status %d", ErrQuotaExceeded, resp.StatusCode)
	default:
		return "", fmt.Errorf("advisor api status %d: %s", resp.StatusCode, truncate(data, 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	if parsed.Error != nil {
		if parsed.Error.Code == "insufficient_quota" || parsed.Error.Type == "insufficient_quota" {
			return "", fmt.Errorf("%w: %s", ErrQuotaExceeded, parsed.Error.Message)
		}
		return "", fmt.Errorf("advisor api error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("advisor api returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripCodeFence unwraps ```json fenced responses some models insist on.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func defaultString(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
