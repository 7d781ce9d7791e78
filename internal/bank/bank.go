// Package bank pulls account feeds from a bank aggregator API and maps
// them onto the domain model.
package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finbook/internal/core"
	"finbook/internal/log"
)

type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	logger  *log.Logger
}

func NewClient(baseURL, apiKey string, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger.WithComponent(log.ComponentBank),
	}
}

// FeedTransaction is one movement as the aggregator reports it. Amount
// is a signed decimal string: negative for money out, positive for
// money in. Pending movements are reported but never imported.
type FeedTransaction struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Date        time.Time `json:"date"`
	Pending     bool      `json:"pending"`
}

// Feed is one page of an account's movement history.
type Feed struct {
	Transactions []FeedTransaction `json:"transactions"`
	Balance      string            `json:"balance"`
	NextCursor   string            `json:"nextCursor"`
}

// FetchFeed returns the movements for an aggregator item after the
// given cursor. An empty cursor fetches from the beginning.
func (c *Client) FetchFeed(ctx context.Context, externalID, cursor string) (Feed, error) {
	endpoint := fmt.Sprintf("%s/items/%s/transactions", c.baseURL, url.PathEscape(externalID))
	if cursor != "" {
		endpoint += "?cursor=" + url.QueryEscape(cursor)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Feed{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("call aggregator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Feed{}, fmt.Errorf("aggregator status %d: %s", resp.StatusCode, body)
	}

	var feed Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return Feed{}, fmt.Errorf("decode feed: %w", err)
	}

	c.logger.InfoContext(ctx, "fetched bank feed",
		"external_id", externalID,
		"transactions", len(feed.Transactions))
	return feed, nil
}

// MapTransactions converts feed movements into unsaved transactions for
// the given account. Pending and unparseable movements are skipped;
// skipped counts toward nothing, the next sync sees them again once
// settled.
func MapTransactions(feed Feed, userID, accountID int64) []core.Transaction {
	out := make([]core.Transaction, 0, len(feed.Transactions))
	for _, ft := range feed.Transactions {
		if ft.Pending {
			continue
		}
		amountStr := strings.TrimPrefix(ft.Amount, "-")
		amount, err := core.ParseAmount(amountStr)
		if err != nil {
			continue
		}
		desc := strings.TrimSpace(ft.Description)
		if desc == "" {
			desc = "Bank transaction"
		}
		out = append(out, core.Transaction{
			UserID:      userID,
			AccountID:   accountID,
			Description: desc,
			Amount:      amount,
			Date:        ft.Date,
			IsIncome:    !strings.HasPrefix(ft.Amount, "-"),
			Notes:       "imported from bank feed " + ft.ID,
		})
	}
	return out
}
