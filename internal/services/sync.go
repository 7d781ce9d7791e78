package services

import (
	"context"
	"fmt"
	"strings"

	"finbook/internal/bank"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/storage"
)

// BankFeed is the port for the aggregator client.
type BankFeed interface {
	FetchFeed(ctx context.Context, externalID, cursor string) (bank.Feed, error)
}

// BankSyncService pulls movements for every linked account and turns
// them into transactions. The per-account cursor makes the pull
// incremental; the aggregator replays nothing before it.
type BankSyncService struct {
	repo   *storage.Repository
	feed   BankFeed
	logger *log.Logger
}

func NewBankSyncService(repo *storage.Repository, feed BankFeed, logger *log.Logger) *BankSyncService {
	return &BankSyncService{
		repo:   repo,
		feed:   feed,
		logger: logger.WithComponent(log.ComponentBank),
	}
}

// SyncResult reports one sync run across all linked accounts.
type SyncResult struct {
	AccountsSynced int `json:"accountsSynced"`
	Imported       int `json:"imported"`
	Skipped        int `json:"skipped"`
}

// Sync walks the user's linked accounts. A failing account is logged
// and skipped; the cursor only advances after its transactions landed.
func (s *BankSyncService) Sync(ctx context.Context, userID int64) (SyncResult, error) {
	accounts, err := s.repo.ListAccounts(ctx, userID)
	if err != nil {
		return SyncResult{}, fmt.Errorf("load accounts: %w", err)
	}

	var result SyncResult
	for _, account := range accounts {
		if account.ExternalID == "" {
			continue
		}
		imported, skipped, err := s.syncAccount(ctx, account)
		if err != nil {
			s.logger.ErrorContext(ctx, "account sync failed",
				log.FieldError, err,
				log.FieldUserID, userID,
				"account_id", account.ID)
			continue
		}
		result.AccountsSynced++
		result.Imported += imported
		result.Skipped += skipped
	}

	s.logger.InfoContext(ctx, "bank sync finished",
		log.FieldUserID, userID,
		log.FieldOperation, log.OpSync,
		"accounts", result.AccountsSynced,
		"imported", result.Imported)
	return result, nil
}

func (s *BankSyncService) syncAccount(ctx context.Context, account core.Account) (imported, skipped int, err error) {
	feed, err := s.feed.FetchFeed(ctx, account.ExternalID, account.SyncCursor)
	if err != nil {
		return 0, 0, err
	}

	txs := bank.MapTransactions(feed, account.UserID, account.ID)
	skipped = len(feed.Transactions) - len(txs)
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			skipped++
			continue
		}
		if _, err := s.repo.CreateTransaction(ctx, tx); err != nil {
			return imported, skipped, fmt.Errorf("save synced transaction: %w", err)
		}
		imported++
	}

	// Balances may legitimately be negative (overdraft).
	if feed.Balance != "" {
		if balance, err := core.ParseAmount(strings.TrimPrefix(feed.Balance, "-")); err == nil {
			if strings.HasPrefix(feed.Balance, "-") {
				balance.Cents = -balance.Cents
			}
			account.Balance = balance
		}
	}
	account.SyncCursor = feed.NextCursor
	if err := s.repo.UpdateAccount(ctx, account); err != nil {
		return imported, skipped, fmt.Errorf("update account cursor: %w", err)
	}
	return imported, skipped, nil
}
