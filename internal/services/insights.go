package services

import (
	"context"
	"fmt"
	"time"

	"finbook/internal/cache"
	"finbook/internal/core"
	"finbook/internal/log"
	"finbook/internal/notify"
	"finbook/internal/storage"
)

// Advisor is the port for the AI collaborator.
type Advisor interface {
	GenerateInsights(ctx context.Context, summary core.FinancialSummary) ([]core.Insight, error)
	Advice(ctx context.Context, summary core.FinancialSummary, question string) (string, error)
}

// InsightService builds financial summaries, asks the advisor for
// insights and persists the results.
type InsightService struct {
	repo        *storage.Repository
	advisor     Advisor
	dispatcher  *notify.Dispatcher
	adviceCache *cache.LRU[string]
	logger      *log.Logger
}

func NewInsightService(repo *storage.Repository, advisor Advisor, dispatcher *notify.Dispatcher, logger *log.Logger) *InsightService {
	return &InsightService{
		repo:        repo,
		advisor:     advisor,
		dispatcher:  dispatcher,
		adviceCache: cache.NewLRU[string](256, 10*time.Minute),
		logger:      logger.WithComponent(log.ComponentAdvisor),
	}
}

// Summarize builds the compact financial picture handed to the advisor.
func (s *InsightService) Summarize(ctx context.Context, userID int64) (core.FinancialSummary, error) {
	txs, err := s.repo.ListTransactions(ctx, userID, time.Time{}, time.Time{})
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	categories, err := s.repo.ListCategories(ctx, userID)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("load categories: %w", err)
	}
	budgets, err := s.repo.ListBudgets(ctx, userID)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("load budgets: %w", err)
	}
	goals, err := s.repo.ListGoals(ctx, userID)
	if err != nil {
		return core.FinancialSummary{}, fmt.Errorf("load goals: %w", err)
	}
	return core.Summarize(txs, categories, budgets, goals), nil
}

// Request queues insight generation for the worker, or generates inline
// when no queue is configured.
func (s *InsightService) Request(ctx context.Context, userID int64) ([]core.Insight, bool, error) {
	if s.dispatcher.RequestInsights(ctx, userID) {
		return nil, true, nil
	}
	insights, err := s.Generate(ctx, userID)
	return insights, false, err
}

// Generate calls the advisor and persists whatever it returns. Advisor
// failures propagate; persistence failures for one insight are logged
// and skipped so the rest still land.
func (s *InsightService) Generate(ctx context.Context, userID int64) ([]core.Insight, error) {
	summary, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}

	insights, err := s.advisor.GenerateInsights(ctx, summary)
	if err != nil {
		return nil, fmt.Errorf("generate insights: %w", err)
	}

	saved := make([]core.Insight, 0, len(insights))
	for _, in := range insights {
		in.UserID = userID
		stored, err := s.repo.CreateInsight(ctx, in)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to persist insight",
				log.FieldError, err, log.FieldUserID, userID)
			continue
		}
		saved = append(saved, stored)
	}

	s.logger.InfoContext(ctx, "generated insights",
		log.FieldUserID, userID,
		"insights", len(saved))
	return saved, nil
}

// Advice answers a free-form question without persisting anything.
// Repeated questions are answered from a short-lived cache to spare the
// advisor quota.
func (s *InsightService) Advice(ctx context.Context, userID int64, question string) (string, error) {
	key := fmt.Sprintf("%d|%s", userID, question)
	if answer, ok := s.adviceCache.Get(key); ok {
		return answer, nil
	}

	summary, err := s.Summarize(ctx, userID)
	if err != nil {
		return "", err
	}
	answer, err := s.advisor.Advice(ctx, summary, question)
	if err != nil {
		return "", err
	}
	s.adviceCache.Set(key, answer)
	return answer, nil
}
