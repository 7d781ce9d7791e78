// Package http exposes the REST API.
package http

import (
	"context"
	"net/http"
	"sync"

	"finbook/internal/auth"
	"finbook/internal/log"
	"finbook/internal/middleware/ratelimit"
	"finbook/internal/middleware/security"
	"finbook/internal/middleware/trace"
	"finbook/internal/services"
	"finbook/internal/storage"
)

// Options carries everything the server needs. Advisor-backed and
// bank-backed routes answer 503 when their collaborator is nil.
type Options struct {
	Addr         string
	Repo         *storage.Repository
	Tokens       *auth.TokenService
	Transactions *services.TransactionService
	Alerts       *services.AlertService
	Reminders    *services.ReminderService
	Insights     *services.InsightService
	Importer     *services.ImportService
	BankSync     *services.BankSyncService
	UploadsDir   string
	AdminToken   string
	Logger       *log.Logger
}

type Server struct {
	http.Server

	repo         *storage.Repository
	tokens       *auth.TokenService
	transactions *services.TransactionService
	alerts       *services.AlertService
	reminders    *services.ReminderService
	insights     *services.InsightService
	importer     *services.ImportService
	bankSync     *services.BankSyncService
	uploadsDir   string
	adminToken   string
	logger       *log.Logger

	rateLimiter  *ratelimit.Limiter
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: opts.Addr,
		},
		repo:         opts.Repo,
		tokens:       opts.Tokens,
		transactions: opts.Transactions,
		alerts:       opts.Alerts,
		reminders:    opts.Reminders,
		insights:     opts.Insights,
		importer:     opts.Importer,
		bankSync:     opts.BankSync,
		uploadsDir:   opts.UploadsDir,
		adminToken:   opts.AdminToken,
		logger:       opts.Logger.WithComponent(log.ComponentHTTP),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.auth(s.handleMe))

	mux.HandleFunc("GET /api/categories", s.auth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.auth(s.handleCreateCategory))
	mux.HandleFunc("GET /api/categories/{id}", s.auth(s.handleGetCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.auth(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.auth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/accounts", s.auth(s.handleListAccounts))
	mux.HandleFunc("POST /api/accounts", s.auth(s.handleCreateAccount))
	mux.HandleFunc("GET /api/accounts/{id}", s.auth(s.handleGetAccount))
	mux.HandleFunc("PUT /api/accounts/{id}", s.auth(s.handleUpdateAccount))
	mux.HandleFunc("DELETE /api/accounts/{id}", s.auth(s.handleDeleteAccount))

	mux.HandleFunc("GET /api/transactions", s.auth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.auth(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/transactions/{id}", s.auth(s.handleGetTransaction))
	mux.HandleFunc("PUT /api/transactions/{id}", s.auth(s.handleUpdateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.auth(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/transactions/{id}/receipt", s.auth(s.handleUploadReceipt))

	mux.HandleFunc("GET /api/budgets", s.auth(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.auth(s.handleCreateBudget))
	mux.HandleFunc("GET /api/budgets/spending", s.auth(s.handleSpending))
	mux.HandleFunc("GET /api/budgets/alerts", s.auth(s.handleAlerts))
	mux.HandleFunc("GET /api/budgets/{id}", s.auth(s.handleGetBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.auth(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.auth(s.handleDeleteBudget))

	mux.HandleFunc("GET /api/bills", s.auth(s.handleListBills))
	mux.HandleFunc("POST /api/bills", s.auth(s.handleCreateBill))
	mux.HandleFunc("GET /api/bills/upcoming", s.auth(s.handleUpcomingBills))
	mux.HandleFunc("GET /api/bills/{id}", s.auth(s.handleGetBill))
	mux.HandleFunc("PUT /api/bills/{id}", s.auth(s.handleUpdateBill))
	mux.HandleFunc("DELETE /api/bills/{id}", s.auth(s.handleDeleteBill))
	mux.HandleFunc("PATCH /api/bills/{id}/pay", s.auth(s.handlePayBill))

	mux.HandleFunc("GET /api/goals", s.auth(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.auth(s.handleCreateGoal))
	mux.HandleFunc("GET /api/goals/{id}", s.auth(s.handleGetGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.auth(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.auth(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/insights", s.auth(s.handleListInsights))
	mux.HandleFunc("PATCH /api/insights/{id}/read", s.auth(s.handleMarkInsightRead))
	mux.HandleFunc("DELETE /api/insights/{id}", s.auth(s.handleDeleteInsight))
	mux.HandleFunc("POST /api/ai/insights", s.auth(s.handleGenerateInsights))
	mux.HandleFunc("GET /api/ai/advice", s.auth(s.handleAdvice))

	mux.HandleFunc("POST /api/imports/statement", s.auth(s.handleImportStatement))
	mux.HandleFunc("POST /api/bank/sync", s.auth(s.handleBankSync))
	mux.HandleFunc("POST /api/admin/reminders/run", s.auth(s.admin(s.handleRunReminders)))

	extractor := security.NewIPExtractor()
	var handler http.Handler = mux
	handler = s.rateLimiter.Middleware(extractor.ClientIP)(handler)
	handler = security.Headers(security.DefaultHeadersConfig())(handler)
	handler = trace.Middleware(extractor.ClientIP)(handler)
	s.Handler = handler

	return s
}

// Shutdown stops background goroutines and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.repo.Ping(r.Context()); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
