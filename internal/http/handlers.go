package http

import (
	"context"
	"net/http"
	"time"

	"dompet/internal/core"
	dlog "dompet/internal/log"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.svc.Ready(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", dlog.FieldError, err)
			WriteError(w, r, http.StatusServiceUnavailable, "not ready")
			return
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	tax, err := s.svc.Reference.Taxonomy(r.Context())
	if err != nil {
		s.fail(w, r, err, "load taxonomy")
		return
	}
	WriteJSON(w, http.StatusOK, tax)
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	wallets, err := s.svc.Reference.ListWallets(r.Context())
	if err != nil {
		s.fail(w, r, err, "load wallets")
		return
	}
	if wallets == nil {
		wallets = []core.Wallet{}
	}
	WriteJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleSmartAdd(w http.ResponseWriter, r *http.Request) {
	var req smartAddRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	draft, err := s.svc.SmartAdd.Draft(r.Context(), sanitizeInput(req.Text), s.now())
	if err != nil {
		s.fail(w, r, err, "smart add")
		return
	}
	WriteJSON(w, http.StatusOK, draftResponse{Draft: draft, AIEnabled: s.svc.SmartAdd.AIEnabled()})
}

func (s *Server) handleRefine(w http.ResponseWriter, r *http.Request) {
	var req refineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	now := s.now()
	if req.Draft.Date.IsZero() {
		req.Draft.Date = now
	}
	if req.Draft.Type == "" {
		req.Draft.Type = core.Expense
	}

	draft, err := s.svc.SmartAdd.Refine(r.Context(), req.Draft, sanitizeInput(req.Instruction), now)
	if err != nil {
		s.fail(w, r, err, "refine draft")
		return
	}
	WriteJSON(w, http.StatusOK, draftResponse{Draft: draft, AIEnabled: s.svc.SmartAdd.AIEnabled()})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	tx, err := req.transaction(s.now())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.svc.Transactions.Create(r.Context(), tx)
	if err != nil {
		s.fail(w, r, err, "create transaction")
		return
	}
	tx.ID = id
	WriteJSON(w, http.StatusCreated, createdResponse{ID: id, Transaction: &tx})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	p, err := ParseMonthParams(r.URL.Query(), s.now())
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	key := monthKey(p.Year, p.Month)
	txs, ok := s.lists.Get(key)
	if ok {
		s.logger.DebugContext(r.Context(), "Transaction list cache hit",
			dlog.FieldYear, p.Year, dlog.FieldMonth, p.Month)
	} else {
		txs, err = s.svc.Transactions.List(r.Context(), p.Year, p.Month)
		if err != nil {
			s.fail(w, r, err, "list transactions")
			return
		}
		if txs == nil {
			txs = []core.Transaction{}
		}
		s.lists.Set(key, txs)
	}
	WriteJSON(w, http.StatusOK, transactionsResponse{Year: p.Year, Month: p.Month, Transactions: txs})
}

func (s *Server) handleBudgetReport(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	p, err := ParseMonthParams(r.URL.Query(), now)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.svc.Budgets.MonthReport(r.Context(), p.Year, p.Month, now)
	if err != nil {
		s.fail(w, r, err, "budget report")
		return
	}
	WriteJSON(w, http.StatusOK, newReportResponse(report))
}

func (s *Server) handleBudgetDetail(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	p, err := ParseMonthParams(r.URL.Query(), now)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := s.svc.Budgets.Detail(r.Context(), r.PathValue("id"), p.Year, p.Month, now)
	if err != nil {
		s.fail(w, r, err, "budget detail")
		return
	}
	WriteJSON(w, http.StatusOK, newBudgetDetailResponse(detail))
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := s.svc.Budgets.Save(r.Context(), req.budget())
	if err != nil {
		s.fail(w, r, err, "save budget")
		return
	}
	WriteJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// fail maps err to a status. Client errors echo the message; server errors
// are logged and answered generically.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, op string) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		WriteError(w, r, status, err.Error())
		return
	}
	s.logger.ErrorContext(r.Context(), "Request failed",
		dlog.FieldOperation, op,
		dlog.FieldError, err)
	WriteError(w, r, status, op+" failed")
}
