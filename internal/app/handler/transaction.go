package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/engine"
	"bankoffice/internal/app/logger"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/service/notifier"
)

type TransactionHandler struct {
	engine   *engine.Service
	notifier *notifier.Service
}

func NewTransactionHandler(engine *engine.Service, notifier *notifier.Service) *TransactionHandler {
	return &TransactionHandler{
		engine:   engine,
		notifier: notifier,
	}
}

type moveRequest struct {
	AccountNumber string          `json:"account_number" validate:"required"`
	Amount        decimal.Decimal `json:"amount"`
}

func (h *TransactionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Transaction.Deposit")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	in := moveRequest{}
	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.engine.Deposit(ctx, in.AccountNumber, in.Amount, u.Name)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *TransactionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Transaction.Withdraw")
	l.Debug().Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	in := moveRequest{}
	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.engine.Withdraw(ctx, in.AccountNumber, in.Amount, u.Name)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	if m.Status == model.TransactionStatusPending {
		go h.notifier.Run(h.notifier.PendingApproval(m))
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *TransactionHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number := chi.URLParam(r, "accountNumber")
	l := logger.Get(ctx, "Handler.Transaction.History")
	l.Debug().Str("account_number", number).Send()

	mm, err := h.engine.HistoryForAccount(ctx, number)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "transactionID")
	l := logger.Get(ctx, "Handler.Transaction.Get")
	l.Debug().Str("transaction_id", id).Send()

	m, err := h.engine.GetByTransactionID(ctx, id)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *TransactionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "transactionID")
	l := logger.Get(ctx, "Handler.Transaction.Approve")
	l.Debug().Str("transaction_id", id).Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	m, err := h.engine.Approve(ctx, id, u.Name)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *TransactionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "transactionID")
	l := logger.Get(ctx, "Handler.Transaction.Reject")
	l.Debug().Str("transaction_id", id).Send()

	u, err := ReadContextUser(ctx)
	if err != nil {
		WriteError(w, err, http.StatusUnauthorized)
		return
	}

	m, err := h.engine.Reject(ctx, id, u.Name)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *TransactionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Transaction.ListPending")
	l.Debug().Send()

	mm, err := h.engine.ListPending(ctx)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}
