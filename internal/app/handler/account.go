package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"bankoffice/internal/app/ledger"
	"bankoffice/internal/app/logger"
)

type AccountHandler struct {
	ledger *ledger.Service
}

func NewAccountHandler(ledger *ledger.Service) *AccountHandler {
	return &AccountHandler{
		ledger: ledger,
	}
}

type accountRequest struct {
	Name    string          `json:"name" validate:"required,min=2,max=100"`
	Balance decimal.Decimal `json:"balance"`
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Account.List")
	l.Debug().Send()

	mm, err := h.ledger.ListActive(ctx)
	if err != nil {
		l.Error().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, mm, http.StatusOK)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number := chi.URLParam(r, "accountNumber")
	l := logger.Get(ctx, "Handler.Account.Get")
	l.Debug().Str("account_number", number).Send()

	m, err := h.ledger.GetByNumber(ctx, number)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := logger.Get(ctx, "Handler.Account.Create")
	l.Debug().Send()

	in := accountRequest{}
	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.ledger.Create(ctx, in.Name, in.Balance)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusCreated)
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number := chi.URLParam(r, "accountNumber")
	l := logger.Get(ctx, "Handler.Account.Update")
	l.Debug().Str("account_number", number).Send()

	in := accountRequest{}
	if err := readBody(r, &in); err != nil {
		l.Debug().Err(err).Msg("Body read failed")
		WriteError(w, err, http.StatusBadRequest)
		return
	}

	if !validateData(w, in) {
		return
	}

	m, err := h.ledger.Update(ctx, number, in.Name, in.Balance)
	if err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	WriteResponse(w, m, http.StatusOK)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	number := chi.URLParam(r, "accountNumber")
	l := logger.Get(ctx, "Handler.Account.Delete")
	l.Debug().Str("account_number", number).Send()

	if err := h.ledger.SoftDelete(ctx, number); err != nil {
		l.Debug().Err(err).Send()
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
