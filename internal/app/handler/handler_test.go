package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bankoffice/internal/app/engine"
	"bankoffice/internal/app/handler"
	"bankoffice/internal/app/ledger"
	"bankoffice/internal/app/middleware"
	"bankoffice/internal/app/model"
	"bankoffice/internal/app/service/notifier"
	"bankoffice/internal/app/session"
	"bankoffice/internal/app/storage/memory"
	"bankoffice/pkg/webhook"
)

const (
	clerkToken   = "clerk-token"
	managerToken = "manager-token"
)

// staticSessions resolves fixed tokens, standing in for the JWT session
// manager in handler tests.
type staticSessions map[string]*model.User

func (s staticSessions) Read(_ context.Context, token string) (*model.User, error) {
	u, ok := s[token]
	if !ok {
		return nil, session.ErrInvalidToken
	}

	return u, nil
}

type testEnv struct {
	store  *memory.Store
	users  *memory.UserStore
	ledger *ledger.Service
	engine *engine.Service
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.New()
	users := memory.NewUserStore()
	led := ledger.New(store, store)
	eng := engine.New(store, store, store, decimal.NewFromInt(200000))

	whc, err := webhook.NewClient("")
	require.NoError(t, err)
	nf, err := notifier.New(whc)
	require.NoError(t, err)
	t.Cleanup(nf.Stop)

	sessions := staticSessions{
		clerkToken:   {Name: "clerk1", Role: model.RoleClerk, Active: true},
		managerToken: {Name: "manager", Role: model.RoleManager, Active: true},
	}

	auth := middleware.Auth(sessions)
	anyStaff := middleware.RequireRole(model.RoleClerk, model.RoleManager)
	managerOnly := middleware.RequireRole(model.RoleManager)

	ach := handler.NewAccountHandler(led)
	th := handler.NewTransactionHandler(eng, nf)
	uh := handler.NewUserHandler(users)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/accounts", func(r chi.Router) {
			r.Use(auth)

			r.With(anyStaff).Get("/", ach.List)
			r.With(anyStaff).Get("/{accountNumber}", ach.Get)

			r.With(managerOnly).Post("/", ach.Create)
			r.With(managerOnly).Put("/{accountNumber}", ach.Update)
			r.With(managerOnly).Delete("/{accountNumber}", ach.Delete)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(auth)

			r.With(anyStaff).Put("/deposit", th.Deposit)
			r.With(anyStaff).Put("/withdraw", th.Withdraw)
			r.With(anyStaff).Get("/account/{accountNumber}/history", th.History)
			r.With(anyStaff).Get("/{transactionID}", th.Get)

			r.With(managerOnly).Get("/pending", th.ListPending)
			r.With(managerOnly).Put("/{transactionID}/approve", th.Approve)
			r.With(managerOnly).Put("/{transactionID}/reject", th.Reject)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(auth)
			r.Use(managerOnly)

			r.Post("/clerk", uh.CreateClerk)
			r.Get("/clerks", uh.ListClerks)
			r.Put("/clerks/{username}/disable", uh.DisableClerk)
		})
	})

	return &testEnv{
		store:  store,
		users:  users,
		ledger: led,
		engine: eng,
		router: r,
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	return rec
}

func (e *testEnv) newAccount(t *testing.T, balance string) *model.Account {
	t.Helper()

	m, err := e.ledger.Create(context.Background(), "Test Holder", decimal.RequireFromString(balance))
	require.NoError(t, err)

	return m
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
