package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bankoffice/internal/app/handler"
	middleware2 "bankoffice/internal/app/middleware"
	"bankoffice/internal/app/model"
)

func (a *App) Router() http.Handler {

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware2.Log(a.logger))

	auth := middleware2.Auth(a.session)
	anyStaff := middleware2.RequireRole(model.RoleClerk, model.RoleManager)
	managerOnly := middleware2.RequireRole(model.RoleManager)

	ah := handler.NewAuthHandler(a.users, a.session)
	ach := handler.NewAccountHandler(a.ledger)
	th := handler.NewTransactionHandler(a.engine, a.notifier)
	uh := handler.NewUserHandler(a.users)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", ah.Login)

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

	return r
}
