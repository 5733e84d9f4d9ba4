package app

import (
	"github.com/JisuPark-dev/AccountSystem/internal/handler/account"
	"github.com/JisuPark-dev/AccountSystem/internal/handler/middleware"
	"github.com/JisuPark-dev/AccountSystem/internal/handler/transaction"
	"github.com/JisuPark-dev/AccountSystem/internal/postgres"
	"github.com/JisuPark-dev/AccountSystem/internal/redislock"
	"github.com/JisuPark-dev/AccountSystem/internal/service"
	"github.com/go-chi/chi/v5"
)

func (app App) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.WithLogging)

	p := postgres.New(app.DB)
	locks := redislock.New(app.Redis, app.Config.LockWaitTimeout, app.Config.LockHoldTimeout)

	accountService := service.NewAccountService(p, p, locks)
	accountHandler := accounthandler.New(accountService)

	transactionService := service.NewTransactionService(p, p, p, locks)
	transactionHandler := transactionhandler.New(transactionService)

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", accountHandler.Create)
		r.Delete("/accounts", accountHandler.Close)
		r.Get("/accounts", accountHandler.List)
		r.Get("/accounts/{id}", accountHandler.ByID)

		r.Post("/transactions/use", transactionHandler.Use)
		r.Post("/transactions/cancel", transactionHandler.Cancel)
		r.Get("/transactions/{transactionId}", transactionHandler.Query)
	})

	return r
}
