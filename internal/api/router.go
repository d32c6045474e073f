package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gripfinance/grip-backend/internal/api/handlers"
	custommiddleware "github.com/gripfinance/grip-backend/internal/api/middleware"
	"github.com/gripfinance/grip-backend/internal/config"
	"github.com/gripfinance/grip-backend/internal/service"
)

// Services groups the services the HTTP API depends on.
type Services struct {
	System    *service.SystemService
	Statement *service.StatementService
	Holding   *service.HoldingService
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, log zerolog.Logger, svc Services) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(custommiddleware.NewCORS(cfg.CORS.AllowedOrigins))

	r.Route("/api", func(r chi.Router) {
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/statement", func(r chi.Router) {
			statementHandler := handlers.NewStatementHandler(svc.Statement, cfg.Import.MaxUploadBytes)
			r.Get("/sources", statementHandler.Sources)
			r.Post("/parse", statementHandler.Parse)
			r.Post("/import", statementHandler.Import)
		})

		r.Route("/holding", func(r chi.Router) {
			holdingHandler := handlers.NewHoldingHandler(svc.Holding, svc.Statement)
			r.Get("/", holdingHandler.Holdings)
			r.Post("/detect-sip", holdingHandler.DetectSIP)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", holdingHandler.Holding)
				r.Get("/transactions", holdingHandler.Transactions)
			})
		})
	})

	return r
}
