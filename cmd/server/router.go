package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/scholarfund/scholarfund-api/internal/api"
	apiMiddleware "github.com/scholarfund/scholarfund-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	tokenLifetime := time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
	authHandler := api.NewAuthHandler(
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth.AdminPasswordHash,
		tokenLifetime,
	)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	scholarshipHandler := api.NewScholarshipHandler(app.scholarships, app.reputation)
	ledgerHandler := api.NewLedgerHandler(app.ledger)
	ratingHandler := api.NewRatingHandler(app.reputation, app.rewardToken)
	adminHandler := api.NewAdminHandler(app.reputation, app.configs)

	r.Route("/api", func(r chi.Router) {
		// Token issuance (public)
		r.Post("/auth/token", authHandler.IssueToken)

		// Public read surface
		r.Get("/scholarships", scholarshipHandler.ListScholarships)
		r.Get("/scholarships/top", scholarshipHandler.ListTopRated)
		r.Get("/scholarships/{id}", scholarshipHandler.GetScholarship)
		r.Get("/scholarships/{id}/funding", ledgerHandler.GetTotalFunding)
		r.Get("/scholarships/{id}/investors", ledgerHandler.GetInvestors)
		r.Get("/scholarships/{id}/investors/count", ledgerHandler.GetInvestorCount)
		r.Get("/scholarships/{id}/contributions/{investor}", ledgerHandler.GetContribution)
		r.Get("/scholarships/{id}/balance-check", ledgerHandler.CheckBalance)
		r.Get("/scholarships/{id}/withdrawals", ledgerHandler.GetWithdrawalHistory)
		r.Get("/scholarships/{id}/withdrawals/detailed", ledgerHandler.GetDetailedWithdrawalHistory)
		r.Get("/scholarships/{id}/withdrawals/{index}/fee", ledgerHandler.GetWithdrawalFee)
		r.Get("/scholarships/{id}/score", ratingHandler.GetScore)
		r.Get("/scholarships/{id}/ratings/count", ratingHandler.GetRatingCount)
		r.Get("/scholarships/{id}/ratings/tokens", ratingHandler.GetRatingTokens)
		r.Get("/scholarships/{id}/frozen", ratingHandler.GetFrozen)
		r.Get("/scholarships/{id}/frozen/derived", ratingHandler.GetFrozenDerived)
		r.Get("/students/{student}/scholarships", scholarshipHandler.ListByStudent)

		// Authenticated operations
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/scholarships", scholarshipHandler.CreateScholarship)
			r.Post("/scholarships/{id}/fund", ledgerHandler.Fund)
			r.Post("/scholarships/{id}/withdraw", ledgerHandler.Withdraw)
			r.Post("/scholarships/{id}/ratings", ratingHandler.Rate)
			r.Post("/scholarships/{id}/freeze/recompute", ratingHandler.RecomputeFreeze)
		})

		// Administrative operations
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(authMiddleware.RequireAdmin)
			r.Put("/scholarships/{id}/frozen", adminHandler.SetFrozen)
			r.Get("/config", adminHandler.GetConfig)
			r.Put("/config/fee", adminHandler.SetFee)
			r.Put("/config/reward-rate", adminHandler.SetRewardRate)
			r.Put("/config/collaborators", adminHandler.SetCollaborators)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
