/**
 * @description
 * This file sets up the HTTP router for the money-tracker server. It defines
 * the API endpoints, associates them with their corresponding handlers, and
 * applies any necessary middleware, such as for authentication and rate
 * limiting.
 *
 * @dependencies
 * - net/http: Standard Go library for HTTP functionality.
 * - github.com/go-chi/chi/v5: A lightweight and idiomatic router for Go.
 */

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cybermumuca/money-tracker-server/internal/app"
)

// RateLimitSettings bounds transfer registration per user.
type RateLimitSettings struct {
	Limit  int
	Window time.Duration
}

// Routes creates and returns the router for the ledger service.
func Routes(h *LedgerHandlers, jwtSecret string, limiter *app.RedisRegistrationRateLimiter, rateLimit RateLimitSettings) http.Handler {
	r := chi.NewRouter()

	// Add standard middleware for logging, panic recovery, and timeouts.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})

	// Group routes that require authentication.
	r.Route("/v1", func(r chi.Router) {
		r.Use(AuthMiddleware(jwtSecret))

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", h.CreateAccountHandler)
			r.Get("/", h.ListAccountsHandler)
			r.Get("/archived", h.ListArchivedAccountsHandler)
			r.Get("/{id}", h.GetAccountHandler)
			r.Patch("/{id}", h.EditAccountHandler)
			r.Delete("/{id}", h.DeleteAccountHandler)
			r.Post("/{id}/archive", h.ArchiveAccountHandler)
			r.Post("/{id}/unarchive", h.UnarchiveAccountHandler)
		})

		r.Route("/transfers", func(r chi.Router) {
			// Registration endpoints are rate limited; reads and state
			// transitions are not.
			r.Group(func(r chi.Router) {
				r.Use(RateLimitMiddleware(limiter, "transfer_registration", rateLimit.Limit, rateLimit.Window))
				r.Post("/unique", h.RegisterUniqueTransferHandler)
				r.Post("/repeated", h.RegisterRepeatedTransferHandler)
			})

			r.Get("/", h.ListTransfersHandler)
			r.Get("/{id}", h.GetTransferHandler)
			r.Patch("/{id}/pay", h.PayTransferHandler)
			r.Patch("/{id}/unpay", h.UnpayTransferHandler)
			r.Delete("/{id}", h.DeleteTransferHandler)
		})

		r.Delete("/recurrences/{id}/transfers/future", h.DeleteFutureTransfersHandler)
	})

	return r
}
