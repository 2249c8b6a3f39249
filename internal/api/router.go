package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/middleware"
)

// Routes builds the HTTP router: health and metrics stay open, the API
// sits behind bearer-token authentication.
func Routes(h *Handlers, jwtManager *auth.JWTManager) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("healthy"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAuth(jwtManager))

		r.Post("/groups", h.CreateGroup)
		r.Get("/groups", h.ListGroups)

		r.Route("/groups/{groupID}", func(r chi.Router) {
			r.Get("/", h.GetGroup)
			r.Post("/members", h.AddMember)
			r.Delete("/members/{userID}", h.RemoveMember)

			r.Post("/expenses", h.CreateExpense)
			r.Get("/expenses", h.ListExpenses)
			r.Post("/payments", h.RecordPayment)

			r.Get("/balances", h.GetBalances)
			r.Post("/settlements", h.Settle)
			r.Post("/settlements/bulk", h.SettleBulk)
			r.Get("/settlements", h.ListSettlements)

			r.Get("/activity", h.ListActivity)
		})
	})

	return r
}
