/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. Metrics:    Prometheus counters and latency
  5. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/families/*     Households, members, invitations, calendar, board
  /api/events/*       Event CRUD by ID
  /api/chores/*       Chore CRUD and completions by ID
  /api/invitations/*  Token-addressed accept/decline
  /api/plans          Plan catalog
  /metrics            Prometheus scrape
  /health             Liveness probe

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hearth/household-engine/metrics"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(metrics.Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/families", func(r chi.Router) {
			r.Get("/", h.ListFamilies)
			r.Post("/", h.CreateFamily)
			r.Get("/{id}", h.GetFamily)
			r.Post("/{id}/plan", h.UpdatePlan)

			r.Get("/{id}/members", h.ListMembers)
			r.Post("/{id}/members", h.AddMember)

			r.Get("/{id}/invitations", h.ListInvitations)
			r.Post("/{id}/invitations", h.CreateInvitation)

			r.Get("/{id}/events", h.ListEvents)
			r.Post("/{id}/events", h.CreateEvent)
			r.Get("/{id}/calendar", h.GetCalendar)
			r.Get("/{id}/calendar.ics", h.GetCalendarICS)

			r.Get("/{id}/chores", h.ListChores)
			r.Post("/{id}/chores", h.CreateChore)
			r.Get("/{id}/chores/board", h.GetBoard)
			r.Get("/{id}/points", h.GetPoints)
		})

		r.Route("/members", func(r chi.Router) {
			r.Delete("/{id}", h.RemoveMember)
		})

		r.Route("/invitations", func(r chi.Router) {
			r.Post("/{token}/accept", h.AcceptInvitation)
			r.Post("/{token}/decline", h.DeclineInvitation)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
		})

		r.Route("/chores", func(r chi.Router) {
			r.Get("/{id}", h.GetChore)
			r.Put("/{id}", h.UpdateChore)
			r.Delete("/{id}", h.DeleteChore)
			r.Post("/{id}/complete", h.CompleteChore)
		})

		r.Get("/plans", h.ListPlans)
	})

	// Operational endpoints
	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
