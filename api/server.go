/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/employees/*      Employee management, postings, range queries
  /api/union/*          Service charges by union member id
  /api/payroll/*        Payroll runs and totals
  /api/undo, /api/redo  Command history
  /api/schedules/*      Payment schedule registry
  /api/reset            Clear the employee store (undoable)

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/search", h.FindEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Patch("/{id}", h.UpdateEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Put("/{id}/method", h.SetMethod)
			r.Put("/{id}/union", h.SetUnion)
			r.Post("/{id}/timecards", h.PostTimeCard)
			r.Post("/{id}/sales", h.PostSale)
			r.Get("/{id}/hours", h.GetHours)
			r.Get("/{id}/sales", h.GetSales)
			r.Get("/{id}/charges", h.GetServiceCharges)
		})

		// Union routes (addressed by member id, not employee id)
		r.Route("/union", func(r chi.Router) {
			r.Post("/{memberId}/charges", h.PostServiceCharge)
		})

		// Payroll routes
		r.Route("/payroll", func(r chi.Router) {
			r.Post("/run", h.RunPayroll)
			r.Get("/total", h.PayrollTotal)
		})

		// History routes
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Get("/history", h.History)

		// Schedule registry routes
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.ListSchedules)
			r.Post("/", h.RegisterSchedule)
			r.Post("/reset", h.ResetSchedules)
		})

		// Store reset (undoable, unlike a database wipe)
		r.Post("/reset", h.Reset)
	})

	return r
}
