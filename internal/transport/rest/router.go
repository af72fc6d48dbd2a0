package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/geodateam/team-presence/internal/attendance"
	"github.com/geodateam/team-presence/internal/auth"
	"github.com/geodateam/team-presence/internal/expense"
	"github.com/geodateam/team-presence/internal/location"
	"github.com/geodateam/team-presence/internal/report"
	"github.com/geodateam/team-presence/internal/transport/middleware"
	"github.com/geodateam/team-presence/internal/transport/swagger"
)

func RegisterAllRoutes(
	router *chi.Mux,
	db *sql.DB,
	authHandler *auth.Handler,
	attendanceHandler *attendance.Handler,
	expenseHandler *expense.Handler,
	locationHandler *location.Handler,
	reportHandler *report.Handler,
	logger *slog.Logger,
) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", authHandler.Register)
			sr.Post("/login", authHandler.Login)
			sr.Post("/logout", authHandler.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			pr.Get("/users/me", authHandler.CurrentUser)

			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/clock-in", attendanceHandler.ClockIn)
				ar.Post("/clock-out", attendanceHandler.ClockOut)
				ar.Get("/", attendanceHandler.History)
				ar.Get("/today", attendanceHandler.Today)
			})

			pr.Route("/expenses", func(er chi.Router) {
				er.Post("/", expenseHandler.Submit)
				er.Get("/", expenseHandler.List)
				er.Get("/{id}/receipt", expenseHandler.Receipt)

				er.Group(func(mr chi.Router) {
					mr.Use(authHandler.RequireAdmin)
					mr.Patch("/{id}/status", expenseHandler.UpdateStatus)
				})
			})

			pr.Post("/location", locationHandler.Track)

			// Admin dashboard routes
			pr.Route("/admin", func(adm chi.Router) {
				adm.Use(authHandler.RequireAdmin)

				adm.Get("/stats", reportHandler.Stats)
				adm.Get("/team", reportHandler.Team)
				adm.Get("/team-attendance", reportHandler.TeamAttendance)
				adm.Get("/pending-expenses", expenseHandler.ListPending)
				adm.Get("/users-not-clocked", reportHandler.UsersNotClocked)
				adm.Post("/send-reminder", reportHandler.SendReminder)
			})
		})
	})
}
