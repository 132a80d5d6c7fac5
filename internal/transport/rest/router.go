package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/procureops/procurement-portal/internal/auth"
	"github.com/procureops/procurement-portal/internal/committee"
	"github.com/procureops/procurement-portal/internal/directory"
	"github.com/procureops/procurement-portal/internal/plan"
	"github.com/procureops/procurement-portal/internal/transport/middleware"
	"github.com/procureops/procurement-portal/internal/transport/swagger"
	"github.com/procureops/procurement-portal/internal/user"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, lettersDir, allowedOrigins string, authHandler *auth.Handler, userHandler *user.Handler, committeeHandler *committee.Handler, planHandler *plan.Handler, directoryHandler *directory.Handler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, lettersDir)

	rbac := auth.NewRBACAuthorization(logger)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/logout", authHandler.Logout)
			})
		}

		if authHandler == nil {
			return
		}

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(authHandler.AuthMiddleware)

			// Current user
			if userHandler != nil {
				pr.Get("/users/me", userHandler.GetCurrentUser)
			}

			// Committee routes
			if committeeHandler != nil {
				pr.Route("/committees", func(cr chi.Router) {
					cr.Group(func(vr chi.Router) {
						vr.Use(rbac.RequireViewCommittees())
						vr.Get("/", committeeHandler.ListCommittees)
						vr.Get("/{id}", committeeHandler.GetCommittee)
						vr.Get("/{id}/formation-letter", committeeHandler.DownloadFormationLetter)
					})

					cr.Group(func(mr chi.Router) {
						mr.Use(rbac.RequireManageCommittees())
						mr.Post("/", committeeHandler.CreateCommittee)
						mr.Put("/{id}", committeeHandler.UpdateCommittee)
						mr.Delete("/{id}", committeeHandler.DeleteCommittee)
						mr.Post("/{id}/members", committeeHandler.AddMember)
						mr.Delete("/{id}/members/{employeeID}", committeeHandler.RemoveMember)
					})
				})
			}

			// Procurement plan routes (reference data for committee forms)
			if planHandler != nil {
				pr.Group(func(plr chi.Router) {
					plr.Use(rbac.RequireViewCommittees())
					plr.Get("/plans", planHandler.ListPlans)
					plr.Get("/plans/{id}", planHandler.GetPlan)
				})
			}

			// Employee directory lookup
			if directoryHandler != nil {
				pr.Group(func(dr chi.Router) {
					dr.Use(rbac.RequireViewCommittees())
					dr.Get("/employees/{employeeID}", directoryHandler.GetEmployee)
				})
			}

			// User administration routes
			if userHandler != nil {
				pr.Group(func(ur chi.Router) {
					ur.Use(rbac.RequireManageUsers())
					ur.Get("/users", userHandler.ListUsers)
					ur.Post("/users", userHandler.CreateUser)
					ur.Get("/users/{id}", userHandler.GetUser)
					ur.Patch("/users/{id}", userHandler.UpdateUser)
					ur.Delete("/users/{id}", userHandler.DeleteUser)
					ur.Get("/roles", userHandler.ListRoles)
				})
			}
		})
	})
}
