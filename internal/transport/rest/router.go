package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	internal "github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/audit"
	"github.com/frahmantamala/employee-management/internal/auth"
	"github.com/frahmantamala/employee-management/internal/employee"
	"github.com/frahmantamala/employee-management/internal/transport/middleware"
	"github.com/frahmantamala/employee-management/internal/transport/swagger"
	"github.com/frahmantamala/employee-management/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, authHandler *auth.Handler, authorizer *auth.Authorizer, userHandler *user.Handler, employeeHandler *employee.Handler, auditHandler *audit.Handler, rlCfg internal.RateLimitConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Per-route-class limiters, keyed by client IP
	authLimiter := middleware.NewIPRateLimiter(rlCfg.AuthPerTenMinutes, 10*time.Minute)
	employeeReadLimiter := middleware.NewIPRateLimiter(rlCfg.EmployeeReadPerMinute, time.Minute)
	employeeCreateLimiter := middleware.NewIPRateLimiter(rlCfg.EmployeeCreatePerTenMinutes, 10*time.Minute)
	generalLimiter := middleware.NewIPRateLimiter(rlCfg.GeneralPerMinute, time.Minute)

	// Apply global middleware
	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes, throttled hardest
		if authHandler != nil {
			r.Route("/auth", func(sr chi.Router) {
				sr.Use(authLimiter.Middleware)
				sr.Post("/login", authHandler.Login)
				sr.Post("/refresh", authHandler.RefreshToken)
				sr.Post("/signup", authHandler.SignUpFirstAdmin)
				sr.Get("/first-user", authHandler.FirstUser)

				sr.Group(func(pr chi.Router) {
					pr.Use(authHandler.AuthMiddleware)
					pr.Post("/logout", authHandler.Logout)
					pr.Get("/session", authHandler.Session)
				})
			})
		}

		if authHandler != nil {
			// Protected routes that require authentication
			r.Group(func(pr chi.Router) {
				pr.Use(authHandler.AuthMiddleware)
				pr.Use(generalLimiter.Middleware)

				// Current user
				if userHandler != nil {
					pr.Get("/users/me", userHandler.Me)
				}

				// Employee routes
				if employeeHandler != nil {
					pr.Route("/employees", func(er chi.Router) {
						er.Group(func(vr chi.Router) {
							vr.Use(authorizer.Require(auth.ActionView, auth.ResourceEmployee))
							vr.Use(employeeReadLimiter.Middleware)
							vr.Get("/", employeeHandler.List)
							vr.Get("/{id}", employeeHandler.Get)
						})

						er.Group(func(cr chi.Router) {
							cr.Use(authorizer.Require(auth.ActionCreate, auth.ResourceEmployee))
							cr.Use(employeeCreateLimiter.Middleware)
							cr.Post("/", employeeHandler.Create)
						})

						er.Group(func(mr chi.Router) {
							mr.Use(authorizer.Require(auth.ActionEdit, auth.ResourceEmployee))
							mr.Patch("/{id}", employeeHandler.Update)
							mr.Put("/{id}", employeeHandler.Update)
						})

						er.Group(func(dr chi.Router) {
							dr.Use(authorizer.Require(auth.ActionDelete, auth.ResourceEmployee))
							dr.Delete("/{id}", employeeHandler.Delete)
						})
					})
				}

				// User management routes
				if userHandler != nil {
					pr.Route("/users", func(ur chi.Router) {
						ur.Group(func(vr chi.Router) {
							vr.Use(authorizer.Require(auth.ActionView, auth.ResourceUser))
							vr.Get("/", userHandler.List)
						})
						ur.Group(func(cr chi.Router) {
							cr.Use(authorizer.Require(auth.ActionCreate, auth.ResourceUser))
							cr.Post("/", userHandler.Create)
						})
						ur.Group(func(er chi.Router) {
							er.Use(authorizer.Require(auth.ActionEdit, auth.ResourceUser))
							er.Patch("/{id}", userHandler.Update)
						})
						ur.Group(func(dr chi.Router) {
							dr.Use(authorizer.Require(auth.ActionDelete, auth.ResourceUser))
							dr.Delete("/{id}", userHandler.Delete)
						})
						ur.Group(func(mr chi.Router) {
							mr.Use(authorizer.Require(auth.ActionManage, auth.ResourceUser))
							mr.Post("/{id}/ban", userHandler.Ban)
							mr.Post("/{id}/unban", userHandler.Unban)
							mr.Post("/{id}/reset-password", userHandler.ResetPassword)
						})
					})
				}

				// Audit trail routes
				if auditHandler != nil {
					pr.Route("/audit-logs", func(ar chi.Router) {
						ar.Group(func(vr chi.Router) {
							vr.Use(authorizer.Require(auth.ActionView, auth.ResourceAudit))
							vr.Get("/", auditHandler.List)
						})
						ar.Group(func(xr chi.Router) {
							xr.Use(authorizer.Require(auth.ActionExport, auth.ResourceAudit))
							xr.Get("/export", auditHandler.Export)
						})
					})
				}
			})
		}
	})
}
