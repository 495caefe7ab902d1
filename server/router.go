package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbovertime/auth"
	"jbovertime/handlers"
	"jbovertime/middleware"
	"jbovertime/models"
	"jbovertime/overtime"
	"jbovertime/store"
)

// Deps are the services the HTTP API is built from. Redis may be nil.
type Deps struct {
	DB            *gorm.DB
	Redis         *redis.Client
	Auth          *auth.Service
	Records       *store.Records
	Users         *store.Users
	Settings      *store.Settings
	Validator     *overtime.Validator
	Log           zerolog.Logger
	SecureCookies bool
}

const passwordPath = "/api/auth/password"

func NewRouter(d Deps) http.Handler {
	authHandler := handlers.NewAuthHandler(d.Auth, d.SecureCookies)
	overtimeHandler := handlers.NewOvertimeHandler(d.Records, d.Settings, d.Validator)
	adminHandler := handlers.NewAdminHandler(d.Records, d.Users, d.Settings)
	healthHandler := handlers.NewHealthHandler(d.DB, d.Redis)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(d.Log))
	router.Use(middleware.Metrics)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecurityHeaders(middleware.SecurityHeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
	}))

	// Public routes
	router.Get("/health", healthHandler.Liveness)
	router.Get("/health/ready", healthHandler.Readiness)
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.SignUp)
		r.Post("/auth/signin", authHandler.SignIn)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(d.Auth))

			// reachable while a password change is pending
			r.Post("/auth/signout", authHandler.SignOut)
			r.Get("/auth/me", authHandler.Me)
			r.Post("/auth/password", authHandler.ChangePassword)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePasswordChange(passwordPath))

				r.Post("/overtime/calculate", overtimeHandler.Calculate)
				r.Get("/overtime", overtimeHandler.List)
				r.Post("/overtime", overtimeHandler.Create)
				r.Get("/overtime/summary", overtimeHandler.Summary)
				r.Get("/overtime/export.csv", overtimeHandler.ExportCSV)
				r.Get("/overtime/export.xlsx", overtimeHandler.ExportXLSX)
				r.Get("/overtime/{id}", overtimeHandler.Get)
				r.Put("/overtime/{id}", overtimeHandler.Update)
				r.Delete("/overtime/{id}", overtimeHandler.Delete)

				r.Get("/admin/settings/hourly-rate", adminHandler.HourlyRate)

				// Admin only routes
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(d.Auth, models.RoleAdmin))
					r.Get("/admin/records", adminHandler.Records)
					r.Get("/admin/users", adminHandler.Users)
					r.Get("/admin/dashboard", adminHandler.Dashboard)
					r.Get("/admin/export.csv", adminHandler.ExportCSV)
					r.Get("/admin/export.xlsx", adminHandler.ExportXLSX)
					r.Put("/admin/settings/hourly-rate", adminHandler.SetHourlyRate)
				})
			})
		})
	})

	return router
}
