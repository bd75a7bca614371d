package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/apilog"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Auth       AuthHandler
	Company    CompanyHandler
	User       UserHandler
	TimeRecord TimeRecordHandler
	Absence    AbsenceHandler
	Adjustment AdjustmentHandler
	Health     HealthHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	APILogs        apilog.APILogRepository
	Clock          clock.Clock
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
		Level:  opts.LogLevel,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))
	r.Use(middleware.APILogger(opts.APILogs, opts.Clock))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Get("/health", h.Health.Check)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Check)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/logout", h.Auth.Logout)

			r.Route("/companies", func(r chi.Router) {
				r.Get("/my", h.Company.GetMine)

				// Master only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireMaster)
					r.Get("/", h.Company.List)
					r.Post("/", h.Company.Create)
					r.Get("/{id}", h.Company.GetByID)
					r.Put("/{id}", h.Company.Update)
					r.Delete("/{id}", h.Company.Delete)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/", h.User.List)
				r.Post("/", h.User.Create)
				r.Get("/{id}", h.User.GetByID)
				r.Put("/{id}", h.User.Update)
				r.Delete("/{id}", h.User.Delete)
			})

			r.Route("/time-records", func(r chi.Router) {
				r.Get("/", h.TimeRecord.List)
				r.Post("/", h.TimeRecord.Store)
				r.Post("/quick-entry", h.TimeRecord.QuickEntry)
				r.Get("/hour-bank", h.TimeRecord.HourBank)
				r.Get("/export", h.TimeRecord.Export)
				r.Get("/{id}", h.TimeRecord.GetByID)
				r.With(middleware.AdminOnly).Get("/{id}/audit", h.TimeRecord.Audit)
			})

			r.Route("/absences", func(r chi.Router) {
				r.Get("/", h.Absence.List)
				r.Post("/", h.Absence.Create)
				r.Get("/{id}", h.Absence.GetByID)
				r.Delete("/{id}", h.Absence.Delete)
			})

			r.Route("/adjustments", func(r chi.Router) {
				r.Get("/", h.Adjustment.List)
				r.Post("/", h.Adjustment.Create)
				r.Get("/{id}", h.Adjustment.GetByID)
				r.Delete("/{id}", h.Adjustment.Delete)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/time-records", h.TimeRecord.AdminList)
				r.Put("/time-records/{id}", h.TimeRecord.AdminUpdate)
				r.Delete("/time-records/{id}", h.TimeRecord.AdminDelete)
				r.Get("/hour-bank", h.TimeRecord.CompanyHourBank)

				r.Get("/absences", h.Absence.AdminList)
				r.Patch("/absences/{id}/status", h.Absence.UpdateStatus)

				r.Get("/adjustments", h.Adjustment.AdminList)
				r.Patch("/adjustments/{id}/approve", h.Adjustment.Approve)
				r.Patch("/adjustments/{id}/reject", h.Adjustment.Reject)
			})
		})
	})
	return r
}
