package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/carewell/clinic-portal/internal/auth"
	"github.com/carewell/clinic-portal/internal/booking"
	"github.com/carewell/clinic-portal/internal/dashboard"
	httpmiddleware "github.com/carewell/clinic-portal/internal/http/middleware"
	"github.com/carewell/clinic-portal/internal/patients"
	"github.com/carewell/clinic-portal/internal/prescriptions"
	"github.com/carewell/clinic-portal/internal/reports"
	"github.com/carewell/clinic-portal/internal/schedule"
	"github.com/carewell/clinic-portal/internal/session"
	"github.com/carewell/clinic-portal/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger               *logging.Logger
	AuthHandler          *auth.Handler
	BookingHandler       *booking.Handler
	DashboardHandler     *dashboard.Handler
	PatientsHandler      *patients.Handler
	ScheduleHandler      *schedule.Handler
	ReportsHandler       *reports.Handler
	PrescriptionsHandler *prescriptions.Handler
	SessionStore         *session.Store
	MetricsHandler       http.Handler
	CORSAllowedOrigins   []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		// Public endpoints
		api.Get("/services", cfg.BookingHandler.ListServices)
		api.Post("/appointments", cfg.BookingHandler.Book)
		api.Get("/session", cfg.AuthHandler.SessionInfo)
		api.Post("/logout", cfg.AuthHandler.Logout)

		api.Route("/login", func(login chi.Router) {
			login.Post("/request", cfg.AuthHandler.RequestPasscode(session.RolePatient))
			login.Post("/verify", cfg.AuthHandler.VerifyPasscode(session.RolePatient))
			login.Post("/back", cfg.AuthHandler.Back(session.RolePatient))
		})

		// Patient pages (session required)
		api.Route("/patient", func(patient chi.Router) {
			patient.Use(httpmiddleware.RequireSession(cfg.SessionStore, session.RolePatient, cfg.Logger))
			patient.Get("/history", cfg.PatientsHandler.History)
		})

		api.Route("/admin", func(admin chi.Router) {
			// Admin login is public; everything else needs an admin session.
			admin.Route("/login", func(login chi.Router) {
				login.Post("/request", cfg.AuthHandler.RequestPasscode(session.RoleAdmin))
				login.Post("/verify", cfg.AuthHandler.VerifyPasscode(session.RoleAdmin))
				login.Post("/back", cfg.AuthHandler.Back(session.RoleAdmin))
			})

			admin.Group(func(priv chi.Router) {
				priv.Use(httpmiddleware.RequireSession(cfg.SessionStore, session.RoleAdmin, cfg.Logger))
				priv.Get("/dashboard", cfg.DashboardHandler.Overview)
				priv.Get("/appointments", cfg.DashboardHandler.Appointments)
				priv.Get("/patients", cfg.PatientsHandler.List)
				priv.Get("/calendar", cfg.ScheduleHandler.Day)
				priv.Get("/reports", cfg.ReportsHandler.Get)
				priv.Post("/prescriptions", cfg.PrescriptionsHandler.Upload)
			})
		})
	})

	return r
}
