package router

import (
	"net/http"
	"strings"

	"quote-configurator/app/controller"
	"quote-configurator/app/middleware"
	"quote-configurator/ratelimit"
)

// Controllers groups every HTTP controller
type Controllers struct {
	Catalog *controller.CatalogController
	Session *controller.SessionController
	Booking *controller.BookingController
	Contact *controller.ContactController
}

// Guards holds admission control for session creation and the write endpoints that reach people or calendars
type Guards struct {
	SessionLimiter ratelimit.Limiter
	SubmitLimiter  ratelimit.Limiter
	ContactLimiter ratelimit.Limiter
	AdminToken     string
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	middleware.WriteAPIError(w, r, http.StatusNotFound, "not_found", "Not found", "")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	middleware.WriteAPIError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed", "")
}

// SetupRoutes registers every route on mux
func SetupRoutes(mux *http.ServeMux, controllers *Controllers, guards Guards) {
	mux.HandleFunc("/ping", pingHandler)

	// Catalog and stateless quote
	mux.HandleFunc("/api/catalog", middleware.Chain(controllers.Catalog.GetCatalog))
	mux.HandleFunc("/api/quote", middleware.Chain(controllers.Catalog.Quote))

	// Contact form
	mux.HandleFunc("/api/contact", middleware.Chain(
		middleware.Throttle(guards.ContactLimiter, "contact", controllers.Contact.SubmitMessage)))

	// Sessions
	mux.HandleFunc("/api/sessions", middleware.Chain(
		middleware.Throttle(guards.SessionLimiter, "create-session", controllers.Session.Create)))

	submit := middleware.Throttle(guards.SubmitLimiter, "submit", controllers.Session.Submit)
	mux.HandleFunc("/api/sessions/", middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/sessions/"), "/"), "/")
		if parts[0] == "" || len(parts) > 2 {
			notFound(w, r)
			return
		}

		// GET /api/sessions/{id}
		if len(parts) == 1 {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			controllers.Session.Get(w, r)
			return
		}

		action := parts[1]
		// Read-only actions
		switch action {
		case "availability":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			controllers.Session.Availability(w, r)
			return
		case "quote.pdf":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, r)
				return
			}
			controllers.Session.QuotePDF(w, r)
			return
		}

		handlers := map[string]http.HandlerFunc{
			"toggle":       controllers.Session.Toggle,
			"quantity":     controllers.Session.SetQuantity,
			"project-type": controllers.Session.ChangeProjectType,
			"checkout":     controllers.Session.StartCheckout,
			"contact":      controllers.Session.SetContact,
			"back":         controllers.Session.Back,
			"start-date":   controllers.Session.SelectStart,
			"submit":       submit,
			"close":        controllers.Session.Close,
		}
		handler, ok := handlers[action]
		if !ok {
			notFound(w, r)
			return
		}
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r)
			return
		}
		handler(w, r)
	}))

	// Admin: booking requests
	mux.HandleFunc("/admin/bookings", middleware.Chain(
		middleware.AdminAuth(guards.AdminToken, controllers.Booking.ListBookings)))

	mux.HandleFunc("/admin/bookings/", middleware.Chain(middleware.AdminAuth(guards.AdminToken,
		func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimPrefix(r.URL.Path, "/admin/bookings/")

			// Route to specific actions first
			if strings.HasSuffix(path, "/confirm") {
				controllers.Booking.ConfirmBooking(w, r)
				return
			}
			if strings.HasSuffix(path, "/reject") {
				controllers.Booking.RejectBooking(w, r)
				return
			}

			// Otherwise, treat as GET /admin/bookings/:id
			if r.Method == http.MethodGet {
				controllers.Booking.GetBooking(w, r)
				return
			}
			methodNotAllowed(w, r)
		})))
}
